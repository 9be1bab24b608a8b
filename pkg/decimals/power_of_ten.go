package decimals

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

// maxUint256Exponent is the largest n where 10^n still fits in 256 bits.
const maxUint256Exponent = 77

var (
	powerOfTenUint256 [maxUint256Exponent + 1]uint256.Int
	powerOfTen        [maxUint256Exponent + 1]decimal.Decimal
)

func init() {
	ten := uint256.NewInt(10)
	powerOfTenUint256[0].SetOne()
	powerOfTen[0] = decimal.New(1, 0)
	for i := 1; i <= maxUint256Exponent; i++ {
		powerOfTenUint256[i].Mul(&powerOfTenUint256[i-1], ten)
		powerOfTen[i] = decimal.New(1, int32(i))
	}
}

// PowerOfTen returns 10^n. Exponents of token decimals are served from a table.
func PowerOfTen[T constraints.Integer](n T) decimal.Decimal {
	if n >= 0 && uint64(n) <= maxUint256Exponent {
		return powerOfTen[n]
	}
	return decimal.New(1, int32(n))
}

// PowerOfTenUint256 returns 10^n as a fresh *uint256.Int. ok is false when 10^n doesn't fit in 256 bits.
func PowerOfTenUint256(n uint8) (result *uint256.Int, ok bool) {
	if int(n) > maxUint256Exponent {
		return nil, false
	}
	return new(uint256.Int).Set(&powerOfTenUint256[n]), true
}
