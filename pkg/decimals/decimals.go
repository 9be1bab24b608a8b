package decimals

import (
	"math"
	"strings"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/common/errs"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	DefaultDivPrecision = 36
)

func init() {
	decimal.DivisionPrecision = DefaultDivPrecision
}

// MustFromString convert string to decimal.Decimal. Panic if error
// string must be a valid number, not NaN, Inf or empty string.
func MustFromString(s string) decimal.Decimal {
	return utils.Must(decimal.NewFromString(s))
}

// ToDecimal converts a base-unit token amount into its human readable value,
// e.g. 1500000000 with 7 decimals is 150.
func ToDecimal(amount *uint256.Int, decimals uint8) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount.ToBig(), -int32(decimals))
}

// FormatUnits renders a base-unit amount with the token decimals, trailing zeros removed.
func FormatUnits(amount *uint256.Int, decimals uint8) string {
	return ToDecimal(amount, decimals).String()
}

// ParseUnits converts a human readable amount (e.g. "0.08") into base units of a token
// with the given decimals. The amount must be non-negative and must not carry more
// fractional digits than the token supports.
func ParseUnits(s string, decimals uint8) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "empty amount")
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.Wrapf(errs.InvalidArgument, "invalid amount %q", s)
	}
	if value.IsNegative() {
		return nil, errors.Wrapf(errs.InvalidArgument, "negative amount %q", s)
	}
	scaled := value.Mul(PowerOfTen(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, errors.Wrapf(errs.InvalidArgument, "amount %q has more than %d decimal places", s, decimals)
	}
	result, overflow := uint256.FromBig(scaled.BigInt())
	if overflow {
		return nil, errors.Wrapf(errs.OverflowUint256, "amount %q", s)
	}
	return result, nil
}

// MustParseUnits is like [ParseUnits] but panics on error. Intended for constants and tests.
func MustParseUnits(s string, decimals uint8) *uint256.Int {
	return utils.Must(ParseUnits(s, decimals))
}

// ParseBaseUnits parses a plain base-unit integer string (as sent over the wire).
func ParseBaseUnits(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "empty amount")
	}
	value, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errors.Wrapf(errs.InvalidArgument, "invalid base unit amount %q: %v", s, err)
	}
	return value, nil
}

// ToFloat64 is a lossy conversion for metrics and reports only. Never use the result for accounting.
func ToFloat64(amount *uint256.Int, decimals uint8) float64 {
	f, exact := ToDecimal(amount, decimals).Float64()
	if !exact && math.IsInf(f, 0) {
		return math.MaxFloat64
	}
	return f
}
