package postgres

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/modules/presale/repository/postgres/gen"
	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint256FromNumeric(t *testing.T) {
	t.Run("normal", func(t *testing.T) {
		numeric := pgtype.Numeric{}
		require.NoError(t, numeric.ScanInt64(pgtype.Int8{Int64: 1000, Valid: true}))

		result, err := uint256FromNumeric(numeric)
		assert.NoError(t, err)
		assert.Equal(t, uint256.NewInt(1000), result)
	})
	t.Run("null", func(t *testing.T) {
		result, err := uint256FromNumeric(pgtype.Numeric{})
		assert.NoError(t, err)
		assert.True(t, result.IsZero())
	})
	t.Run("negative", func(t *testing.T) {
		numeric := pgtype.Numeric{}
		require.NoError(t, numeric.ScanInt64(pgtype.Int8{Int64: -1, Valid: true}))

		_, err := uint256FromNumeric(numeric)
		assert.Error(t, err)
	})
}

func TestNumericFromUint256(t *testing.T) {
	t.Run("max", func(t *testing.T) {
		maxValue := new(uint256.Int).SetAllOne()

		numeric, err := numericFromUint256(maxValue)
		require.NoError(t, err)
		assert.True(t, numeric.Valid)

		back, err := uint256FromNumeric(numeric)
		require.NoError(t, err)
		assert.Equal(t, maxValue, back)
	})
	t.Run("nil is zero", func(t *testing.T) {
		numeric, err := numericFromUint256(nil)
		require.NoError(t, err)

		back, err := uint256FromNumeric(numeric)
		require.NoError(t, err)
		assert.True(t, back.IsZero())
	})
}

func TestMapState(t *testing.T) {
	release := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	state := entity.State{
		Owner:             common.HexToAddress("0x01"),
		FundsWallet:       common.HexToAddress("0x02"),
		PaymentToken:      common.HexToAddress("0x03"),
		SaleToken:         common.HexToAddress("0x04"),
		PaymentDecimals:   18,
		SaleDecimals:      7,
		TotalRaised:       uint256.NewInt(5),
		TotalVested:       uint256.NewInt(6),
		HardCap:           uint256.NewInt(7),
		MinPurchase:       uint256.NewInt(1),
		MaxPurchase:       uint256.NewInt(3),
		Paused:            true,
		ImmediateDelivery: true,
		ReleaseTime:       release,
	}

	params, err := mapStateTypeToParams(state)
	require.NoError(t, err)
	assert.Equal(t, state.Owner.Hex(), params.Owner)
	assert.Equal(t, int16(7), params.SaleDecimals)

	back, err := mapStateModelToType(gen.PresaleState{
		ID:                1,
		Owner:             params.Owner,
		FundsWallet:       params.FundsWallet,
		PaymentToken:      params.PaymentToken,
		SaleToken:         params.SaleToken,
		PaymentDecimals:   params.PaymentDecimals,
		SaleDecimals:      params.SaleDecimals,
		TotalRaised:       params.TotalRaised,
		TotalVested:       params.TotalVested,
		HardCap:           params.HardCap,
		MinPurchase:       params.MinPurchase,
		MaxPurchase:       params.MaxPurchase,
		Paused:            params.Paused,
		ImmediateDelivery: params.ImmediateDelivery,
		ReleaseTime:       params.ReleaseTime,
	})
	require.NoError(t, err)
	assert.Equal(t, state, back)
}
