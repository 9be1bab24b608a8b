package pricing

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/modules/presale/reason"
	"github.com/gaze-network/presale/pkg/decimals"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	paymentDecimals = 18
	saleDecimals    = 7
)

func usd(s string) *uint256.Int {
	return decimals.MustParseUnits(s, paymentDecimals)
}

func tokens(s string) *uint256.Int {
	return decimals.MustParseUnits(s, saleDecimals)
}

func defaultTiers() []entity.Tier {
	return []entity.Tier{
		{MinSpend: usd("0"), PricePerToken: usd("0.10")},
		{MinSpend: usd("100"), PricePerToken: usd("0.08")},
		{MinSpend: usd("1000"), PricePerToken: usd("0.05")},
	}
}

func TestQuote(t *testing.T) {
	table, err := New(defaultTiers(), saleDecimals)
	require.NoError(t, err)

	testCases := []struct {
		amount    string
		tierIndex int
		price     string
		tokensOut string
	}{
		{amount: "0", tierIndex: 0, price: "0.10", tokensOut: "0"},
		{amount: "50", tierIndex: 0, price: "0.10", tokensOut: "500"},
		{amount: "99.99", tierIndex: 0, price: "0.10", tokensOut: "999.9"},
		{amount: "100", tierIndex: 1, price: "0.08", tokensOut: "1250"},
		{amount: "150", tierIndex: 1, price: "0.08", tokensOut: "1875"},
		{amount: "999", tierIndex: 1, price: "0.08", tokensOut: "12487.5"},
		{amount: "1000", tierIndex: 2, price: "0.05", tokensOut: "20000"},
		{amount: "1500", tierIndex: 2, price: "0.05", tokensOut: "30000"},
	}
	for _, tc := range testCases {
		t.Run(tc.amount, func(t *testing.T) {
			preview, err := table.Quote(usd(tc.amount))
			require.NoError(t, err)
			assert.Equal(t, tc.tierIndex, preview.TierIndex)
			assert.Equal(t, usd(tc.price).Dec(), preview.AppliedPrice.Dec())
			assert.Equal(t, tokens(tc.tokensOut).Dec(), preview.TokensOut.Dec())
		})
	}
}

func TestQuoteTruncates(t *testing.T) {
	// 1 base unit of payment at price 3 base units per whole token with 0 decimals.
	table, err := New([]entity.Tier{{MinSpend: uint256.NewInt(0), PricePerToken: uint256.NewInt(3)}}, 0)
	require.NoError(t, err)

	preview, err := table.Quote(uint256.NewInt(10))
	require.NoError(t, err)
	assert.EqualValues(t, 3, preview.TokensOut.Uint64())

	preview, err = table.Quote(uint256.NewInt(2))
	require.NoError(t, err)
	assert.True(t, preview.TokensOut.IsZero())
}

func TestQuoteIsStable(t *testing.T) {
	table, err := New(defaultTiers(), saleDecimals)
	require.NoError(t, err)

	first, err := table.Quote(usd("150"))
	require.NoError(t, err)
	second, err := table.Quote(usd("150"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestQuoteOverflow(t *testing.T) {
	table, err := New(defaultTiers(), saleDecimals)
	require.NoError(t, err)

	max := new(uint256.Int).SetAllOne()
	_, err = table.Quote(max)
	assert.True(t, errors.Is(err, errs.OverflowUint256))

	_, err = table.Quote(nil)
	assert.True(t, errors.Is(err, errs.InvalidArgument))
}

func TestTableIsIsolatedFromInput(t *testing.T) {
	tiers := defaultTiers()
	table, err := New(tiers, saleDecimals)
	require.NoError(t, err)

	tiers[1].PricePerToken.SetUint64(1)
	preview, err := table.Quote(usd("100"))
	require.NoError(t, err)
	assert.Equal(t, usd("0.08").Dec(), preview.AppliedPrice.Dec())

	copied := table.Tiers()
	copied[0].PricePerToken.SetUint64(1)
	assert.Equal(t, usd("0.10").Dec(), table.Tiers()[0].PricePerToken.Dec())
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name  string
		tiers []entity.Tier
	}{
		{name: "empty", tiers: nil},
		{name: "first_not_zero", tiers: []entity.Tier{{MinSpend: usd("1"), PricePerToken: usd("0.1")}}},
		{name: "zero_price", tiers: []entity.Tier{{MinSpend: usd("0"), PricePerToken: usd("0")}}},
		{name: "missing_price", tiers: []entity.Tier{{MinSpend: usd("0")}}},
		{
			name: "not_ascending",
			tiers: []entity.Tier{
				{MinSpend: usd("0"), PricePerToken: usd("0.1")},
				{MinSpend: usd("100"), PricePerToken: usd("0.08")},
				{MinSpend: usd("100"), PricePerToken: usd("0.05")},
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.tiers)
			assert.True(t, errors.Is(err, reason.InvalidTiers), "got %v", err)
		})
	}

	assert.NoError(t, Validate(defaultTiers()))
}

func TestTokensAt(t *testing.T) {
	table, err := New(defaultTiers(), saleDecimals)
	require.NoError(t, err)

	// tokens per 100 payment units, per tier
	for i, expected := range []string{"1000", "1250", "2000"} {
		out, err := table.TokensAt(i, usd("100"))
		require.NoError(t, err)
		assert.Equal(t, tokens(expected).Dec(), out.Dec())
	}

	_, err = table.TokensAt(3, usd("100"))
	assert.True(t, errors.Is(err, errs.InvalidArgument))
}
