package decimals

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/common/errs"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnits(t *testing.T) {
	testcases := []struct {
		input    string
		decimals uint8
		expected string
	}{
		{"0", 18, "0"},
		{"10", 18, "10000000000000000000"},
		{"0.10", 18, "100000000000000000"},
		{"0.08", 18, "80000000000000000"},
		{"1000000", 18, "1000000000000000000000000"},
		{"50000000", 7, "500000000000000"},
		{"1250", 7, "12500000000"},
		{" 1.5 ", 1, "15"},
	}
	for _, tc := range testcases {
		t.Run(tc.input, func(t *testing.T) {
			actual, err := ParseUnits(tc.input, tc.decimals)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual.Dec())
		})
	}

	t.Run("invalid", func(t *testing.T) {
		for _, input := range []string{"", "abc", "-1", "0.00000001"} {
			_, err := ParseUnits(input, 7)
			assert.True(t, errors.Is(err, errs.InvalidArgument), "input %q", input)
		}
	})
	t.Run("overflow", func(t *testing.T) {
		_, err := ParseUnits("1"+strings.Repeat("0", 70), 18)
		assert.True(t, errors.Is(err, errs.OverflowUint256))
	})
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "150", FormatUnits(uint256.NewInt(1_500_000_000), 7))
	assert.Equal(t, "0.1", FormatUnits(uint256.NewInt(100_000_000_000_000_000), 18))
	assert.Equal(t, "0", FormatUnits(nil, 18))
	assert.Equal(t, "0.0000001", FormatUnits(uint256.NewInt(1), 7))
}

func TestParseBaseUnits(t *testing.T) {
	v, err := ParseBaseUnits("100000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "100000000000000000000", v.Dec())

	_, err = ParseBaseUnits("1.5")
	assert.True(t, errors.Is(err, errs.InvalidArgument))
	_, err = ParseBaseUnits("")
	assert.True(t, errors.Is(err, errs.InvalidArgument))
}

func TestPowerOfTenUint256(t *testing.T) {
	v, ok := PowerOfTenUint256(7)
	require.True(t, ok)
	assert.Equal(t, uint64(10_000_000), v.Uint64())

	v, ok = PowerOfTenUint256(77)
	require.True(t, ok)
	assert.Equal(t, PowerOfTen(77).String(), v.Dec())

	_, ok = PowerOfTenUint256(78)
	assert.False(t, ok)

	// callers own the returned value
	v, _ = PowerOfTenUint256(1)
	v.SetUint64(0)
	again, _ := PowerOfTenUint256(1)
	assert.Equal(t, uint64(10), again.Uint64())
}
