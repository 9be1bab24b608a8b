package presale

import (
	"context"
	"testing"
	"time"

	"github.com/gaze-network/presale/pkg/parquetutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryWriter map[string][]byte

func (w memoryWriter) Write(_ context.Context, name string, data []byte) (string, error) {
	w[name] = data
	return "mem://" + name, nil
}

func TestExport(t *testing.T) {
	f := newFixture(t, false, nil)
	f.fund(t, alice, "150")
	f.fund(t, bob, "50")

	_, err := f.engine.Buy(as(alice), usd("150"), alice)
	require.NoError(t, err)
	_, err = f.engine.Buy(as(bob), usd("50"), bob)
	require.NoError(t, err)

	f.now = start.Add(48 * time.Hour)
	_, err = f.engine.Claim(as(bob))
	require.NoError(t, err)

	w := memoryWriter{}
	locations, err := f.engine.Export(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"mem://purchases_20240603T000000Z.parquet",
		"mem://claims_20240603T000000Z.parquet",
		"mem://vesting_20240603T000000Z.parquet",
	}, locations)

	purchases, err := parquetutils.ReadAll[PurchaseRecord](w["purchases_20240603T000000Z.parquet"])
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.Equal(t, alice.Hex(), purchases[0].Buyer)
	assert.Equal(t, usd("150").Dec(), purchases[0].Amount)
	assert.Equal(t, tokens("1875").Dec(), purchases[0].TokensOut)
	assert.Equal(t, int32(1), purchases[0].TierIndex)

	claims, err := parquetutils.ReadAll[ClaimRecord](w["claims_20240603T000000Z.parquet"])
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, bob.Hex(), claims[0].Account)
	assert.Equal(t, tokens("500").Dec(), claims[0].Amount)

	vesting, err := parquetutils.ReadAll[VestingRecord](w["vesting_20240603T000000Z.parquet"])
	require.NoError(t, err)
	balances := make(map[string]string, len(vesting))
	for _, v := range vesting {
		balances[v.Account] = v.Balance
	}
	assert.Equal(t, tokens("1875").Dec(), balances[alice.Hex()])
	assert.Equal(t, "0", balances[bob.Hex()])
}
