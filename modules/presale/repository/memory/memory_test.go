package memory

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

func TestStateNotFound(t *testing.T) {
	_, err := NewRepository().GetState(context.Background())
	assert.True(t, errors.Is(err, errs.NotFound))
}

func TestCommit(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	qtx, err := repo.BeginPresaleTx(ctx)
	require.NoError(t, err)
	defer func() { _ = qtx.Rollback(ctx) }()

	require.NoError(t, qtx.SetState(ctx, entity.State{Owner: alice, TotalRaised: uint256.NewInt(5)}))
	require.NoError(t, qtx.SetVestedBalance(ctx, bob, uint256.NewInt(10)))
	_, err = qtx.CreatePurchase(ctx, entity.Purchase{Buyer: alice, Recipient: bob, Amount: uint256.NewInt(5)})
	require.NoError(t, err)

	// uncommitted writes are not visible outside the transaction
	_, err = repo.GetState(ctx)
	assert.True(t, errors.Is(err, errs.NotFound))

	require.NoError(t, qtx.Commit(ctx))

	state, err := repo.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, alice, state.Owner)
	assert.EqualValues(t, 5, state.TotalRaised.Uint64())

	balance, err := repo.GetVestedBalance(ctx, bob)
	require.NoError(t, err)
	assert.EqualValues(t, 10, balance.Uint64())

	purchases, err := repo.GetPurchasesByAccount(ctx, bob)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.EqualValues(t, 1, purchases[0].ID)
}

func TestRollback(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	require.NoError(t, repo.SetVestedBalance(ctx, alice, uint256.NewInt(3)))

	qtx, err := repo.BeginPresaleTx(ctx)
	require.NoError(t, err)
	require.NoError(t, qtx.SetVestedBalance(ctx, alice, uint256.NewInt(0)))
	_, err = qtx.CreateClaim(ctx, entity.Claim{Account: alice, Amount: uint256.NewInt(3)})
	require.NoError(t, err)
	require.NoError(t, qtx.Rollback(ctx))
	// second rollback and late commit are no-ops
	require.NoError(t, qtx.Rollback(ctx))
	require.NoError(t, qtx.Commit(ctx))

	balance, err := repo.GetVestedBalance(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 3, balance.Uint64())

	claims, err := repo.GetClaims(ctx)
	require.NoError(t, err)
	assert.Empty(t, claims)

	// the lock was released
	qtx, err = repo.BeginPresaleTx(ctx)
	require.NoError(t, err)
	require.NoError(t, qtx.Rollback(ctx))
}

func TestNestedTx(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	qtx, err := repo.BeginPresaleTx(ctx)
	require.NoError(t, err)
	defer func() { _ = qtx.Rollback(ctx) }()

	_, err = qtx.BeginPresaleTx(ctx)
	assert.True(t, errors.Is(err, ErrTxAlreadyExists))
}

func TestMissingVestingEntry(t *testing.T) {
	balance, err := NewRepository().GetVestedBalance(context.Background(), alice)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}
