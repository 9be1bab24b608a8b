package vesting

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/common/errs"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetVestedBalance(ctx context.Context, account common.Address) (*uint256.Int, error) {
	args := m.Called(ctx, account)
	balance, _ := args.Get(0).(*uint256.Int)
	return balance, args.Error(1)
}

func (m *mockStore) SetVestedBalance(ctx context.Context, account common.Address, balance *uint256.Int) error {
	args := m.Called(ctx, account, balance)
	return args.Error(0)
}

var alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")

func TestCredit(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	store.On("GetVestedBalance", ctx, alice).Return(uint256.NewInt(100), nil).Once()
	store.On("SetVestedBalance", ctx, alice, uint256.NewInt(150)).Return(nil).Once()

	balance, err := New(store).Credit(ctx, alice, uint256.NewInt(50))
	require.NoError(t, err)
	assert.EqualValues(t, 150, balance.Uint64())
	store.AssertExpectations(t)
}

func TestCreditMissingEntry(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	store.On("GetVestedBalance", ctx, alice).Return(nil, nil).Once()
	store.On("SetVestedBalance", ctx, alice, uint256.NewInt(7)).Return(nil).Once()

	balance, err := New(store).Credit(ctx, alice, uint256.NewInt(7))
	require.NoError(t, err)
	assert.EqualValues(t, 7, balance.Uint64())
	store.AssertExpectations(t)
}

func TestCreditOverflow(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	store.On("GetVestedBalance", ctx, alice).Return(new(uint256.Int).SetAllOne(), nil).Once()

	_, err := New(store).Credit(ctx, alice, uint256.NewInt(1))
	assert.True(t, errors.Is(err, errs.OverflowUint256))
	store.AssertNotCalled(t, "SetVestedBalance", mock.Anything, mock.Anything, mock.Anything)
}

func TestClaim(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	store.On("GetVestedBalance", ctx, alice).Return(uint256.NewInt(1250), nil).Once()
	store.On("SetVestedBalance", ctx, alice, uint256.NewInt(0)).Return(nil).Once()

	claimed, err := New(store).Claim(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 1250, claimed.Uint64())
	store.AssertExpectations(t)
}

func TestClaimZero(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	store.On("GetVestedBalance", ctx, alice).Return(uint256.NewInt(0), nil).Once()

	claimed, err := New(store).Claim(ctx, alice)
	require.NoError(t, err)
	assert.True(t, claimed.IsZero())
	store.AssertNotCalled(t, "SetVestedBalance", mock.Anything, mock.Anything, mock.Anything)
}

func TestStoreError(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	boom := errors.New("boom")
	store.On("GetVestedBalance", ctx, alice).Return(nil, boom).Once()

	_, err := New(store).Claim(ctx, alice)
	assert.True(t, errors.Is(err, boom))
}
