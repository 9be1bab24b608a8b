package erc20

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tokenAddr = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	treasury  = common.HexToAddress("0x00000000000000000000000000000000000000f0")
	alice     = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob       = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

func balance(t *testing.T, token Token, account common.Address) uint64 {
	t.Helper()
	b, err := token.BalanceOf(context.Background(), account)
	require.NoError(t, err)
	return b.Uint64()
}

func TestMemoryTransfer(t *testing.T) {
	ctx := context.Background()
	token := NewMemory(tokenAddr, treasury, "SALE", 7)
	require.NoError(t, token.Mint(treasury, uint256.NewInt(1000)))

	require.NoError(t, token.Transfer(ctx, alice, uint256.NewInt(400)))
	assert.EqualValues(t, 600, balance(t, token, treasury))
	assert.EqualValues(t, 400, balance(t, token, alice))

	err := token.Transfer(ctx, alice, uint256.NewInt(601))
	assert.True(t, errors.Is(err, ErrInsufficientBalance))
	assert.EqualValues(t, 600, balance(t, token, treasury), "failed transfer must not move funds")

	err = token.Transfer(ctx, common.Address{}, uint256.NewInt(1))
	assert.True(t, errors.Is(err, ErrZeroAddress))
}

func TestMemoryTransferFrom(t *testing.T) {
	ctx := context.Background()
	token := NewMemory(tokenAddr, treasury, "USDT", 18)
	require.NoError(t, token.Mint(alice, uint256.NewInt(100)))

	err := token.TransferFrom(ctx, alice, treasury, uint256.NewInt(10))
	assert.True(t, errors.Is(err, ErrInsufficientAllowance))

	token.Approve(alice, treasury, uint256.NewInt(50))
	require.NoError(t, token.TransferFrom(ctx, alice, treasury, uint256.NewInt(30)))
	assert.EqualValues(t, 70, balance(t, token, alice))
	assert.EqualValues(t, 30, balance(t, token, treasury))

	allowance, err := token.Allowance(ctx, alice, treasury)
	require.NoError(t, err)
	assert.EqualValues(t, 20, allowance.Uint64())

	token.Approve(bob, treasury, uint256.NewInt(50))
	err = token.TransferFrom(ctx, bob, treasury, uint256.NewInt(1))
	assert.True(t, errors.Is(err, ErrInsufficientBalance))
	allowance, err = token.Allowance(ctx, bob, treasury)
	require.NoError(t, err)
	assert.EqualValues(t, 50, allowance.Uint64(), "allowance is untouched when the transfer fails")
}
