// Package erc20 provides ERC20 token clients: an on-chain client over go-ethereum
// and an in-memory token for development and tests.
//
// Both implementations act on behalf of a single holder account (the key the
// backend signs with). Transfer moves tokens out of the holder, TransferFrom spends
// an allowance granted to the holder.
package erc20

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var (
	ErrInsufficientBalance   = errors.New("erc20: transfer amount exceeds balance")
	ErrInsufficientAllowance = errors.New("erc20: insufficient allowance")
	ErrZeroAddress           = errors.New("erc20: zero address")
	ErrTransactionReverted   = errors.New("erc20: transaction reverted")
	ErrNoSigner              = errors.New("erc20: no signing key configured")
)

// Token is the part of an ERC20 token the presale relies on.
type Token interface {
	Address() common.Address
	// Holder is the account that Transfer sends from and that TransferFrom spends for.
	Holder() common.Address
	Decimals(ctx context.Context) (uint8, error)
	Symbol(ctx context.Context) (string, error)
	BalanceOf(ctx context.Context, account common.Address) (*uint256.Int, error)
	Allowance(ctx context.Context, owner, spender common.Address) (*uint256.Int, error)
	Transfer(ctx context.Context, to common.Address, amount *uint256.Int) error
	TransferFrom(ctx context.Context, from, to common.Address, amount *uint256.Int) error
}

var (
	_ Token = (*Client)(nil)
	_ Token = (*Memory)(nil)
)
