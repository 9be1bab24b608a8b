// Package vesting tracks sale tokens owed to accounts until the release time.
package vesting

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/common/errs"
	"github.com/holiman/uint256"
)

// Store persists vesting balances. A missing entry reads as zero.
type Store interface {
	GetVestedBalance(ctx context.Context, account common.Address) (*uint256.Int, error)
	SetVestedBalance(ctx context.Context, account common.Address, balance *uint256.Int) error
}

// Ledger credits and settles vesting balances on top of a Store, usually a
// datagateway transaction.
type Ledger struct {
	store Store
}

func New(store Store) *Ledger {
	return &Ledger{store: store}
}

func (l *Ledger) Balance(ctx context.Context, account common.Address) (*uint256.Int, error) {
	balance, err := l.store.GetVestedBalance(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get vested balance")
	}
	if balance == nil {
		return uint256.NewInt(0), nil
	}
	return balance, nil
}

// Credit adds amount to account and returns the new balance.
func (l *Ledger) Credit(ctx context.Context, account common.Address, amount *uint256.Int) (*uint256.Int, error) {
	balance, err := l.Balance(ctx, account)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	updated, overflow := new(uint256.Int).AddOverflow(balance, amount)
	if overflow {
		return nil, errors.Wrap(errs.OverflowUint256, "vested balance")
	}
	if err := l.store.SetVestedBalance(ctx, account, updated); err != nil {
		return nil, errors.Wrap(err, "failed to set vested balance")
	}
	return updated, nil
}

// Claim returns the whole balance of account and zeroes the entry.
// A zero balance is returned as is, without a write.
func (l *Ledger) Claim(ctx context.Context, account common.Address) (*uint256.Int, error) {
	balance, err := l.Balance(ctx, account)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if balance.IsZero() {
		return balance, nil
	}
	if err := l.store.SetVestedBalance(ctx, account, uint256.NewInt(0)); err != nil {
		return nil, errors.Wrap(err, "failed to zero vested balance")
	}
	return balance, nil
}
