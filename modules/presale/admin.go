package presale

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/modules/presale/datagateway"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/modules/presale/internal/pricing"
	"github.com/gaze-network/presale/modules/presale/reason"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/logger/slogx"
	"github.com/holiman/uint256"
)

// admin runs fn for the owner inside a transaction and persists the state it leaves.
// fn returns the attributes to log on success. onCommit runs after the commit
// while e.mu is still held, so in-memory state follows commit order.
func (e *Engine) admin(ctx context.Context, operation string, fn func(qtx datagateway.PresaleDataGatewayWithTx, state *entity.State) ([]any, error), onCommit ...func()) error {
	account, err := caller(ctx)
	if err != nil {
		return e.reject(ctx, operation, err)
	}
	ctx = logger.WithContext(ctx, slogx.Address("caller", account))

	e.mu.Lock()
	defer e.mu.Unlock()

	qtx, state, err := e.begin(ctx)
	if err != nil {
		return e.reject(ctx, operation, err)
	}
	defer rollback(ctx, qtx)

	if account != state.Owner {
		return e.reject(ctx, operation, errors.WithStack(reason.Unauthorized))
	}

	attrs, err := fn(qtx, state)
	if err != nil {
		return e.reject(ctx, operation, err)
	}
	if err := qtx.SetState(ctx, *state); err != nil {
		return errors.Wrap(err, "failed to set state")
	}
	if err := qtx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	for _, fn := range onCommit {
		fn()
	}

	if table := e.table.Load(); table != nil {
		e.metrics.observeState(state, table.Len())
	}
	logger.InfoContext(ctx, "Presale configuration changed",
		append([]any{
			slog.String("event", "presale/admin"),
			slog.String("operation", operation),
		}, attrs...)...,
	)
	return nil
}

// SetLimits replaces the per-purchase bounds and the hard cap. A hard cap below
// the amount already raised closes the sale.
func (e *Engine) SetLimits(ctx context.Context, minPurchase, maxPurchase, hardCap *uint256.Int) error {
	return e.admin(ctx, "set_limits", func(_ datagateway.PresaleDataGatewayWithTx, state *entity.State) ([]any, error) {
		if err := validateLimits(minPurchase, maxPurchase, hardCap); err != nil {
			return nil, errors.WithStack(err)
		}
		state.MinPurchase = minPurchase.Clone()
		state.MaxPurchase = maxPurchase.Clone()
		state.HardCap = hardCap.Clone()
		return []any{
			slogx.Uint256("min_purchase", minPurchase),
			slogx.Uint256("max_purchase", maxPurchase),
			slogx.Uint256("hard_cap", hardCap),
		}, nil
	})
}

// SetImmediateDelivery switches between immediate delivery and vesting.
// Existing vested balances stay in the ledger and become claimable again when
// immediate delivery is turned off.
func (e *Engine) SetImmediateDelivery(ctx context.Context, enabled bool) error {
	return e.admin(ctx, "set_immediate_delivery", func(_ datagateway.PresaleDataGatewayWithTx, state *entity.State) ([]any, error) {
		state.ImmediateDelivery = enabled
		return []any{slog.Bool("immediate_delivery", enabled)}, nil
	})
}

// SetReleaseTime moves the vesting release. It must be strictly in the future.
func (e *Engine) SetReleaseTime(ctx context.Context, releaseTime time.Time) error {
	return e.admin(ctx, "set_release_time", func(_ datagateway.PresaleDataGatewayWithTx, state *entity.State) ([]any, error) {
		if !releaseTime.After(e.now()) {
			return nil, errors.Wrapf(reason.InvalidTime, "release time %s is not in the future", releaseTime.UTC().Format(time.RFC3339))
		}
		state.ReleaseTime = releaseTime.UTC()
		return []any{slog.Time("release_time", state.ReleaseTime)}, nil
	})
}

func (e *Engine) Pause(ctx context.Context) error {
	return e.setPaused(ctx, "pause", true)
}

func (e *Engine) Unpause(ctx context.Context) error {
	return e.setPaused(ctx, "unpause", false)
}

func (e *Engine) setPaused(ctx context.Context, operation string, paused bool) error {
	return e.admin(ctx, operation, func(_ datagateway.PresaleDataGatewayWithTx, state *entity.State) ([]any, error) {
		state.Paused = paused
		return []any{slog.Bool("paused", paused)}, nil
	})
}

// SetTiers replaces the whole tier table. Previews see the new table as soon as
// the change is committed.
func (e *Engine) SetTiers(ctx context.Context, tiers []entity.Tier) error {
	var table *pricing.Table
	publish := func() { e.table.Store(table) }
	return e.admin(ctx, "set_tiers", func(qtx datagateway.PresaleDataGatewayWithTx, state *entity.State) ([]any, error) {
		var err error
		table, err = pricing.New(tiers, state.SaleDecimals)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if err := qtx.ReplaceTiers(ctx, table.Tiers()); err != nil {
			return nil, errors.Wrap(err, "failed to replace tiers")
		}
		return []any{slog.Int("tiers", table.Len())}, nil
	}, publish)
}

// SetFundsWallet changes the destination of WithdrawFunds.
func (e *Engine) SetFundsWallet(ctx context.Context, wallet common.Address) error {
	return e.admin(ctx, "set_funds_wallet", func(_ datagateway.PresaleDataGatewayWithTx, state *entity.State) ([]any, error) {
		if wallet == (common.Address{}) {
			return nil, errors.Wrap(errs.InvalidArgument, "funds wallet is required")
		}
		state.FundsWallet = wallet
		return []any{slogx.Address("funds_wallet", wallet)}, nil
	})
}

// WithdrawFunds sends the treasury's whole payment token balance to the funds wallet
// and returns the amount sent.
func (e *Engine) WithdrawFunds(ctx context.Context) (*uint256.Int, error) {
	withdrawn := uint256.NewInt(0)
	err := e.admin(ctx, "withdraw_funds", func(_ datagateway.PresaleDataGatewayWithTx, state *entity.State) ([]any, error) {
		balance, err := e.paymentToken.BalanceOf(ctx, e.treasury)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get treasury payment balance")
		}
		if balance.IsZero() {
			return []any{slogx.Uint256("amount", balance)}, nil
		}
		if err := e.paymentToken.Transfer(ctx, state.FundsWallet, balance); err != nil {
			return nil, errors.Wrap(reason.TransferFailed, err.Error())
		}
		withdrawn = balance
		return []any{
			slogx.Address("funds_wallet", state.FundsWallet),
			slogx.Uint256("amount", balance),
		}, nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return withdrawn, nil
}
