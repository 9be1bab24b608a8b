package presale

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	claimvalidator "github.com/gaze-network/presale/modules/presale/internal/validator/claim"
	"github.com/gaze-network/presale/modules/presale/internal/vesting"
	"github.com/gaze-network/presale/modules/presale/reason"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/logger/slogx"
	"github.com/holiman/uint256"
)

const opClaim = "claim"

// Claim transfers the caller's whole vested balance once the release time is reached.
func (e *Engine) Claim(ctx context.Context) (*uint256.Int, error) {
	account, err := caller(ctx)
	if err != nil {
		return nil, e.reject(ctx, opClaim, err)
	}
	ctx = logger.WithContext(ctx, slogx.Address("account", account))

	e.mu.Lock()
	defer e.mu.Unlock()

	qtx, state, err := e.begin(ctx)
	if err != nil {
		return nil, e.reject(ctx, opClaim, err)
	}
	defer rollback(ctx, qtx)

	ledger := vesting.New(qtx)
	balance, err := ledger.Balance(ctx, account)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	v := claimvalidator.New()
	v.ClaimEnabled(state)
	v.Released(state, e.now())
	v.HasBalance(balance)
	if !v.Valid {
		return nil, e.reject(ctx, opClaim, v.Err())
	}

	amount, err := ledger.Claim(ctx, account)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	totalVested, underflow := new(uint256.Int).SubOverflow(state.TotalVested, amount)
	if underflow {
		return nil, errors.Wrap(errs.Underflow, "total vested is below an account balance")
	}
	state.TotalVested = totalVested
	if err := qtx.SetState(ctx, *state); err != nil {
		return nil, errors.Wrap(err, "failed to set state")
	}
	claimID, err := qtx.CreateClaim(ctx, entity.Claim{
		Account:   account,
		Amount:    amount,
		CreatedAt: e.now().UTC(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create claim")
	}

	// the transfer and the commit that records it run to completion together
	settleCtx := context.WithoutCancel(ctx)
	if err := e.saleToken.Transfer(settleCtx, account, amount); err != nil {
		logger.WarnContext(ctx, "Failed to transfer claimed tokens", slogx.Error(err))
		return nil, e.reject(ctx, opClaim, errors.Wrap(reason.TransferFailed, err.Error()))
	}

	if err := qtx.Commit(settleCtx); err != nil {
		logger.ErrorContext(ctx, "Claimed tokens transferred but ledger was not updated, manual reconciliation required", err,
			slogx.Uint256("amount", amount),
		)
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	e.metrics.observeClaim()
	e.metrics.observeState(state, e.table.Load().Len())
	logger.InfoContext(ctx, "Vested tokens claimed",
		slog.String("event", "presale/claim"),
		slog.Int64("id", claimID),
		slogx.Uint256("amount", amount),
		slogx.Uint256("total_vested", state.TotalVested),
	)
	return amount, nil
}
