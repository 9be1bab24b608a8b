package presale

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/modules/presale/datagateway"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	purchasevalidator "github.com/gaze-network/presale/modules/presale/internal/validator/purchase"
	"github.com/gaze-network/presale/modules/presale/internal/vesting"
	"github.com/gaze-network/presale/modules/presale/reason"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/logger/slogx"
	"github.com/holiman/uint256"
)

const opBuy = "buy"

// Buy pays amount of payment tokens from the caller and delivers the priced sale
// tokens to recipient, either immediately or into the vesting ledger. A zero
// recipient means the caller.
//
// The caller must have approved the treasury to spend amount. Either every effect
// of the purchase is applied, or none is.
func (e *Engine) Buy(ctx context.Context, amount *uint256.Int, recipient common.Address) (*entity.Purchase, error) {
	buyer, err := caller(ctx)
	if err != nil {
		return nil, e.reject(ctx, opBuy, err)
	}
	if amount == nil {
		return nil, errors.Wrap(errs.InvalidArgument, "amount is required")
	}
	if recipient == (common.Address{}) {
		recipient = buyer
	}
	ctx = logger.WithContext(ctx,
		slogx.Address("buyer", buyer),
		slogx.Address("recipient", recipient),
		slogx.Uint256("amount", amount),
	)

	e.mu.Lock()
	defer e.mu.Unlock()

	qtx, state, err := e.begin(ctx)
	if err != nil {
		return nil, e.reject(ctx, opBuy, err)
	}
	defer rollback(ctx, qtx)

	if err := purchasevalidator.Check(state, amount); err != nil {
		return nil, e.reject(ctx, opBuy, err)
	}

	preview, err := e.Preview(amount)
	if err != nil {
		return nil, e.reject(ctx, opBuy, err)
	}
	if preview.TokensOut.IsZero() {
		return nil, e.reject(ctx, opBuy, errors.WithStack(reason.ZeroPayout))
	}

	if err := e.checkReserve(ctx, state, preview.TokensOut); err != nil {
		if state.ImmediateDelivery && errors.Is(err, reason.InsufficientReserve) {
			// the delivery transfer is what cannot happen
			err = errors.Mark(err, reason.TransferFailed)
		}
		return nil, e.reject(ctx, opBuy, err)
	}

	if err := e.paymentToken.TransferFrom(ctx, buyer, e.treasury, amount); err != nil {
		logger.WarnContext(ctx, "Failed to pull payment", slogx.Error(err))
		return nil, e.reject(ctx, opBuy, errors.Wrap(reason.TransferFailed, err.Error()))
	}

	// From here on the payment is in the treasury and must be returned on failure.
	// A caller going away must not abort settlement halfway.
	settleCtx := context.WithoutCancel(ctx)
	purchase, err := e.settle(settleCtx, qtx, state, buyer, recipient, amount, preview)
	if err != nil {
		if !errors.Is(err, errDelivered) {
			e.refund(settleCtx, buyer, amount)
		}
		return nil, e.reject(ctx, opBuy, err)
	}

	e.metrics.observePurchase(purchase, state.PaymentDecimals)
	e.metrics.observeState(state, e.table.Load().Len())
	logger.InfoContext(ctx, "Purchase accepted",
		slog.String("event", "presale/purchase"),
		slog.Int64("id", purchase.ID),
		slogx.Uint256("tokens_out", purchase.TokensOut),
		slogx.Uint256("applied_price", purchase.AppliedPrice),
		slog.Int("tier_index", purchase.TierIndex),
		slog.Bool("delivered", purchase.Delivered),
		slogx.Uint256("total_raised", state.TotalRaised),
	)
	return purchase, nil
}

// errDelivered marks failures that happened after sale tokens left the treasury,
// so the payment must not be refunded automatically.
var errDelivered = errors.New("sale tokens already delivered")

func (e *Engine) settle(
	ctx context.Context,
	qtx datagateway.PresaleDataGatewayWithTx,
	state *entity.State,
	buyer, recipient common.Address,
	amount *uint256.Int,
	preview entity.Preview,
) (*entity.Purchase, error) {
	delivered := state.ImmediateDelivery
	if !delivered {
		if _, err := vesting.New(qtx).Credit(ctx, recipient, preview.TokensOut); err != nil {
			return nil, errors.Wrap(err, "failed to credit vesting ledger")
		}
		totalVested, overflow := new(uint256.Int).AddOverflow(state.TotalVested, preview.TokensOut)
		if overflow {
			return nil, errors.Wrap(errs.OverflowUint256, "total vested")
		}
		state.TotalVested = totalVested
	}
	// cannot overflow: the hard cap check bounds it
	state.TotalRaised = new(uint256.Int).Add(state.TotalRaised, amount)

	if err := qtx.SetState(ctx, *state); err != nil {
		return nil, errors.Wrap(err, "failed to set state")
	}
	purchase := entity.Purchase{
		Buyer:        buyer,
		Recipient:    recipient,
		Amount:       amount.Clone(),
		TokensOut:    preview.TokensOut,
		AppliedPrice: preview.AppliedPrice,
		TierIndex:    preview.TierIndex,
		Delivered:    delivered,
		CreatedAt:    e.now().UTC(),
	}
	id, err := qtx.CreatePurchase(ctx, purchase)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create purchase")
	}
	purchase.ID = id

	if delivered {
		if err := e.saleToken.Transfer(ctx, recipient, preview.TokensOut); err != nil {
			logger.WarnContext(ctx, "Failed to deliver sale tokens", slogx.Error(err))
			return nil, errors.Wrap(reason.TransferFailed, err.Error())
		}
	}

	if err := qtx.Commit(ctx); err != nil {
		if delivered {
			logger.ErrorContext(ctx, "Sale tokens delivered but purchase was not recorded, manual reconciliation required", err,
				slogx.Uint256("tokens_out", preview.TokensOut),
			)
			return nil, errors.Mark(errors.Wrap(err, "failed to commit transaction"), errDelivered)
		}
		return nil, errors.Wrap(err, "failed to commit transaction")
	}
	return &purchase, nil
}

// checkReserve makes sure the treasury keeps enough sale tokens for every vested
// balance plus this purchase.
func (e *Engine) checkReserve(ctx context.Context, state *entity.State, tokensOut *uint256.Int) error {
	reserve, err := e.saleToken.BalanceOf(ctx, e.treasury)
	if err != nil {
		return errors.Wrap(err, "failed to get treasury sale token balance")
	}
	required, overflow := new(uint256.Int).AddOverflow(state.TotalVested, tokensOut)
	if overflow || reserve.Lt(required) {
		return errors.Wrapf(reason.InsufficientReserve, "reserve %s, required %s", reserve.Dec(), required.Dec())
	}
	return nil
}

func (e *Engine) refund(ctx context.Context, buyer common.Address, amount *uint256.Int) {
	if err := e.paymentToken.Transfer(ctx, buyer, amount); err != nil {
		logger.ErrorContext(ctx, "Failed to refund payment, manual refund required", err,
			slog.String("event", "presale/refund_failed"),
		)
		return
	}
	e.metrics.observeRefund()
	logger.InfoContext(ctx, "Payment refunded", slog.String("event", "presale/refund"))
}
