package presale

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/modules/presale/reason"
	"github.com/gaze-network/presale/pkg/decimals"
	"github.com/holiman/uint256"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// State returns the committed presale state.
func (e *Engine) State(ctx context.Context) (*entity.State, error) {
	state, err := e.datagateway.GetState(ctx)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(reason.NotDeployed)
		}
		return nil, errors.Wrap(err, "failed to get state")
	}
	return state, nil
}

// Tiers returns the active tier table.
func (e *Engine) Tiers() ([]entity.Tier, error) {
	table := e.table.Load()
	if table == nil {
		return nil, errors.WithStack(reason.NotDeployed)
	}
	return table.Tiers(), nil
}

func (e *Engine) TierCount() int {
	table := e.table.Load()
	if table == nil {
		return 0
	}
	return table.Len()
}

func (e *Engine) VestedBalance(ctx context.Context, account common.Address) (*uint256.Int, error) {
	balance, err := e.datagateway.GetVestedBalance(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get vested balance")
	}
	return balance, nil
}

func (e *Engine) Purchases(ctx context.Context, account common.Address) ([]entity.Purchase, error) {
	purchases, err := e.datagateway.GetPurchasesByAccount(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get purchases")
	}
	return purchases, nil
}

func (e *Engine) Claims(ctx context.Context, account common.Address) ([]entity.Claim, error) {
	claims, err := e.datagateway.GetClaimsByAccount(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get claims")
	}
	return claims, nil
}

// Ledger is a full dump of the presale history.
type Ledger struct {
	Purchases []entity.Purchase
	Claims    []entity.Claim
	Vesting   []entity.VestingEntry
}

func (e *Engine) Ledger(ctx context.Context) (*Ledger, error) {
	var ledger Ledger
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		ledger.Purchases, err = e.datagateway.GetPurchases(gctx)
		return errors.Wrap(err, "failed to get purchases")
	})
	group.Go(func() (err error) {
		ledger.Claims, err = e.datagateway.GetClaims(gctx)
		return errors.Wrap(err, "failed to get claims")
	})
	group.Go(func() (err error) {
		ledger.Vesting, err = e.datagateway.GetVestingEntries(gctx)
		return errors.Wrap(err, "failed to get vesting entries")
	})
	if err := group.Wait(); err != nil {
		return nil, errors.WithStack(err)
	}
	return &ledger, nil
}

// Status is a point-in-time report of the presale.
type Status = entity.Status

// DefaultSimulations are the payment amounts, in whole payment tokens, previewed by Status.
var DefaultSimulations = []string{"50", "150", "1500"}

// Status gathers a report of the presale. Balances are fetched concurrently.
// account may be zero, simulate holds whole payment token amounts.
func (e *Engine) Status(ctx context.Context, account common.Address, simulate []string) (*entity.Status, error) {
	state, err := e.State(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	table := e.table.Load()
	if table == nil {
		return nil, errors.WithStack(reason.NotDeployed)
	}

	status := &entity.Status{
		State:         *state,
		Claimable:     state.Claimable(e.now()),
		Account:       account,
		AccountVested: uint256.NewInt(0),
	}
	if wait := state.ReleaseTime.Sub(e.now()); wait > 0 {
		status.TimeUntilRelease = wait
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		status.TreasuryPaymentBalance, err = e.paymentToken.BalanceOf(gctx, e.treasury)
		return errors.Wrap(err, "failed to get treasury payment balance")
	})
	group.Go(func() (err error) {
		status.TreasurySaleBalance, err = e.saleToken.BalanceOf(gctx, e.treasury)
		return errors.Wrap(err, "failed to get treasury sale balance")
	})
	if account != (common.Address{}) {
		group.Go(func() (err error) {
			status.AccountVested, err = e.VestedBalance(gctx, account)
			return errors.WithStack(err)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, errors.WithStack(err)
	}

	hundred, err := decimals.ParseUnits("100", state.PaymentDecimals)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for i, tier := range table.Tiers() {
		tokens, err := table.TokensAt(i, hundred)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		status.Tiers = append(status.Tiers, entity.TierStatus{Tier: tier, TokensPer100: tokens})
	}

	amounts, err := parseAmounts(lo.Ternary(len(simulate) > 0, simulate, DefaultSimulations), state.PaymentDecimals)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for _, amount := range amounts {
		preview, err := table.Quote(amount)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		status.Simulations = append(status.Simulations, entity.Simulation{Amount: amount, Preview: preview})
	}
	return status, nil
}

func parseAmounts(values []string, decimalsCount uint8) ([]*uint256.Int, error) {
	amounts := make([]*uint256.Int, 0, len(values))
	for _, v := range values {
		amount, err := decimals.ParseUnits(v, decimalsCount)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid amount %q", v)
		}
		amounts = append(amounts, amount)
	}
	return amounts, nil
}
