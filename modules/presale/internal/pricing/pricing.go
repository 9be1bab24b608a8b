// Package pricing selects the price tier for a payment and computes the payout.
package pricing

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/modules/presale/reason"
	"github.com/gaze-network/presale/pkg/decimals"
	"github.com/holiman/uint256"
)

// Table is an immutable, validated tier table. It is safe for concurrent use.
type Table struct {
	tiers        []entity.Tier
	saleDecimals uint8
	saleUnit     *uint256.Int // 10^saleDecimals
}

// New validates tiers and returns a table pricing in whole sale tokens of saleDecimals.
func New(tiers []entity.Tier, saleDecimals uint8) (*Table, error) {
	if err := Validate(tiers); err != nil {
		return nil, errors.WithStack(err)
	}
	saleUnit, ok := decimals.PowerOfTenUint256(saleDecimals)
	if !ok {
		return nil, errors.Wrapf(errs.InvalidArgument, "sale decimals %d out of range", saleDecimals)
	}
	return &Table{
		tiers:        entity.CloneTiers(tiers),
		saleDecimals: saleDecimals,
		saleUnit:     saleUnit,
	}, nil
}

// Validate checks the table shape: non-empty, first threshold zero,
// thresholds strictly ascending and every price positive.
func Validate(tiers []entity.Tier) error {
	if len(tiers) == 0 {
		return errors.Wrap(reason.InvalidTiers, "tier table is empty")
	}
	for i, tier := range tiers {
		if tier.MinSpend == nil || tier.PricePerToken == nil {
			return errors.Wrapf(reason.InvalidTiers, "tier %d is incomplete", i)
		}
		if tier.PricePerToken.IsZero() {
			return errors.Wrapf(reason.InvalidTiers, "tier %d has zero price", i)
		}
		if i == 0 {
			if !tier.MinSpend.IsZero() {
				return errors.Wrap(reason.InvalidTiers, "first tier must start at zero")
			}
			continue
		}
		if !tier.MinSpend.Gt(tiers[i-1].MinSpend) {
			return errors.Wrapf(reason.InvalidTiers, "tier %d threshold is not above tier %d", i, i-1)
		}
	}
	return nil
}

// Quote prices amount against the tier with the largest threshold not above it.
// tokensOut = floor(amount * 10^saleDecimals / price), in sale token base units.
func (t *Table) Quote(amount *uint256.Int) (entity.Preview, error) {
	if amount == nil {
		return entity.Preview{}, errors.Wrap(errs.InvalidArgument, "amount is required")
	}
	index := t.TierIndex(amount)
	price := t.tiers[index].PricePerToken

	tokensOut, err := tokensFor(amount, price, t.saleUnit)
	if err != nil {
		return entity.Preview{}, errors.WithStack(err)
	}
	return entity.Preview{
		AppliedPrice: price.Clone(),
		TierIndex:    index,
		TokensOut:    tokensOut,
	}, nil
}

// TokensAt returns what amount buys at the price of tier index, ignoring thresholds.
func (t *Table) TokensAt(index int, amount *uint256.Int) (*uint256.Int, error) {
	if index < 0 || index >= len(t.tiers) {
		return nil, errors.Wrapf(errs.InvalidArgument, "tier index %d out of range", index)
	}
	return tokensFor(amount, t.tiers[index].PricePerToken, t.saleUnit)
}

func tokensFor(amount, price, saleUnit *uint256.Int) (*uint256.Int, error) {
	scaled, overflow := new(uint256.Int).MulOverflow(amount, saleUnit)
	if overflow {
		return nil, errors.Wrap(errs.OverflowUint256, "amount * sale unit")
	}
	return scaled.Div(scaled, price), nil
}

// TierIndex returns the index of the tier applying to amount.
func (t *Table) TierIndex(amount *uint256.Int) int {
	// first tier whose threshold is above amount; the one before it applies
	next := sort.Search(len(t.tiers), func(i int) bool {
		return t.tiers[i].MinSpend.Gt(amount)
	})
	if next == 0 {
		return 0
	}
	return next - 1
}

func (t *Table) Len() int {
	return len(t.tiers)
}

// Tiers returns a copy of the tiers.
func (t *Table) Tiers() []entity.Tier {
	return entity.CloneTiers(t.tiers)
}

func (t *Table) SaleDecimals() uint8 {
	return t.saleDecimals
}
