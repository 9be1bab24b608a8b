package entity

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Tier is one step of the price schedule. Prices are payment base units per whole sale token.
type Tier struct {
	MinSpend      *uint256.Int
	PricePerToken *uint256.Int
}

// State is the presale singleton.
type State struct {
	Owner        common.Address
	FundsWallet  common.Address
	PaymentToken common.Address
	SaleToken    common.Address

	PaymentDecimals uint8
	SaleDecimals    uint8

	TotalRaised *uint256.Int
	TotalVested *uint256.Int
	HardCap     *uint256.Int
	MinPurchase *uint256.Int
	MaxPurchase *uint256.Int

	Paused            bool
	ImmediateDelivery bool
	ReleaseTime       time.Time

	UpdatedAt time.Time
}

// Clone returns a deep copy so callers can mutate amounts without sharing pointers.
func (s State) Clone() State {
	s.TotalRaised = cloneOrZero(s.TotalRaised)
	s.TotalVested = cloneOrZero(s.TotalVested)
	s.HardCap = cloneOrZero(s.HardCap)
	s.MinPurchase = cloneOrZero(s.MinPurchase)
	s.MaxPurchase = cloneOrZero(s.MaxPurchase)
	return s
}

// Claimable reports whether vested tokens can be claimed at now.
func (s State) Claimable(now time.Time) bool {
	return !s.ImmediateDelivery && !now.Before(s.ReleaseTime)
}

// Preview is the result of pricing a payment amount. It is never persisted.
type Preview struct {
	AppliedPrice *uint256.Int
	TierIndex    int
	TokensOut    *uint256.Int
}

// Purchase is an accepted buy. It is also the receipt returned to the buyer.
type Purchase struct {
	ID           int64
	Buyer        common.Address
	Recipient    common.Address
	Amount       *uint256.Int
	TokensOut    *uint256.Int
	AppliedPrice *uint256.Int
	TierIndex    int
	Delivered    bool
	CreatedAt    time.Time
}

type Claim struct {
	ID        int64
	Account   common.Address
	Amount    *uint256.Int
	CreatedAt time.Time
}

type VestingEntry struct {
	Account   common.Address
	Balance   *uint256.Int
	UpdatedAt time.Time
}

type TierStatus struct {
	Tier
	// TokensPer100 is what 100 whole payment tokens buy at this tier's price.
	TokensPer100 *uint256.Int
}

type Simulation struct {
	Amount  *uint256.Int
	Preview Preview
}

// Status is a point-in-time report of the presale.
type Status struct {
	State            State
	Tiers            []TierStatus
	Claimable        bool
	TimeUntilRelease time.Duration

	TreasuryPaymentBalance *uint256.Int
	TreasurySaleBalance    *uint256.Int

	Account       common.Address
	AccountVested *uint256.Int

	Simulations []Simulation
}

func cloneOrZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return uint256.NewInt(0)
	}
	return v.Clone()
}

func CloneTiers(tiers []Tier) []Tier {
	out := make([]Tier, len(tiers))
	for i, t := range tiers {
		out[i] = Tier{MinSpend: cloneOrZero(t.MinSpend), PricePerToken: cloneOrZero(t.PricePerToken)}
	}
	return out
}
