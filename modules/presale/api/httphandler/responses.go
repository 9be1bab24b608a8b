package httphandler

import (
	"time"

	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/holiman/uint256"
	"github.com/samber/lo"
)

// Amounts are base unit decimal strings.

type tier struct {
	MinSpend      string `json:"minSpend"`
	PricePerToken string `json:"pricePerToken"`
}

type state struct {
	Owner             string    `json:"owner"`
	FundsWallet       string    `json:"fundsWallet"`
	PaymentToken      string    `json:"paymentToken"`
	SaleToken         string    `json:"saleToken"`
	PaymentDecimals   uint8     `json:"paymentDecimals"`
	SaleDecimals      uint8     `json:"saleDecimals"`
	TotalRaised       string    `json:"totalRaised"`
	TotalVested       string    `json:"totalVested"`
	HardCap           string    `json:"hardCap"`
	MinPurchase       string    `json:"minPurchase"`
	MaxPurchase       string    `json:"maxPurchase"`
	Paused            bool      `json:"paused"`
	ImmediateDelivery bool      `json:"immediateDelivery"`
	ReleaseTime       int64     `json:"releaseTime"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type preview struct {
	AppliedPrice string `json:"appliedPrice"`
	TierIndex    int    `json:"tierIndex"`
	TokensOut    string `json:"tokensOut"`
}

type purchase struct {
	ID           int64     `json:"id"`
	Buyer        string    `json:"buyer"`
	Recipient    string    `json:"recipient"`
	Amount       string    `json:"amount"`
	TokensOut    string    `json:"tokensOut"`
	AppliedPrice string    `json:"appliedPrice"`
	TierIndex    int       `json:"tierIndex"`
	Delivered    bool      `json:"delivered"`
	CreatedAt    time.Time `json:"createdAt"`
}

type claim struct {
	ID        int64     `json:"id"`
	Account   string    `json:"account"`
	Amount    string    `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

func dec(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

func mapTier(src entity.Tier, _ int) tier {
	return tier{
		MinSpend:      dec(src.MinSpend),
		PricePerToken: dec(src.PricePerToken),
	}
}

func mapState(src *entity.State) state {
	return state{
		Owner:             src.Owner.Hex(),
		FundsWallet:       src.FundsWallet.Hex(),
		PaymentToken:      src.PaymentToken.Hex(),
		SaleToken:         src.SaleToken.Hex(),
		PaymentDecimals:   src.PaymentDecimals,
		SaleDecimals:      src.SaleDecimals,
		TotalRaised:       dec(src.TotalRaised),
		TotalVested:       dec(src.TotalVested),
		HardCap:           dec(src.HardCap),
		MinPurchase:       dec(src.MinPurchase),
		MaxPurchase:       dec(src.MaxPurchase),
		Paused:            src.Paused,
		ImmediateDelivery: src.ImmediateDelivery,
		ReleaseTime:       src.ReleaseTime.Unix(),
		UpdatedAt:         src.UpdatedAt,
	}
}

func mapPreview(src entity.Preview) preview {
	return preview{
		AppliedPrice: dec(src.AppliedPrice),
		TierIndex:    src.TierIndex,
		TokensOut:    dec(src.TokensOut),
	}
}

func mapPurchase(src entity.Purchase, _ int) purchase {
	return purchase{
		ID:           src.ID,
		Buyer:        src.Buyer.Hex(),
		Recipient:    src.Recipient.Hex(),
		Amount:       dec(src.Amount),
		TokensOut:    dec(src.TokensOut),
		AppliedPrice: dec(src.AppliedPrice),
		TierIndex:    src.TierIndex,
		Delivered:    src.Delivered,
		CreatedAt:    src.CreatedAt,
	}
}

func mapClaim(src entity.Claim, _ int) claim {
	return claim{
		ID:        src.ID,
		Account:   src.Account.Hex(),
		Amount:    dec(src.Amount),
		CreatedAt: src.CreatedAt,
	}
}

func mapTiers(src []entity.Tier) []tier {
	return lo.Map(src, mapTier)
}
