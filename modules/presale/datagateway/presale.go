package datagateway

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/holiman/uint256"
)

type PresaleDataGateway interface {
	BeginPresaleTx(ctx context.Context) (PresaleDataGatewayWithTx, error)
	PresaleReaderDataGateway
	PresaleWriterDataGateway
}

type PresaleDataGatewayWithTx interface {
	PresaleDataGateway
	Tx
}

type PresaleReaderDataGateway interface {
	// GetState returns errs.NotFound if the presale was never deployed.
	GetState(ctx context.Context) (*entity.State, error)
	GetTiers(ctx context.Context) ([]entity.Tier, error)
	// GetVestedBalance returns zero for accounts without an entry.
	GetVestedBalance(ctx context.Context, account common.Address) (*uint256.Int, error)
	GetVestingEntries(ctx context.Context) ([]entity.VestingEntry, error)
	// GetPurchasesByAccount returns purchases where account is the buyer or the recipient, oldest first.
	GetPurchasesByAccount(ctx context.Context, account common.Address) ([]entity.Purchase, error)
	GetPurchases(ctx context.Context) ([]entity.Purchase, error)
	GetClaimsByAccount(ctx context.Context, account common.Address) ([]entity.Claim, error)
	GetClaims(ctx context.Context) ([]entity.Claim, error)
}

type PresaleWriterDataGateway interface {
	SetState(ctx context.Context, state entity.State) error
	// ReplaceTiers deletes every tier and inserts tiers in order.
	ReplaceTiers(ctx context.Context, tiers []entity.Tier) error
	SetVestedBalance(ctx context.Context, account common.Address, balance *uint256.Int) error
	// CreatePurchase stores a purchase and returns its id.
	CreatePurchase(ctx context.Context, purchase entity.Purchase) (int64, error)
	CreateClaim(ctx context.Context, claim entity.Claim) (int64, error)
}
