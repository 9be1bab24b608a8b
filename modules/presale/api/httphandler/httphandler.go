package httphandler

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/pkg/middleware/walletauth"
	"github.com/holiman/uint256"
)

// Engine is the presale engine as seen by the HTTP API.
type Engine interface {
	Preview(amount *uint256.Int) (entity.Preview, error)
	Buy(ctx context.Context, amount *uint256.Int, recipient common.Address) (*entity.Purchase, error)
	Claim(ctx context.Context) (*uint256.Int, error)

	State(ctx context.Context) (*entity.State, error)
	Tiers() ([]entity.Tier, error)
	VestedBalance(ctx context.Context, account common.Address) (*uint256.Int, error)
	Purchases(ctx context.Context, account common.Address) ([]entity.Purchase, error)
	Claims(ctx context.Context, account common.Address) ([]entity.Claim, error)
	Status(ctx context.Context, account common.Address, simulate []string) (*entity.Status, error)

	SetLimits(ctx context.Context, minPurchase, maxPurchase, hardCap *uint256.Int) error
	SetImmediateDelivery(ctx context.Context, enabled bool) error
	SetReleaseTime(ctx context.Context, releaseTime time.Time) error
	Pause(ctx context.Context) error
	Unpause(ctx context.Context) error
	SetTiers(ctx context.Context, tiers []entity.Tier) error
	SetFundsWallet(ctx context.Context, wallet common.Address) error
	WithdrawFunds(ctx context.Context) (*uint256.Int, error)
}

type HttpHandler struct {
	engine     Engine
	walletAuth walletauth.Config
}

func New(engine Engine, walletAuth walletauth.Config) *HttpHandler {
	return &HttpHandler{
		engine:     engine,
		walletAuth: walletAuth,
	}
}

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}

func resolveAddress(s string) (common.Address, bool) {
	if !common.IsHexAddress(s) {
		return common.Address{}, false
	}
	return common.HexToAddress(s), true
}
