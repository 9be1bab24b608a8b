package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/internal/postgres"
	"github.com/gaze-network/presale/modules/presale/datagateway"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/modules/presale/repository/postgres/gen"
	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5"
)

var _ datagateway.PresaleDataGateway = (*Repository)(nil)

type Repository struct {
	db      postgres.DB
	queries *gen.Queries
	tx      pgx.Tx
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{
		db:      db,
		queries: gen.New(db),
	}
}

func (r *Repository) GetState(ctx context.Context) (*entity.State, error) {
	model, err := r.queries.GetState(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	state, err := mapStateModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse state model")
	}
	return &state, nil
}

func (r *Repository) SetState(ctx context.Context, state entity.State) error {
	params, err := mapStateTypeToParams(state)
	if err != nil {
		return errors.Wrap(err, "failed to map state to params")
	}
	if err := r.queries.SetState(ctx, params); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetTiers(ctx context.Context) ([]entity.Tier, error) {
	models, err := r.queries.GetTiers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	tiers, err := mapModels(models, mapTierModelToType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse tier models")
	}
	return tiers, nil
}

func (r *Repository) ReplaceTiers(ctx context.Context, tiers []entity.Tier) error {
	if err := r.queries.DeleteTiers(ctx); err != nil {
		return errors.Wrap(err, "failed to delete tiers")
	}
	for i, tier := range tiers {
		params, err := mapTierTypeToParams(i, tier)
		if err != nil {
			return errors.Wrapf(err, "failed to map tier %d to params", i)
		}
		if err := r.queries.CreateTier(ctx, params); err != nil {
			return errors.Wrapf(err, "failed to create tier %d", i)
		}
	}
	return nil
}

func (r *Repository) GetVestedBalance(ctx context.Context, account common.Address) (*uint256.Int, error) {
	balance, err := r.queries.GetVestedBalance(ctx, account.Hex())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uint256.NewInt(0), nil
		}
		return nil, errors.Wrap(err, "error during query")
	}
	result, err := uint256FromNumeric(balance)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse vested balance")
	}
	return result, nil
}

func (r *Repository) SetVestedBalance(ctx context.Context, account common.Address, balance *uint256.Int) error {
	numeric, err := numericFromUint256(balance)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := r.queries.SetVestedBalance(ctx, gen.SetVestedBalanceParams{
		Account: account.Hex(),
		Balance: numeric,
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetVestingEntries(ctx context.Context) ([]entity.VestingEntry, error) {
	models, err := r.queries.GetVestingEntries(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	entries, err := mapModels(models, mapVestingModelToType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse vesting models")
	}
	return entries, nil
}

func (r *Repository) CreatePurchase(ctx context.Context, purchase entity.Purchase) (int64, error) {
	params, err := mapPurchaseTypeToParams(purchase)
	if err != nil {
		return 0, errors.Wrap(err, "failed to map purchase to params")
	}
	id, err := r.queries.CreatePurchase(ctx, params)
	if err != nil {
		return 0, errors.Wrap(err, "error during exec")
	}
	return id, nil
}

func (r *Repository) GetPurchases(ctx context.Context) ([]entity.Purchase, error) {
	models, err := r.queries.GetPurchases(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	purchases, err := mapModels(models, mapPurchaseModelToType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse purchase models")
	}
	return purchases, nil
}

func (r *Repository) GetPurchasesByAccount(ctx context.Context, account common.Address) ([]entity.Purchase, error) {
	models, err := r.queries.GetPurchasesByAccount(ctx, account.Hex())
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	purchases, err := mapModels(models, mapPurchaseModelToType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse purchase models")
	}
	return purchases, nil
}

func (r *Repository) CreateClaim(ctx context.Context, claim entity.Claim) (int64, error) {
	params, err := mapClaimTypeToParams(claim)
	if err != nil {
		return 0, errors.Wrap(err, "failed to map claim to params")
	}
	id, err := r.queries.CreateClaim(ctx, params)
	if err != nil {
		return 0, errors.Wrap(err, "error during exec")
	}
	return id, nil
}

func (r *Repository) GetClaims(ctx context.Context) ([]entity.Claim, error) {
	models, err := r.queries.GetClaims(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	claims, err := mapModels(models, mapClaimModelToType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse claim models")
	}
	return claims, nil
}

func (r *Repository) GetClaimsByAccount(ctx context.Context, account common.Address) ([]entity.Claim, error) {
	models, err := r.queries.GetClaimsByAccount(ctx, account.Hex())
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	claims, err := mapModels(models, mapClaimModelToType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse claim models")
	}
	return claims, nil
}
