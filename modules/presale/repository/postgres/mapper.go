package postgres

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/modules/presale/repository/postgres/gen"
	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5/pgtype"
)

func uint256FromNumeric(src pgtype.Numeric) (*uint256.Int, error) {
	if !src.Valid {
		return uint256.NewInt(0), nil
	}
	bytes, err := src.MarshalJSON()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	result, err := uint256.FromDecimal(string(bytes))
	if err != nil {
		return nil, errors.Wrapf(errs.OverflowUint256, "invalid numeric %s: %v", string(bytes), err)
	}
	return result, nil
}

func numericFromUint256(src *uint256.Int) (pgtype.Numeric, error) {
	if src == nil {
		src = uint256.NewInt(0)
	}
	var result pgtype.Numeric
	if err := result.UnmarshalJSON([]byte(src.Dec())); err != nil {
		return pgtype.Numeric{}, errors.WithStack(err)
	}
	return result, nil
}

func timestampFromTime(t time.Time) pgtype.Timestamp {
	return pgtype.Timestamp{Time: t.UTC(), Valid: true}
}

func timeFromTimestamp(t pgtype.Timestamp) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}

func mapStateModelToType(src gen.PresaleState) (entity.State, error) {
	var (
		amounts = []*pgtype.Numeric{&src.TotalRaised, &src.TotalVested, &src.HardCap, &src.MinPurchase, &src.MaxPurchase}
		values  = make([]*uint256.Int, len(amounts))
	)
	for i, amount := range amounts {
		value, err := uint256FromNumeric(*amount)
		if err != nil {
			return entity.State{}, errors.WithStack(err)
		}
		values[i] = value
	}
	return entity.State{
		Owner:             common.HexToAddress(src.Owner),
		FundsWallet:       common.HexToAddress(src.FundsWallet),
		PaymentToken:      common.HexToAddress(src.PaymentToken),
		SaleToken:         common.HexToAddress(src.SaleToken),
		PaymentDecimals:   uint8(src.PaymentDecimals),
		SaleDecimals:      uint8(src.SaleDecimals),
		TotalRaised:       values[0],
		TotalVested:       values[1],
		HardCap:           values[2],
		MinPurchase:       values[3],
		MaxPurchase:       values[4],
		Paused:            src.Paused,
		ImmediateDelivery: src.ImmediateDelivery,
		ReleaseTime:       timeFromTimestamp(src.ReleaseTime),
		UpdatedAt:         timeFromTimestamp(src.UpdatedAt),
	}, nil
}

func mapStateTypeToParams(src entity.State) (gen.SetStateParams, error) {
	var (
		amounts = []*uint256.Int{src.TotalRaised, src.TotalVested, src.HardCap, src.MinPurchase, src.MaxPurchase}
		values  = make([]pgtype.Numeric, len(amounts))
	)
	for i, amount := range amounts {
		value, err := numericFromUint256(amount)
		if err != nil {
			return gen.SetStateParams{}, errors.WithStack(err)
		}
		values[i] = value
	}
	return gen.SetStateParams{
		Owner:             src.Owner.Hex(),
		FundsWallet:       src.FundsWallet.Hex(),
		PaymentToken:      src.PaymentToken.Hex(),
		SaleToken:         src.SaleToken.Hex(),
		PaymentDecimals:   int16(src.PaymentDecimals),
		SaleDecimals:      int16(src.SaleDecimals),
		TotalRaised:       values[0],
		TotalVested:       values[1],
		HardCap:           values[2],
		MinPurchase:       values[3],
		MaxPurchase:       values[4],
		Paused:            src.Paused,
		ImmediateDelivery: src.ImmediateDelivery,
		ReleaseTime:       timestampFromTime(src.ReleaseTime),
	}, nil
}

func mapTierModelToType(src gen.PresaleTier) (entity.Tier, error) {
	minSpend, err := uint256FromNumeric(src.MinSpend)
	if err != nil {
		return entity.Tier{}, errors.Wrap(err, "failed to parse min spend")
	}
	price, err := uint256FromNumeric(src.PricePerToken)
	if err != nil {
		return entity.Tier{}, errors.Wrap(err, "failed to parse price per token")
	}
	return entity.Tier{MinSpend: minSpend, PricePerToken: price}, nil
}

func mapTierTypeToParams(index int, src entity.Tier) (gen.CreateTierParams, error) {
	minSpend, err := numericFromUint256(src.MinSpend)
	if err != nil {
		return gen.CreateTierParams{}, errors.WithStack(err)
	}
	price, err := numericFromUint256(src.PricePerToken)
	if err != nil {
		return gen.CreateTierParams{}, errors.WithStack(err)
	}
	return gen.CreateTierParams{
		TierIndex:     int32(index),
		MinSpend:      minSpend,
		PricePerToken: price,
	}, nil
}

func mapVestingModelToType(src gen.PresaleVesting) (entity.VestingEntry, error) {
	balance, err := uint256FromNumeric(src.Balance)
	if err != nil {
		return entity.VestingEntry{}, errors.WithStack(err)
	}
	return entity.VestingEntry{
		Account:   common.HexToAddress(src.Account),
		Balance:   balance,
		UpdatedAt: timeFromTimestamp(src.UpdatedAt),
	}, nil
}

func mapPurchaseModelToType(src gen.PresalePurchase) (entity.Purchase, error) {
	amount, err := uint256FromNumeric(src.Amount)
	if err != nil {
		return entity.Purchase{}, errors.Wrap(err, "failed to parse amount")
	}
	tokensOut, err := uint256FromNumeric(src.TokensOut)
	if err != nil {
		return entity.Purchase{}, errors.Wrap(err, "failed to parse tokens out")
	}
	appliedPrice, err := uint256FromNumeric(src.AppliedPrice)
	if err != nil {
		return entity.Purchase{}, errors.Wrap(err, "failed to parse applied price")
	}
	return entity.Purchase{
		ID:           src.ID,
		Buyer:        common.HexToAddress(src.Buyer),
		Recipient:    common.HexToAddress(src.Recipient),
		Amount:       amount,
		TokensOut:    tokensOut,
		AppliedPrice: appliedPrice,
		TierIndex:    int(src.TierIndex),
		Delivered:    src.Delivered,
		CreatedAt:    timeFromTimestamp(src.CreatedAt),
	}, nil
}

func mapPurchaseTypeToParams(src entity.Purchase) (gen.CreatePurchaseParams, error) {
	amount, err := numericFromUint256(src.Amount)
	if err != nil {
		return gen.CreatePurchaseParams{}, errors.WithStack(err)
	}
	tokensOut, err := numericFromUint256(src.TokensOut)
	if err != nil {
		return gen.CreatePurchaseParams{}, errors.WithStack(err)
	}
	appliedPrice, err := numericFromUint256(src.AppliedPrice)
	if err != nil {
		return gen.CreatePurchaseParams{}, errors.WithStack(err)
	}
	return gen.CreatePurchaseParams{
		Buyer:        src.Buyer.Hex(),
		Recipient:    src.Recipient.Hex(),
		Amount:       amount,
		TokensOut:    tokensOut,
		AppliedPrice: appliedPrice,
		TierIndex:    int32(src.TierIndex),
		Delivered:    src.Delivered,
		CreatedAt:    timestampFromTime(src.CreatedAt),
	}, nil
}

func mapClaimModelToType(src gen.PresaleClaim) (entity.Claim, error) {
	amount, err := uint256FromNumeric(src.Amount)
	if err != nil {
		return entity.Claim{}, errors.WithStack(err)
	}
	return entity.Claim{
		ID:        src.ID,
		Account:   common.HexToAddress(src.Account),
		Amount:    amount,
		CreatedAt: timeFromTimestamp(src.CreatedAt),
	}, nil
}

func mapClaimTypeToParams(src entity.Claim) (gen.CreateClaimParams, error) {
	amount, err := numericFromUint256(src.Amount)
	if err != nil {
		return gen.CreateClaimParams{}, errors.WithStack(err)
	}
	return gen.CreateClaimParams{
		Account:   src.Account.Hex(),
		Amount:    amount,
		CreatedAt: timestampFromTime(src.CreatedAt),
	}, nil
}

func mapModels[M any, T any](models []M, fn func(M) (T, error)) ([]T, error) {
	result := make([]T, 0, len(models))
	for _, model := range models {
		item, err := fn(model)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		result = append(result, item)
	}
	return result, nil
}
