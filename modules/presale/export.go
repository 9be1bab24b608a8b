package presale

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/internal/export"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/logger/slogx"
	"github.com/gaze-network/presale/pkg/parquetutils"
	"github.com/samber/lo"
)

// Amounts are exported as base unit decimal strings.
type (
	PurchaseRecord struct {
		ID           int64  `parquet:"name=id, type=INT64"`
		Buyer        string `parquet:"name=buyer, type=BYTE_ARRAY, convertedtype=UTF8"`
		Recipient    string `parquet:"name=recipient, type=BYTE_ARRAY, convertedtype=UTF8"`
		Amount       string `parquet:"name=amount, type=BYTE_ARRAY, convertedtype=UTF8"`
		TokensOut    string `parquet:"name=tokens_out, type=BYTE_ARRAY, convertedtype=UTF8"`
		AppliedPrice string `parquet:"name=applied_price, type=BYTE_ARRAY, convertedtype=UTF8"`
		TierIndex    int32  `parquet:"name=tier_index, type=INT32"`
		Delivered    bool   `parquet:"name=delivered, type=BOOLEAN"`
		CreatedAt    int64  `parquet:"name=created_at, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	}

	ClaimRecord struct {
		ID        int64  `parquet:"name=id, type=INT64"`
		Account   string `parquet:"name=account, type=BYTE_ARRAY, convertedtype=UTF8"`
		Amount    string `parquet:"name=amount, type=BYTE_ARRAY, convertedtype=UTF8"`
		CreatedAt int64  `parquet:"name=created_at, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	}

	VestingRecord struct {
		Account   string `parquet:"name=account, type=BYTE_ARRAY, convertedtype=UTF8"`
		Balance   string `parquet:"name=balance, type=BYTE_ARRAY, convertedtype=UTF8"`
		UpdatedAt int64  `parquet:"name=updated_at, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	}
)

func (l *Ledger) PurchaseRecords() []PurchaseRecord {
	return lo.Map(l.Purchases, func(p entity.Purchase, _ int) PurchaseRecord {
		return PurchaseRecord{
			ID:           p.ID,
			Buyer:        p.Buyer.Hex(),
			Recipient:    p.Recipient.Hex(),
			Amount:       p.Amount.Dec(),
			TokensOut:    p.TokensOut.Dec(),
			AppliedPrice: p.AppliedPrice.Dec(),
			TierIndex:    int32(p.TierIndex),
			Delivered:    p.Delivered,
			CreatedAt:    p.CreatedAt.UnixMilli(),
		}
	})
}

func (l *Ledger) ClaimRecords() []ClaimRecord {
	return lo.Map(l.Claims, func(c entity.Claim, _ int) ClaimRecord {
		return ClaimRecord{
			ID:        c.ID,
			Account:   c.Account.Hex(),
			Amount:    c.Amount.Dec(),
			CreatedAt: c.CreatedAt.UnixMilli(),
		}
	})
}

func (l *Ledger) VestingRecords() []VestingRecord {
	return lo.Map(l.Vesting, func(v entity.VestingEntry, _ int) VestingRecord {
		return VestingRecord{
			Account:   v.Account.Hex(),
			Balance:   v.Balance.Dec(),
			UpdatedAt: v.UpdatedAt.UnixMilli(),
		}
	})
}

// Export writes the purchases, claims and vesting balances as three parquet files
// named after the snapshot time, and returns their locations.
func (e *Engine) Export(ctx context.Context, w export.Writer) ([]string, error) {
	ledger, err := e.Ledger(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	stamp := e.now().UTC().Format("20060102T150405Z")
	files := make(map[string][]byte, 3)
	if files["purchases"], err = parquetutils.WriteAll(ledger.PurchaseRecords()); err != nil {
		return nil, errors.Wrap(err, "failed to encode purchases")
	}
	if files["claims"], err = parquetutils.WriteAll(ledger.ClaimRecords()); err != nil {
		return nil, errors.Wrap(err, "failed to encode claims")
	}
	if files["vesting"], err = parquetutils.WriteAll(ledger.VestingRecords()); err != nil {
		return nil, errors.Wrap(err, "failed to encode vesting balances")
	}

	locations := make([]string, 0, len(files))
	for _, name := range []string{"purchases", "claims", "vesting"} {
		location, err := w.Write(ctx, fmt.Sprintf("%s_%s.parquet", name, stamp), files[name])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to write %s", name)
		}
		locations = append(locations, location)
	}

	logger.InfoContext(ctx, "Exported presale ledger",
		slogx.Int("purchases", len(ledger.Purchases)),
		slogx.Int("claims", len(ledger.Claims)),
		slogx.Int("vesting", len(ledger.Vesting)),
	)
	return locations, nil
}
