// Package memory is an in-process presale datagateway for development mode and tests.
// Transactions work on a snapshot that replaces the committed data on Commit.
// Only one transaction can be open at a time; BeginPresaleTx blocks until the
// previous one commits or rolls back.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/modules/presale/datagateway"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/holiman/uint256"
)

var _ datagateway.PresaleDataGateway = (*Repository)(nil)

var ErrTxAlreadyExists = errors.New("Transaction already exists. Call Commit() or Rollback() first.")

type data struct {
	state     *entity.State
	tiers     []entity.Tier
	vesting   map[common.Address]entity.VestingEntry
	purchases []entity.Purchase
	claims    []entity.Claim
}

func (d *data) clone() *data {
	out := &data{
		tiers:     entity.CloneTiers(d.tiers),
		vesting:   make(map[common.Address]entity.VestingEntry, len(d.vesting)),
		purchases: make([]entity.Purchase, len(d.purchases)),
		claims:    make([]entity.Claim, len(d.claims)),
	}
	if d.state != nil {
		state := d.state.Clone()
		out.state = &state
	}
	for k, v := range d.vesting {
		v.Balance = v.Balance.Clone()
		out.vesting[k] = v
	}
	copy(out.purchases, d.purchases)
	copy(out.claims, d.claims)
	return out
}

type Repository struct {
	mu   sync.RWMutex
	data *data

	// set on transaction views only
	parent *Repository
	done   bool

	// held from BeginPresaleTx until Commit or Rollback
	txMu sync.Mutex
}

func NewRepository() *Repository {
	return &Repository{
		data: &data{vesting: make(map[common.Address]entity.VestingEntry)},
	}
}

func (r *Repository) BeginPresaleTx(ctx context.Context) (datagateway.PresaleDataGatewayWithTx, error) {
	if r.parent != nil {
		return nil, errors.WithStack(ErrTxAlreadyExists)
	}
	r.txMu.Lock()
	if err := ctx.Err(); err != nil {
		r.txMu.Unlock()
		return nil, errors.WithStack(err)
	}

	r.mu.RLock()
	snapshot := r.data.clone()
	r.mu.RUnlock()
	return &Repository{data: snapshot, parent: r}, nil
}

func (r *Repository) Commit(ctx context.Context) error {
	if r.parent == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return nil
	}
	r.done = true

	r.parent.mu.Lock()
	r.parent.data = r.data
	r.parent.mu.Unlock()
	r.parent.txMu.Unlock()
	return nil
}

func (r *Repository) Rollback(ctx context.Context) error {
	if r.parent == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return nil
	}
	r.done = true
	r.parent.txMu.Unlock()
	return nil
}

func (r *Repository) GetState(ctx context.Context) (*entity.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.data.state == nil {
		return nil, errors.WithStack(errs.NotFound)
	}
	state := r.data.state.Clone()
	return &state, nil
}

func (r *Repository) SetState(ctx context.Context, state entity.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	state = state.Clone()
	state.UpdatedAt = time.Now().UTC()
	r.data.state = &state
	return nil
}

func (r *Repository) GetTiers(ctx context.Context) ([]entity.Tier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return entity.CloneTiers(r.data.tiers), nil
}

func (r *Repository) ReplaceTiers(ctx context.Context, tiers []entity.Tier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.tiers = entity.CloneTiers(tiers)
	return nil
}

func (r *Repository) GetVestedBalance(ctx context.Context, account common.Address) (*uint256.Int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.data.vesting[account]; ok {
		return entry.Balance.Clone(), nil
	}
	return uint256.NewInt(0), nil
}

func (r *Repository) SetVestedBalance(ctx context.Context, account common.Address, balance *uint256.Int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.vesting[account] = entity.VestingEntry{
		Account:   account,
		Balance:   balance.Clone(),
		UpdatedAt: time.Now().UTC(),
	}
	return nil
}

func (r *Repository) GetVestingEntries(ctx context.Context) ([]entity.VestingEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]entity.VestingEntry, 0, len(r.data.vesting))
	for _, entry := range r.data.vesting {
		entry.Balance = entry.Balance.Clone()
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Account.Cmp(entries[j].Account) < 0
	})
	return entries, nil
}

func (r *Repository) CreatePurchase(ctx context.Context, purchase entity.Purchase) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	purchase.ID = int64(len(r.data.purchases)) + 1
	r.data.purchases = append(r.data.purchases, purchase)
	return purchase.ID, nil
}

func (r *Repository) GetPurchasesByAccount(ctx context.Context, account common.Address) ([]entity.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	purchases := make([]entity.Purchase, 0)
	for _, p := range r.data.purchases {
		if p.Buyer == account || p.Recipient == account {
			purchases = append(purchases, p)
		}
	}
	return purchases, nil
}

func (r *Repository) GetPurchases(ctx context.Context) ([]entity.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	purchases := make([]entity.Purchase, len(r.data.purchases))
	copy(purchases, r.data.purchases)
	return purchases, nil
}

func (r *Repository) CreateClaim(ctx context.Context, claim entity.Claim) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	claim.ID = int64(len(r.data.claims)) + 1
	r.data.claims = append(r.data.claims, claim)
	return claim.ID, nil
}

func (r *Repository) GetClaimsByAccount(ctx context.Context, account common.Address) ([]entity.Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	claims := make([]entity.Claim, 0)
	for _, c := range r.data.claims {
		if c.Account == account {
			claims = append(claims, c)
		}
	}
	return claims, nil
}

func (r *Repository) GetClaims(ctx context.Context) ([]entity.Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	claims := make([]entity.Claim, len(r.data.claims))
	copy(claims, r.data.claims)
	return claims, nil
}
