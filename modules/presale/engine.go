package presale

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/modules/presale/datagateway"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/modules/presale/internal/pricing"
	"github.com/gaze-network/presale/modules/presale/reason"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/logger/slogx"
	"github.com/gaze-network/presale/pkg/principal"
	"github.com/holiman/uint256"
)

// Token is an ERC20 token seen from the treasury account.
type Token interface {
	Address() common.Address
	BalanceOf(ctx context.Context, account common.Address) (*uint256.Int, error)
	// Transfer sends amount from the treasury to `to`.
	Transfer(ctx context.Context, to common.Address, amount *uint256.Int) error
	// TransferFrom spends the treasury's allowance on `from`.
	TransferFrom(ctx context.Context, from, to common.Address, amount *uint256.Int) error
}

type Options struct {
	// Treasury receives payments and holds the sale tokens to deliver.
	Treasury common.Address
	// Now is used for tests. Defaults to time.Now.
	Now     func() time.Time
	Metrics *Metrics
}

// Engine runs the presale. Buy, Claim and every administrative call are
// serialised; Preview and the getters never block on them.
type Engine struct {
	datagateway  datagateway.PresaleDataGateway
	paymentToken Token
	saleToken    Token
	treasury     common.Address
	now          func() time.Time
	metrics      *Metrics

	mu    sync.Mutex
	table atomic.Pointer[pricing.Table]
}

func NewEngine(dg datagateway.PresaleDataGateway, paymentToken, saleToken Token, opts Options) (*Engine, error) {
	if dg == nil || paymentToken == nil || saleToken == nil {
		return nil, errors.Wrap(errs.InvalidArgument, "datagateway and tokens are required")
	}
	if opts.Treasury == (common.Address{}) {
		return nil, errors.Wrap(errs.InvalidArgument, "treasury address is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	return &Engine{
		datagateway:  dg,
		paymentToken: paymentToken,
		saleToken:    saleToken,
		treasury:     opts.Treasury,
		now:          opts.Now,
		metrics:      opts.Metrics,
	}, nil
}

func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

func (e *Engine) Treasury() common.Address {
	return e.treasury
}

// DeployParams is the initial configuration installed by Deploy.
type DeployParams struct {
	Owner             common.Address
	FundsWallet       common.Address
	Tiers             []entity.Tier
	MinPurchase       *uint256.Int
	MaxPurchase       *uint256.Int
	HardCap           *uint256.Int
	ImmediateDelivery bool
	ReleaseTime       time.Time
	PaymentDecimals   uint8
	SaleDecimals      uint8
}

// Deploy installs the initial presale state if the store is empty and loads the
// tier table. It returns false if a presale was already deployed, in which case
// params are ignored and the stored state wins.
func (e *Engine) Deploy(ctx context.Context, params DeployParams) (deployed bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	qtx, err := e.datagateway.BeginPresaleTx(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := qtx.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "failed to rollback transaction", err)
		}
	}()

	state, err := qtx.GetState(ctx)
	if err == nil {
		tiers, err := qtx.GetTiers(ctx)
		if err != nil {
			return false, errors.Wrap(err, "failed to get tiers")
		}
		if err := e.loadTable(tiers, state); err != nil {
			return false, errors.WithStack(err)
		}
		logger.InfoContext(ctx, "Presale already deployed, using stored state",
			slogx.Address("owner", state.Owner),
			slogx.Uint256("total_raised", state.TotalRaised),
		)
		return false, nil
	}
	if !errors.Is(err, errs.NotFound) {
		return false, errors.Wrap(err, "failed to get state")
	}

	if params.Owner == (common.Address{}) {
		return false, errors.Wrap(errs.InvalidArgument, "owner is required")
	}
	if err := validateLimits(params.MinPurchase, params.MaxPurchase, params.HardCap); err != nil {
		return false, errors.WithStack(err)
	}
	table, err := pricing.New(params.Tiers, params.SaleDecimals)
	if err != nil {
		return false, errors.WithStack(err)
	}
	fundsWallet := params.FundsWallet
	if fundsWallet == (common.Address{}) {
		fundsWallet = params.Owner
	}

	newState := entity.State{
		Owner:             params.Owner,
		FundsWallet:       fundsWallet,
		PaymentToken:      e.paymentToken.Address(),
		SaleToken:         e.saleToken.Address(),
		PaymentDecimals:   params.PaymentDecimals,
		SaleDecimals:      params.SaleDecimals,
		TotalRaised:       uint256.NewInt(0),
		TotalVested:       uint256.NewInt(0),
		HardCap:           params.HardCap.Clone(),
		MinPurchase:       params.MinPurchase.Clone(),
		MaxPurchase:       params.MaxPurchase.Clone(),
		ImmediateDelivery: params.ImmediateDelivery,
		ReleaseTime:       params.ReleaseTime.UTC(),
	}
	if err := qtx.SetState(ctx, newState); err != nil {
		return false, errors.Wrap(err, "failed to set state")
	}
	if err := qtx.ReplaceTiers(ctx, table.Tiers()); err != nil {
		return false, errors.Wrap(err, "failed to set tiers")
	}
	if err := qtx.Commit(ctx); err != nil {
		return false, errors.Wrap(err, "failed to commit transaction")
	}

	e.table.Store(table)
	e.metrics.observeState(&newState, table.Len())
	logger.InfoContext(ctx, "Presale deployed",
		slogx.Address("owner", newState.Owner),
		slogx.Address("funds_wallet", newState.FundsWallet),
		slogx.Address("payment_token", newState.PaymentToken),
		slogx.Address("sale_token", newState.SaleToken),
		slog.Int("tiers", table.Len()),
		slogx.Uint256("hard_cap", newState.HardCap),
		slog.Bool("immediate_delivery", newState.ImmediateDelivery),
		slog.Time("release_time", newState.ReleaseTime),
	)
	return true, nil
}

// Load reads a deployed presale from the store.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.datagateway.GetState(ctx)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errors.WithStack(reason.NotDeployed)
		}
		return errors.Wrap(err, "failed to get state")
	}
	tiers, err := e.datagateway.GetTiers(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get tiers")
	}
	return errors.WithStack(e.loadTable(tiers, state))
}

func (e *Engine) loadTable(tiers []entity.Tier, state *entity.State) error {
	table, err := pricing.New(tiers, state.SaleDecimals)
	if err != nil {
		return errors.Wrap(err, "stored tier table is invalid")
	}
	e.table.Store(table)
	e.metrics.observeState(state, table.Len())
	return nil
}

// Preview prices amount without side effects. It works while paused.
func (e *Engine) Preview(amount *uint256.Int) (entity.Preview, error) {
	table := e.table.Load()
	if table == nil {
		return entity.Preview{}, errors.WithStack(reason.NotDeployed)
	}
	preview, err := table.Quote(amount)
	if err != nil {
		return entity.Preview{}, errors.WithStack(err)
	}
	return preview, nil
}

// begin opens a transaction and reads the state. Callers must hold e.mu.
func (e *Engine) begin(ctx context.Context) (datagateway.PresaleDataGatewayWithTx, *entity.State, error) {
	qtx, err := e.datagateway.BeginPresaleTx(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to begin transaction")
	}
	state, err := qtx.GetState(ctx)
	if err != nil {
		_ = qtx.Rollback(ctx)
		if errors.Is(err, errs.NotFound) {
			return nil, nil, errors.WithStack(reason.NotDeployed)
		}
		return nil, nil, errors.Wrap(err, "failed to get state")
	}
	return qtx, state, nil
}

func rollback(ctx context.Context, qtx datagateway.Tx) {
	if err := qtx.Rollback(ctx); err != nil {
		logger.ErrorContext(ctx, "failed to rollback transaction", err)
	}
}

// caller returns the authenticated caller or Unauthorized.
func caller(ctx context.Context) (common.Address, error) {
	account, ok := principal.Caller(ctx)
	if !ok {
		return common.Address{}, errors.Wrap(reason.Unauthorized, "unauthenticated caller")
	}
	return account, nil
}

func validateLimits(minPurchase, maxPurchase, hardCap *uint256.Int) error {
	if minPurchase == nil || maxPurchase == nil || hardCap == nil {
		return errors.Wrap(reason.InvalidLimits, "min, max and hard cap are required")
	}
	if minPurchase.Gt(maxPurchase) {
		return errors.Wrap(reason.InvalidLimits, "min purchase is above max purchase")
	}
	return nil
}

func (e *Engine) reject(ctx context.Context, operation string, err error, attrs ...any) error {
	e.metrics.observeRejection(operation, err)
	if r, ok := reason.From(err); ok {
		logger.InfoContext(ctx, "Presale operation rejected",
			append([]any{
				slog.String("event", "presale/rejected"),
				slog.String("operation", operation),
				slog.String("reason", string(r)),
			}, attrs...)...,
		)
	}
	return err
}
