package presale

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/internal/config"
	"github.com/gaze-network/presale/internal/postgres"
	"github.com/gaze-network/presale/modules/presale/api/httphandler"
	presaleconfig "github.com/gaze-network/presale/modules/presale/config"
	"github.com/gaze-network/presale/modules/presale/datagateway"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/modules/presale/repository/memory"
	presalepostgres "github.com/gaze-network/presale/modules/presale/repository/postgres"
	"github.com/gaze-network/presale/pkg/decimals"
	"github.com/gaze-network/presale/pkg/erc20"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
)

const Version = "v0.1.0"

// Module is a deployed presale engine and the connections it holds.
type Module struct {
	Engine *Engine

	cleanupFuncs []func(context.Context) error
}

func (m *Module) Shutdown() error {
	return m.ShutdownWithContext(context.Background())
}

// ShutdownWithContext releases the storage and chain connections.
func (m *Module) ShutdownWithContext(ctx context.Context) error {
	var errList []error
	for _, cleanup := range m.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

// New builds the presale module from the injected config and mounts its API handlers.
func New(injector do.Injector) (*Module, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)

	module, err := Open(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	apiHandlers := lo.Uniq(conf.Presale.APIHandlers)
	for _, handler := range apiHandlers {
		switch handler {
		case "http":
			httpServer := do.MustInvoke[*fiber.App](injector)
			presaleHTTPHandler := httphandler.New(module.Engine, conf.HTTPServer.WalletAuth)
			if err := presaleHTTPHandler.Mount(httpServer); err != nil {
				return nil, errors.Wrap(err, "can't mount Presale API")
			}
			httpServer.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(module.Engine.Metrics().Registry(), promhttp.HandlerOpts{})))
			logger.InfoContext(ctx, "Mounted HTTP handler")
		default:
			return nil, errors.Wrapf(errs.Unsupported, "%q API handler is not supported", handler)
		}
	}
	return module, nil
}

// Open connects the storage and tokens described by conf, then deploys the
// presale if the store is empty or loads the stored one.
func Open(ctx context.Context, conf config.Config) (_ *Module, err error) {
	module := &Module{}
	defer func() {
		if err != nil {
			if cleanupErr := module.ShutdownWithContext(ctx); cleanupErr != nil {
				logger.ErrorContext(ctx, "failed to release presale resources", cleanupErr)
			}
		}
	}()

	var presaleDg datagateway.PresaleDataGateway
	switch strings.ToLower(conf.Presale.Database) {
	case "postgresql", "postgres", "pg":
		pg, err := postgres.NewPool(ctx, conf.Presale.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, errors.Wrap(err, "Invalid Postgres configuration for presale")
			}
			return nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		module.cleanupFuncs = append(module.cleanupFuncs, func(ctx context.Context) error {
			pg.Close()
			return nil
		})
		presaleDg = presalepostgres.NewRepository(pg)
	case "memory", "":
		logger.WarnContext(ctx, "Using in-memory presale storage, state is lost on restart")
		presaleDg = memory.NewRepository()
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q database for presale is not supported", conf.Presale.Database)
	}

	paymentToken, saleToken, treasury, err := openTokens(ctx, conf, module)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	engine, err := NewEngine(presaleDg, paymentToken, saleToken, Options{Treasury: treasury})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	params, err := DeployParamsFromConfig(conf.Presale, time.Now())
	if err != nil {
		return nil, errors.Wrap(err, "invalid presale configuration")
	}
	if _, err := engine.Deploy(ctx, params); err != nil {
		return nil, errors.Wrap(err, "can't deploy presale")
	}
	module.Engine = engine
	return module, nil
}

// openTokens dials the chain when an RPC url is configured, otherwise it creates
// in-memory tokens and mints the development supply to the treasury.
func openTokens(ctx context.Context, conf config.Config, module *Module) (payment, sale erc20.Token, treasury common.Address, err error) {
	paymentConf, saleConf := conf.Presale.PaymentToken, conf.Presale.SaleToken
	for name, address := range map[string]string{"payment token": paymentConf.Address, "sale token": saleConf.Address} {
		if !common.IsHexAddress(address) {
			return nil, nil, common.Address{}, errors.Wrapf(errs.InvalidArgument, "invalid %s address %q", name, address)
		}
	}

	if conf.Chain.RPCURL == "" {
		if !common.IsHexAddress(conf.Presale.Treasury) {
			return nil, nil, common.Address{}, errors.Wrapf(errs.InvalidArgument, "invalid treasury address %q", conf.Presale.Treasury)
		}
		treasury = common.HexToAddress(conf.Presale.Treasury)
		paymentMemory := erc20.NewMemory(common.HexToAddress(paymentConf.Address), treasury, paymentConf.Symbol, paymentConf.Decimals)
		saleMemory := erc20.NewMemory(common.HexToAddress(saleConf.Address), treasury, saleConf.Symbol, saleConf.Decimals)
		if supply := conf.Presale.Dev.TreasurySupply; supply != "" {
			amount, err := decimals.ParseUnits(supply, saleConf.Decimals)
			if err != nil {
				return nil, nil, common.Address{}, errors.Wrap(err, "invalid dev treasury supply")
			}
			if err := saleMemory.Mint(treasury, amount); err != nil {
				return nil, nil, common.Address{}, errors.WithStack(err)
			}
		}
		logger.WarnContext(ctx, "No chain configured, using in-memory tokens",
			slogx.Address("treasury", treasury),
			slogx.String("treasury_supply", conf.Presale.Dev.TreasurySupply),
		)
		return paymentMemory, saleMemory, treasury, nil
	}

	chainConf := conf.Chain
	if chainConf.ChainID == 0 && conf.Network.IsSupported() {
		chainConf.ChainID = conf.Network.ChainID().Int64()
	}
	backend, err := erc20.Dial(ctx, chainConf)
	if err != nil {
		return nil, nil, common.Address{}, errors.Wrap(err, "can't connect to chain")
	}
	module.cleanupFuncs = append(module.cleanupFuncs, func(context.Context) error {
		backend.Close()
		return nil
	})

	treasury = backend.Address()
	if treasury == (common.Address{}) {
		// read-only backend, purchases will fail with TransferFailed
		if !common.IsHexAddress(conf.Presale.Treasury) {
			return nil, nil, common.Address{}, errors.Wrap(errs.InvalidArgument, "treasury address or chain private key is required")
		}
		treasury = common.HexToAddress(conf.Presale.Treasury)
		logger.WarnContext(ctx, "No chain private key configured, token transfers are disabled", slogx.Address("treasury", treasury))
	}

	tokens := make([]erc20.Token, 0, 2)
	for _, tokenConf := range []presaleconfig.Token{paymentConf, saleConf} {
		client, err := erc20.NewClient(backend, common.HexToAddress(tokenConf.Address))
		if err != nil {
			return nil, nil, common.Address{}, errors.WithStack(err)
		}
		onChain, err := client.Decimals(ctx)
		if err != nil {
			return nil, nil, common.Address{}, errors.Wrapf(err, "can't get decimals of %s", tokenConf.Address)
		}
		if onChain != tokenConf.Decimals {
			return nil, nil, common.Address{}, errors.Wrapf(errs.InvalidArgument, "%s has %d decimals on chain, configured %d", tokenConf.Address, onChain, tokenConf.Decimals)
		}
		tokens = append(tokens, client)
	}
	return tokens[0], tokens[1], treasury, nil
}

// DeployParamsFromConfig converts the human readable presale config to base units.
// An empty release time means now + ReleaseDelay.
func DeployParamsFromConfig(conf presaleconfig.Config, now time.Time) (DeployParams, error) {
	paymentDecimals := conf.PaymentToken.Decimals

	var errList []error
	parse := func(name, value string) *uint256.Int {
		amount, err := decimals.ParseUnits(value, paymentDecimals)
		if err != nil {
			errList = append(errList, errors.Wrapf(err, "invalid %s %q", name, value))
		}
		return amount
	}

	params := DeployParams{
		MinPurchase:       parse("min_purchase", conf.MinPurchase),
		MaxPurchase:       parse("max_purchase", conf.MaxPurchase),
		HardCap:           parse("hard_cap", conf.HardCap),
		ImmediateDelivery: conf.ImmediateDelivery,
		PaymentDecimals:   paymentDecimals,
		SaleDecimals:      conf.SaleToken.Decimals,
		Tiers: lo.Map(conf.Tiers, func(tier presaleconfig.Tier, i int) entity.Tier {
			return entity.Tier{
				MinSpend:      parse(fmt.Sprintf("tiers[%d].min_spend", i), tier.MinSpend),
				PricePerToken: parse(fmt.Sprintf("tiers[%d].price", i), tier.Price),
			}
		}),
	}

	if !common.IsHexAddress(conf.Owner) {
		errList = append(errList, errors.Errorf("invalid owner address %q", conf.Owner))
	} else {
		params.Owner = common.HexToAddress(conf.Owner)
	}
	if conf.FundsWallet != "" {
		if !common.IsHexAddress(conf.FundsWallet) {
			errList = append(errList, errors.Errorf("invalid funds wallet address %q", conf.FundsWallet))
		} else {
			params.FundsWallet = common.HexToAddress(conf.FundsWallet)
		}
	}

	if conf.ReleaseTime != "" {
		releaseTime, err := time.Parse(time.RFC3339, conf.ReleaseTime)
		if err != nil {
			errList = append(errList, errors.Wrapf(err, "invalid release_time %q", conf.ReleaseTime))
		}
		params.ReleaseTime = releaseTime
	} else {
		params.ReleaseTime = now.Add(conf.ReleaseDelay)
	}

	if err := errors.Join(errList...); err != nil {
		return DeployParams{}, errors.Wrap(errs.InvalidArgument, err.Error())
	}
	return params, nil
}
