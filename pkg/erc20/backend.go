package erc20

import (
	"context"
	"crypto/ecdsa"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/logger/slogx"
)

type BackendConfig struct {
	RPCURL        string `mapstructure:"rpc_url"`
	ChainID       int64  `mapstructure:"chain_id"`
	PrivateKey    string `mapstructure:"private_key"` // hex encoded secp256k1 key of the treasury
	Confirmations uint64 `mapstructure:"confirmations"`
	// MaxGasPrice caps the suggested gas price, in wei. Zero means no cap.
	MaxGasPrice int64 `mapstructure:"max_gas_price"`
}

// Backend is a connected, signing EVM client shared by every token [Client].
type Backend struct {
	config  BackendConfig
	client  *ethclient.Client
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int

	// serialises nonce allocation
	mu sync.Mutex
}

// Dial connects to the RPC endpoint and verifies the chain id.
func Dial(ctx context.Context, config BackendConfig) (*Backend, error) {
	if config.RPCURL == "" {
		return nil, errors.New("rpc url is required")
	}

	b := &Backend{
		config:  config,
		chainID: big.NewInt(config.ChainID),
	}
	if config.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(config.PrivateKey, "0x"))
		if err != nil {
			return nil, errors.Wrap(err, "invalid private key")
		}
		b.key = key
		b.address = crypto.PubkeyToAddress(key.PublicKey)
	}

	client, err := ethclient.DialContext(ctx, config.RPCURL)
	if err != nil {
		return nil, errors.Wrap(err, "can't dial rpc")
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, errors.Wrap(err, "can't get chain id")
	}
	if chainID.Cmp(b.chainID) != 0 {
		client.Close()
		return nil, errors.Errorf("chain id mismatch: expected %s, got %s", b.chainID, chainID)
	}
	b.client = client

	logger.InfoContext(ctx, "Connected to EVM node",
		slog.String("chain_id", chainID.String()),
		slogx.Address("signer", b.address),
	)
	return b, nil
}

// Address returns the signer address, zero if the backend is read-only.
func (b *Backend) Address() common.Address {
	return b.address
}

func (b *Backend) ChainID() *big.Int {
	return new(big.Int).Set(b.chainID)
}

func (b *Backend) Client() *ethclient.Client {
	return b.client
}

func (b *Backend) Close() {
	if b.client != nil {
		b.client.Close()
	}
}

// Send builds, signs and submits a transaction via submit, then blocks until it
// is mined with a successful status and the configured confirmations.
func (b *Backend) Send(ctx context.Context, submit func(opts *bind.TransactOpts) (*types.Transaction, error)) (*types.Receipt, error) {
	if b.key == nil {
		return nil, errors.WithStack(ErrNoSigner)
	}

	b.mu.Lock()
	opts, err := b.transactOpts(ctx)
	if err != nil {
		b.mu.Unlock()
		return nil, errors.WithStack(err)
	}
	tx, err := submit(opts)
	b.mu.Unlock()
	if err != nil {
		return nil, errors.Wrap(err, "can't submit transaction")
	}

	logger.DebugContext(ctx, "Submitted transaction", slog.String("tx_hash", tx.Hash().Hex()))
	// once broadcast the transaction may be mined whatever the caller does,
	// so the outcome is always awaited.
	return b.WaitMined(context.WithoutCancel(ctx), tx)
}

func (b *Backend) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(b.key, b.chainID)
	if err != nil {
		return nil, errors.Wrap(err, "can't create transactor")
	}
	nonce, err := b.client.PendingNonceAt(ctx, b.address)
	if err != nil {
		return nil, errors.Wrap(err, "can't get pending nonce")
	}
	gasPrice, err := b.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't get gas price")
	}
	if b.config.MaxGasPrice > 0 && gasPrice.Cmp(big.NewInt(b.config.MaxGasPrice)) > 0 {
		gasPrice = big.NewInt(b.config.MaxGasPrice)
	}
	opts.Context = ctx
	opts.Nonce = new(big.Int).SetUint64(nonce)
	opts.GasPrice = gasPrice
	return opts, nil
}

// WaitMined waits for tx to be mined and for the configured number of confirmations.
func (b *Backend) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, b.client, tx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed waiting for transaction %s", tx.Hash().Hex())
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, errors.Wrapf(ErrTransactionReverted, "tx %s", tx.Hash().Hex())
	}
	if b.config.Confirmations == 0 {
		return receipt, nil
	}

	target := receipt.BlockNumber.Uint64() + b.config.Confirmations
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return receipt, errors.WithStack(ctx.Err())
		case <-ticker.C:
			current, err := b.client.BlockNumber(ctx)
			if err != nil {
				logger.WarnContext(ctx, "Failed to get block number while waiting confirmations", slogx.Error(err))
				continue
			}
			if current >= target {
				return receipt, nil
			}
		}
	}
}
