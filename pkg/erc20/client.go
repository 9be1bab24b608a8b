package erc20

import (
	"context"
	"log/slog"
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/logger/slogx"
	"github.com/holiman/uint256"
)

var parsedABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(ABI))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// Client is an on-chain ERC20 token bound to a [Backend].
type Client struct {
	backend  *Backend
	address  common.Address
	contract *bind.BoundContract
}

func NewClient(backend *Backend, address common.Address) (*Client, error) {
	if backend == nil || backend.client == nil {
		return nil, errors.New("backend is not connected")
	}
	if address == (common.Address{}) {
		return nil, errors.WithStack(ErrZeroAddress)
	}
	client := backend.client
	return &Client{
		backend:  backend,
		address:  address,
		contract: bind.NewBoundContract(address, parsedABI, client, client, client),
	}, nil
}

func (c *Client) Address() common.Address {
	return c.address
}

func (c *Client) Holder() common.Address {
	return c.backend.Address()
}

func (c *Client) call(ctx context.Context, method string, params ...any) ([]any, error) {
	var out []any
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, errors.Wrapf(err, "can't call %s", method)
	}
	if len(out) == 0 {
		return nil, errors.Errorf("empty result from %s", method)
	}
	return out, nil
}

func (c *Client) callUint256(ctx context.Context, method string, params ...any) (*uint256.Int, error) {
	out, err := c.call(ctx, method, params...)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	value, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("unexpected %s result type %T", method, out[0])
	}
	result, overflow := uint256.FromBig(value)
	if overflow {
		return nil, errors.Wrapf(errs.OverflowUint256, "%s result", method)
	}
	return result, nil
}

func (c *Client) Decimals(ctx context.Context) (uint8, error) {
	out, err := c.call(ctx, "decimals")
	if err != nil {
		return 0, errors.WithStack(err)
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, errors.Errorf("unexpected decimals result type %T", out[0])
	}
	return decimals, nil
}

func (c *Client) Symbol(ctx context.Context) (string, error) {
	out, err := c.call(ctx, "symbol")
	if err != nil {
		return "", errors.WithStack(err)
	}
	symbol, ok := out[0].(string)
	if !ok {
		return "", errors.Errorf("unexpected symbol result type %T", out[0])
	}
	return symbol, nil
}

func (c *Client) BalanceOf(ctx context.Context, account common.Address) (*uint256.Int, error) {
	return c.callUint256(ctx, "balanceOf", account)
}

func (c *Client) Allowance(ctx context.Context, owner, spender common.Address) (*uint256.Int, error) {
	return c.callUint256(ctx, "allowance", owner, spender)
}

// Transfer sends amount from the backend signer to `to` and waits until it is mined.
func (c *Client) Transfer(ctx context.Context, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return errors.WithStack(ErrZeroAddress)
	}
	receipt, err := c.backend.Send(ctx, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.contract.Transact(opts, "transfer", to, amount.ToBig())
	})
	if err != nil {
		return errors.Wrap(err, "transfer")
	}
	logger.InfoContext(ctx, "Token transfer mined",
		slogx.Address("token", c.address),
		slogx.Address("to", to),
		slogx.Uint256("amount", amount),
		slog.String("tx_hash", receipt.TxHash.Hex()),
	)
	return nil
}

// TransferFrom spends the backend signer's allowance on `from`.
func (c *Client) TransferFrom(ctx context.Context, from, to common.Address, amount *uint256.Int) error {
	if from == (common.Address{}) || to == (common.Address{}) {
		return errors.WithStack(ErrZeroAddress)
	}
	receipt, err := c.backend.Send(ctx, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.contract.Transact(opts, "transferFrom", from, to, amount.ToBig())
	})
	if err != nil {
		return errors.Wrap(err, "transferFrom")
	}
	logger.InfoContext(ctx, "Token transferFrom mined",
		slogx.Address("token", c.address),
		slogx.Address("from", from),
		slogx.Address("to", to),
		slogx.Uint256("amount", amount),
		slog.String("tx_hash", receipt.TxHash.Hex()),
	)
	return nil
}
