package erc20

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/presale/common/errs"
	"github.com/holiman/uint256"
)

// Memory is an in-process ERC20 ledger. It has no supply cap; balances are created with Mint.
type Memory struct {
	address  common.Address
	holder   common.Address
	symbol   string
	decimals uint8

	mu         sync.RWMutex
	balances   map[common.Address]*uint256.Int
	allowances map[common.Address]map[common.Address]*uint256.Int
}

func NewMemory(address, holder common.Address, symbol string, decimals uint8) *Memory {
	return &Memory{
		address:    address,
		holder:     holder,
		symbol:     symbol,
		decimals:   decimals,
		balances:   make(map[common.Address]*uint256.Int),
		allowances: make(map[common.Address]map[common.Address]*uint256.Int),
	}
}

func (m *Memory) Address() common.Address { return m.address }

func (m *Memory) Holder() common.Address { return m.holder }

func (m *Memory) Decimals(context.Context) (uint8, error) { return m.decimals, nil }

func (m *Memory) Symbol(context.Context) (string, error) { return m.symbol, nil }

func (m *Memory) BalanceOf(_ context.Context, account common.Address) (*uint256.Int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balanceOf(account), nil
}

func (m *Memory) balanceOf(account common.Address) *uint256.Int {
	if balance, ok := m.balances[account]; ok {
		return balance.Clone()
	}
	return uint256.NewInt(0)
}

func (m *Memory) Allowance(_ context.Context, owner, spender common.Address) (*uint256.Int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.allowance(owner, spender), nil
}

func (m *Memory) allowance(owner, spender common.Address) *uint256.Int {
	if allowance, ok := m.allowances[owner][spender]; ok {
		return allowance.Clone()
	}
	return uint256.NewInt(0)
}

// Mint credits amount to account.
func (m *Memory) Mint(account common.Address, amount *uint256.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, overflow := new(uint256.Int).AddOverflow(m.balanceOf(account), amount)
	if overflow {
		return errors.Wrap(errs.OverflowUint256, "mint")
	}
	m.balances[account] = balance
	return nil
}

// Approve sets owner's allowance for spender, as if owner had signed approve().
func (m *Memory) Approve(owner, spender common.Address, amount *uint256.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.allowances[owner]; !ok {
		m.allowances[owner] = make(map[common.Address]*uint256.Int)
	}
	m.allowances[owner][spender] = amount.Clone()
}

func (m *Memory) Transfer(_ context.Context, to common.Address, amount *uint256.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.move(m.holder, to, amount)
}

func (m *Memory) TransferFrom(_ context.Context, from, to common.Address, amount *uint256.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowance := m.allowance(from, m.holder)
	if allowance.Lt(amount) {
		return errors.WithStack(ErrInsufficientAllowance)
	}
	if err := m.move(from, to, amount); err != nil {
		return errors.WithStack(err)
	}
	m.allowances[from][m.holder] = allowance.Sub(allowance, amount)
	return nil
}

func (m *Memory) move(from, to common.Address, amount *uint256.Int) error {
	if from == (common.Address{}) || to == (common.Address{}) {
		return errors.WithStack(ErrZeroAddress)
	}
	fromBalance := m.balanceOf(from)
	if fromBalance.Lt(amount) {
		return errors.WithStack(ErrInsufficientBalance)
	}
	m.balances[from] = fromBalance.Sub(fromBalance, amount)

	toBalance, overflow := new(uint256.Int).AddOverflow(m.balanceOf(to), amount)
	if overflow {
		// restore sender before failing
		m.balances[from] = new(uint256.Int).Add(m.balances[from], amount)
		return errors.Wrap(errs.OverflowUint256, "transfer")
	}
	m.balances[to] = toBalance
	return nil
}
