package token

import (
	"context"
	"sync"

	"synth/core"
	"synth/pkg/synth"

	"github.com/shopspring/decimal"
)

// Ledger in-memory fungible asset ledger with allowances
type Ledger struct {
	mu         sync.Mutex
	symbol     string
	balances   map[string]decimal.Decimal
	allowances map[string]map[string]decimal.Decimal
	supply     decimal.Decimal
}

// NewLedger new ledger
func NewLedger(symbol string) *Ledger {
	return &Ledger{
		symbol:     symbol,
		balances:   make(map[string]decimal.Decimal),
		allowances: make(map[string]map[string]decimal.Decimal),
	}
}

// Symbol token symbol
func (l *Ledger) Symbol() string {
	return l.symbol
}

// Credit adds amount to owner out of thin air, for faucets and tests
func (l *Ledger) Credit(owner string, amount decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(owner, amount)
}

func (l *Ledger) credit(owner string, amount decimal.Decimal) {
	l.balances[owner] = l.balances[owner].Add(amount)
	l.supply = l.supply.Add(amount)
}

func (l *Ledger) debit(owner string, amount decimal.Decimal) error {
	balance := l.balances[owner]
	if err := synth.Require(balance.GreaterThanOrEqual(amount), core.ErrInsufficientBalance, owner); err != nil {
		return err
	}

	l.balances[owner] = balance.Sub(amount)
	l.supply = l.supply.Sub(amount)
	return nil
}

func (l *Ledger) move(from, to string, amount decimal.Decimal) error {
	if err := l.debit(from, amount); err != nil {
		return err
	}

	l.credit(to, amount)
	return nil
}

func (l *Ledger) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) (bool, error) {
	if amount.IsNegative() {
		return false, core.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.move(from, to, amount); err != nil {
		return false, err
	}

	return true, nil
}

func (l *Ledger) TransferFrom(ctx context.Context, spender, from, to string, amount decimal.Decimal) (bool, error) {
	if amount.IsNegative() {
		return false, core.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if spender != from {
		allowance := l.allowances[from][spender]
		if err := synth.Require(allowance.GreaterThanOrEqual(amount), core.ErrInsufficientAllowance, from, "->", spender); err != nil {
			return false, err
		}

		if err := l.move(from, to, amount); err != nil {
			return false, err
		}

		l.allowances[from][spender] = allowance.Sub(amount)
		return true, nil
	}

	if err := l.move(from, to, amount); err != nil {
		return false, err
	}

	return true, nil
}

func (l *Ledger) Approve(ctx context.Context, owner, spender string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return core.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	spenders, ok := l.allowances[owner]
	if !ok {
		spenders = make(map[string]decimal.Decimal)
		l.allowances[owner] = spenders
	}

	spenders[spender] = amount
	return nil
}

// Allowance remaining amount spender may move out of owner
func (l *Ledger) Allowance(ctx context.Context, owner, spender string) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allowances[owner][spender]
}

func (l *Ledger) BalanceOf(ctx context.Context, owner string) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[owner], nil
}

func (l *Ledger) TotalSupply(ctx context.Context) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.supply, nil
}

// Ledgers asset id -> ledger
type Ledgers map[string]core.IAssetLedger

func (l Ledgers) Ledger(assetID string) (core.IAssetLedger, bool) {
	ledger, ok := l[assetID]
	return ledger, ok
}
