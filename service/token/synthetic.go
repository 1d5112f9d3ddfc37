package token

import (
	"context"

	"synth/core"
	"synth/pkg/synth"

	"github.com/shopspring/decimal"
)

// Synthetic the pegged token, mint and burn are owner only
type Synthetic struct {
	*Ledger
	owner string
}

// NewSynthetic new synthetic token owned by owner
func NewSynthetic(symbol, owner string) *Synthetic {
	return &Synthetic{
		Ledger: NewLedger(symbol),
		owner:  owner,
	}
}

func (s *Synthetic) Owner() string {
	return s.owner
}

func (s *Synthetic) Mint(ctx context.Context, caller, to string, amount decimal.Decimal) (bool, error) {
	if caller != s.owner {
		return false, core.ErrNotOwner
	}

	if !amount.IsPositive() {
		return false, core.ErrNeedsMoreThanZero
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.credit(to, amount)
	return true, nil
}

// Burn destroys amount out of the caller's own balance
func (s *Synthetic) Burn(ctx context.Context, caller string, amount decimal.Decimal) error {
	if caller != s.owner {
		return core.ErrNotOwner
	}

	if !amount.IsPositive() {
		return core.ErrNeedsMoreThanZero
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	balance := s.balances[caller]
	if err := synth.Require(balance.GreaterThanOrEqual(amount), core.ErrBurnAmountExceedsBalance, caller); err != nil {
		return err
	}

	return s.debit(caller, amount)
}
