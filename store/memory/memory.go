package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"synth/core"
	"synth/pkg/synth"

	"github.com/shopspring/decimal"
)

type state struct {
	mu           sync.Mutex
	collaterals  map[string]map[string]*core.Collateral
	debts        map[string]*core.Debt
	transactions []*core.Transaction
	traces       map[string]struct{}
	seq          int64
}

// journal undo log of one unit of work
type journal struct {
	undo []func()
}

type positionStore struct {
	state   *state
	journal *journal
}

// New in-memory position store
func New() core.IPositionStore {
	return &positionStore{
		state: &state{
			collaterals: make(map[string]map[string]*core.Collateral),
			debts:       make(map[string]*core.Debt),
			traces:      make(map[string]struct{}),
		},
	}
}

func (s *positionStore) record(fn func()) {
	if s.journal != nil {
		s.journal.undo = append(s.journal.undo, fn)
	}
}

func (s *positionStore) Tx(ctx context.Context, fn func(store core.IPositionStore) error) error {
	if s.journal != nil {
		return fn(s)
	}

	tx := &positionStore{state: s.state, journal: &journal{}}
	if err := fn(tx); err != nil {
		s.state.mu.Lock()
		for idx := len(tx.journal.undo) - 1; idx >= 0; idx-- {
			tx.journal.undo[idx]()
		}
		s.state.mu.Unlock()
		return err
	}

	return nil
}

func (s *positionStore) FindCollateral(ctx context.Context, userID, assetID string) (decimal.Decimal, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if c, ok := s.state.collaterals[userID][assetID]; ok {
		return c.Amount, nil
	}

	return decimal.Zero, nil
}

func (s *positionStore) FindCollaterals(ctx context.Context, userID string) ([]*core.Collateral, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	collaterals := make([]*core.Collateral, 0, len(s.state.collaterals[userID]))
	for _, c := range s.state.collaterals[userID] {
		cp := *c
		collaterals = append(collaterals, &cp)
	}

	sort.Slice(collaterals, func(i, j int) bool {
		return collaterals[i].AssetID < collaterals[j].AssetID
	})

	return collaterals, nil
}

func (s *positionStore) AdjustCollateral(ctx context.Context, userID, assetID string, delta decimal.Decimal) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	assets, ok := s.state.collaterals[userID]
	if !ok {
		assets = make(map[string]*core.Collateral)
		s.state.collaterals[userID] = assets
	}

	now := time.Now()
	c, ok := assets[assetID]
	if !ok {
		c = &core.Collateral{UserID: userID, AssetID: assetID, Amount: decimal.Zero, CreatedAt: now}
	}

	amount := c.Amount.Add(delta)
	if err := synth.Require(!amount.IsNegative(), core.ErrInsufficientCollateral, userID, "/", assetID); err != nil {
		return err
	}

	if !ok {
		assets[assetID] = c
	}

	c.Amount = amount
	c.UpdatedAt = now
	s.record(func() {
		c.Amount = c.Amount.Sub(delta)
	})

	return nil
}

func (s *positionStore) FindDebt(ctx context.Context, userID string) (decimal.Decimal, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if d, ok := s.state.debts[userID]; ok {
		return d.Amount, nil
	}

	return decimal.Zero, nil
}

func (s *positionStore) AdjustDebt(ctx context.Context, userID string, delta decimal.Decimal) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	now := time.Now()
	d, ok := s.state.debts[userID]
	if !ok {
		d = &core.Debt{UserID: userID, Amount: decimal.Zero, CreatedAt: now}
	}

	amount := d.Amount.Add(delta)
	if err := synth.Require(!amount.IsNegative(), core.ErrInsufficientDebt, userID); err != nil {
		return err
	}

	if !ok {
		s.state.debts[userID] = d
	}

	d.Amount = amount
	d.UpdatedAt = now
	s.record(func() {
		d.Amount = d.Amount.Sub(delta)
	})

	return nil
}

func (s *positionStore) Debtors(ctx context.Context) ([]string, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	var users []string
	for userID, d := range s.state.debts {
		if d.Amount.IsPositive() {
			users = append(users, userID)
		}
	}

	sort.Strings(users)
	return users, nil
}

func (s *positionStore) CreateTransaction(ctx context.Context, tx *core.Transaction) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if _, ok := s.state.traces[tx.TraceID]; ok {
		return core.ErrDuplicateTrace
	}

	s.state.seq++
	tx.ID = s.state.seq
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	cp := *tx
	s.state.traces[tx.TraceID] = struct{}{}
	s.state.transactions = append(s.state.transactions, &cp)
	s.record(func() {
		delete(s.state.traces, cp.TraceID)
		for idx, t := range s.state.transactions {
			if t.ID == cp.ID {
				s.state.transactions = append(s.state.transactions[:idx], s.state.transactions[idx+1:]...)
				break
			}
		}
	})

	return nil
}

func (s *positionStore) ListTransactions(ctx context.Context, userID string, fromID int64, limit int) ([]*core.Transaction, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if limit <= 0 {
		limit = 500
	}

	var transactions []*core.Transaction
	for _, t := range s.state.transactions {
		if t.ID <= fromID || (userID != "" && t.UserID != userID) {
			continue
		}

		cp := *t
		transactions = append(transactions, &cp)
		if len(transactions) >= limit {
			break
		}
	}

	return transactions, nil
}
