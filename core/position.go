package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// IPositionStore owns collateral and debt balances.
//
// Adjust* apply a signed delta atomically and fail with
// ErrInsufficientCollateral / ErrInsufficientDebt instead of going below
// zero. Tx runs fn in a unit of work: every change made through the store
// handed to fn is discarded if fn returns an error.
type IPositionStore interface {
	FindCollateral(ctx context.Context, userID, assetID string) (decimal.Decimal, error)
	FindCollaterals(ctx context.Context, userID string) ([]*Collateral, error)
	AdjustCollateral(ctx context.Context, userID, assetID string, delta decimal.Decimal) error

	FindDebt(ctx context.Context, userID string) (decimal.Decimal, error)
	AdjustDebt(ctx context.Context, userID string, delta decimal.Decimal) error
	Debtors(ctx context.Context) ([]string, error)

	CreateTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context, userID string, fromID int64, limit int) ([]*Transaction, error)

	Tx(ctx context.Context, fn func(store IPositionStore) error) error
}
