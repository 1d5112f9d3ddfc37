package engine

import (
	"context"

	"synth/core"

	"github.com/shopspring/decimal"
)

// MintSynthetic borrow synthetic against deposited collateral
func (e *engine) MintSynthetic(ctx context.Context, userID string, amount decimal.Decimal) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	if err := requireAmount(amount); err != nil {
		return err
	}

	op := newOperation(core.ActionTypeMint, userID, "", amount)
	return e.execute(ctx, op, []string{userID}, func(ctx context.Context, store core.IPositionStore) error {
		if err := store.AdjustDebt(ctx, userID, amount); err != nil {
			return err
		}

		hf, err := e.requireHealthy(ctx, store, userID)
		if err != nil {
			return err
		}

		debt, err := store.FindDebt(ctx, userID)
		if err != nil {
			return err
		}

		op.extra.Put(core.TransactionKeyDebt, debt)
		op.extra.Put(core.TransactionKeyMintAmount, amount)
		op.extra.Put(core.TransactionKeyHealthFactor, hf)
		e.mint(op, userID, amount)
		return nil
	})
}

// BurnSynthetic repay debt with synthetic the user approved to the engine,
// no price is read and the health factor is not checked
func (e *engine) BurnSynthetic(ctx context.Context, userID string, amount decimal.Decimal) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	if err := requireAmount(amount); err != nil {
		return err
	}

	op := newOperation(core.ActionTypeBurn, userID, "", amount)
	return e.execute(ctx, op, []string{userID}, func(ctx context.Context, store core.IPositionStore) error {
		if err := store.AdjustDebt(ctx, userID, amount.Neg()); err != nil {
			return err
		}

		debt, err := store.FindDebt(ctx, userID)
		if err != nil {
			return err
		}

		op.extra.Put(core.TransactionKeyDebt, debt)
		op.extra.Put(core.TransactionKeyBurnAmount, amount)
		e.burn(op, userID, amount)
		return nil
	})
}
