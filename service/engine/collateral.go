package engine

import (
	"context"

	"synth/core"

	"github.com/shopspring/decimal"
)

// DepositCollateral lock amount of the asset as collateral.
// No price is read, a deposit can only improve a position.
func (e *engine) DepositCollateral(ctx context.Context, userID, assetID string, amount decimal.Decimal) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	if err := requireAmount(amount); err != nil {
		return err
	}

	ledger, err := e.requireAsset(assetID)
	if err != nil {
		return err
	}

	op := newOperation(core.ActionTypeDeposit, userID, assetID, amount)
	return e.execute(ctx, op, []string{userID}, func(ctx context.Context, store core.IPositionStore) error {
		if err := store.AdjustCollateral(ctx, userID, assetID, amount); err != nil {
			return err
		}

		collateral, err := store.FindCollateral(ctx, userID, assetID)
		if err != nil {
			return err
		}

		op.extra.Put(core.TransactionKeyCollateral, collateral)
		e.pullCollateral(op, ledger, userID, assetID, amount)
		return nil
	})
}

// RedeemCollateral withdraw collateral, the position must stay healthy
func (e *engine) RedeemCollateral(ctx context.Context, userID, assetID string, amount decimal.Decimal) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	if err := requireAmount(amount); err != nil {
		return err
	}

	ledger, err := e.requireAsset(assetID)
	if err != nil {
		return err
	}

	op := newOperation(core.ActionTypeRedeem, userID, assetID, amount)
	return e.execute(ctx, op, []string{userID}, func(ctx context.Context, store core.IPositionStore) error {
		if err := store.AdjustCollateral(ctx, userID, assetID, amount.Neg()); err != nil {
			return err
		}

		hf, err := e.requireHealthy(ctx, store, userID)
		if err != nil {
			return err
		}

		collateral, err := store.FindCollateral(ctx, userID, assetID)
		if err != nil {
			return err
		}

		op.extra.Put(core.TransactionKeyCollateral, collateral)
		op.extra.Put(core.TransactionKeyHealthFactor, hf)
		e.pushCollateral(op, ledger, userID, assetID, amount)
		return nil
	})
}
