package engine

import (
	"context"

	"synth/core"

	"github.com/shopspring/decimal"
)

// DepositCollateralAndMint deposit and mint in one step, all or nothing
func (e *engine) DepositCollateralAndMint(ctx context.Context, userID, assetID string, amount, mintAmount decimal.Decimal) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	if err := requireAmount(amount); err != nil {
		return err
	}

	if err := requireAmount(mintAmount); err != nil {
		return err
	}

	ledger, err := e.requireAsset(assetID)
	if err != nil {
		return err
	}

	op := newOperation(core.ActionTypeDepositAndMint, userID, assetID, amount)
	return e.execute(ctx, op, []string{userID}, func(ctx context.Context, store core.IPositionStore) error {
		if err := store.AdjustCollateral(ctx, userID, assetID, amount); err != nil {
			return err
		}

		if err := store.AdjustDebt(ctx, userID, mintAmount); err != nil {
			return err
		}

		hf, err := e.requireHealthy(ctx, store, userID)
		if err != nil {
			return err
		}

		if err := e.putBalances(ctx, store, op, userID, assetID); err != nil {
			return err
		}

		op.extra.Put(core.TransactionKeyMintAmount, mintAmount)
		op.extra.Put(core.TransactionKeyHealthFactor, hf)
		e.pullCollateral(op, ledger, userID, assetID, amount)
		e.mint(op, userID, mintAmount)
		return nil
	})
}

// RedeemCollateralForSynthetic burn synthetic then redeem collateral, all or nothing.
// The health factor is only checked once both legs are applied.
func (e *engine) RedeemCollateralForSynthetic(ctx context.Context, userID, assetID string, amount, burnAmount decimal.Decimal) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	if err := requireAmount(amount); err != nil {
		return err
	}

	if err := requireAmount(burnAmount); err != nil {
		return err
	}

	ledger, err := e.requireAsset(assetID)
	if err != nil {
		return err
	}

	op := newOperation(core.ActionTypeRedeemForSynthetic, userID, assetID, amount)
	return e.execute(ctx, op, []string{userID}, func(ctx context.Context, store core.IPositionStore) error {
		if err := store.AdjustDebt(ctx, userID, burnAmount.Neg()); err != nil {
			return err
		}

		if err := store.AdjustCollateral(ctx, userID, assetID, amount.Neg()); err != nil {
			return err
		}

		hf, err := e.requireHealthy(ctx, store, userID)
		if err != nil {
			return err
		}

		if err := e.putBalances(ctx, store, op, userID, assetID); err != nil {
			return err
		}

		op.extra.Put(core.TransactionKeyBurnAmount, burnAmount)
		op.extra.Put(core.TransactionKeyHealthFactor, hf)
		e.burn(op, userID, burnAmount)
		e.pushCollateral(op, ledger, userID, assetID, amount)
		return nil
	})
}

func (e *engine) putBalances(ctx context.Context, store core.IPositionStore, op *operation, userID, assetID string) error {
	collateral, err := store.FindCollateral(ctx, userID, assetID)
	if err != nil {
		return err
	}

	debt, err := store.FindDebt(ctx, userID)
	if err != nil {
		return err
	}

	op.extra.Put(core.TransactionKeyCollateral, collateral)
	op.extra.Put(core.TransactionKeyDebt, debt)
	return nil
}
