package engine

import (
	"context"

	"synth/core"
	"synth/pkg/synth"

	"github.com/shopspring/decimal"
)

// Liquidate repay debtToCover of an unhealthy user's debt with the
// liquidator's synthetic and seize the equivalent collateral plus a 10% bonus.
func (e *engine) Liquidate(ctx context.Context, liquidator, assetID, userID string, debtToCover decimal.Decimal) (*core.Liquidation, error) {
	if err := requireUser(liquidator); err != nil {
		return nil, err
	}

	if err := requireUser(userID); err != nil {
		return nil, err
	}

	if err := requireAmount(debtToCover); err != nil {
		return nil, err
	}

	ledger, err := e.requireAsset(assetID)
	if err != nil {
		return nil, err
	}

	var result *core.Liquidation

	op := newOperation(core.ActionTypeLiquidate, userID, assetID, debtToCover)
	err = e.execute(ctx, op, []string{userID, liquidator}, func(ctx context.Context, store core.IPositionStore) error {
		startingHealthFactor, err := e.healthFactor(ctx, store, userID)
		if err != nil {
			return err
		}

		if err := synth.Require(!synth.IsHealthy(startingHealthFactor), core.ErrHealthFactorOk, userID); err != nil {
			return err
		}

		base, err := e.converter.AssetAmountFromUsd(ctx, assetID, debtToCover)
		if err != nil {
			return err
		}

		bonus := synth.BonusCollateral(base)
		seized := base.Add(bonus)
		if err := store.AdjustCollateral(ctx, userID, assetID, seized.Neg()); err != nil {
			return err
		}

		if err := store.AdjustDebt(ctx, userID, debtToCover.Neg()); err != nil {
			return err
		}

		endingHealthFactor, err := e.healthFactor(ctx, store, userID)
		if err != nil {
			return err
		}

		if err := synth.Require(endingHealthFactor.GreaterThan(startingHealthFactor), core.ErrHealthFactorNotImproved, userID); err != nil {
			return err
		}

		if _, err := e.requireHealthy(ctx, store, liquidator); err != nil {
			return err
		}

		result = &core.Liquidation{
			Liquidator:           liquidator,
			UserID:               userID,
			AssetID:              assetID,
			DebtCovered:          debtToCover,
			CollateralSeized:     seized,
			Bonus:                bonus,
			StartingHealthFactor: startingHealthFactor,
			EndingHealthFactor:   endingHealthFactor,
		}

		op.extra.PutStruct(core.TransactionKeyLiquidation, result)
		e.pushCollateral(op, ledger, liquidator, assetID, seized)
		e.burn(op, liquidator, debtToCover)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
