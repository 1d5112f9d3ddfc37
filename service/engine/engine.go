package engine

import (
	"context"
	"fmt"

	"synth/core"
	"synth/pkg/concurrency"
	"synth/pkg/number"
	"synth/pkg/synth"

	"github.com/shopspring/decimal"
)

type engine struct {
	id        string
	registry  core.IAssetRegistry
	converter core.IPriceConverter
	guard     core.IPriceGuard
	store     core.IPositionStore
	ledgers   core.IAssetLedgers
	synthetic core.ISyntheticToken
	locks     *concurrency.KeyedMutex
}

// New new position engine.
//
// id is the engine's own account on the asset ledgers; it must own the
// synthetic token so that mint and burn pass the owner gate.
func New(
	id string,
	registry core.IAssetRegistry,
	guard core.IPriceGuard,
	converter core.IPriceConverter,
	store core.IPositionStore,
	ledgers core.IAssetLedgers,
	synthetic core.ISyntheticToken,
) (core.IEngine, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty engine id", core.ErrInvalidConfig)
	}

	if owner := synthetic.Owner(); owner != id {
		return nil, fmt.Errorf("%w: synthetic token owned by %s, not %s", core.ErrInvalidConfig, owner, id)
	}

	for _, asset := range registry.All() {
		if _, ok := ledgers.Ledger(asset.AssetID); !ok {
			return nil, fmt.Errorf("%w: no ledger for asset %s", core.ErrInvalidConfig, asset.AssetID)
		}
	}

	return &engine{
		id:        id,
		registry:  registry,
		converter: converter,
		guard:     guard,
		store:     store,
		ledgers:   ledgers,
		synthetic: synthetic,
		locks:     concurrency.NewKeyedMutex(),
	}, nil
}

func (e *engine) AccountInformation(ctx context.Context, userID string) (*core.Account, error) {
	ctx, unlock := e.locks.LockContext(ctx, userID)
	defer unlock()

	account, err := e.accountInformation(ctx, e.store, userID)
	if err != nil {
		return nil, err
	}

	collaterals, err := e.store.FindCollaterals(ctx, userID)
	if err != nil {
		return nil, err
	}

	account.Collaterals = collaterals
	return account, nil
}

func (e *engine) AccountCollateralValue(ctx context.Context, userID string) (decimal.Decimal, error) {
	ctx, unlock := e.locks.LockContext(ctx, userID)
	defer unlock()
	return e.collateralValue(ctx, e.store, userID)
}

func (e *engine) HealthFactor(ctx context.Context, userID string) (decimal.Decimal, error) {
	ctx, unlock := e.locks.LockContext(ctx, userID)
	defer unlock()

	account, err := e.accountInformation(ctx, e.store, userID)
	if err != nil {
		return decimal.Zero, err
	}

	return account.HealthFactor, nil
}

func (e *engine) UserCollateral(ctx context.Context, userID, assetID string) (decimal.Decimal, error) {
	ctx, unlock := e.locks.LockContext(ctx, userID)
	defer unlock()
	return e.store.FindCollateral(ctx, userID, assetID)
}

func (e *engine) UsdValue(ctx context.Context, assetID string, amount decimal.Decimal) (decimal.Decimal, error) {
	return e.converter.UsdValue(ctx, assetID, amount)
}

func (e *engine) TokenAmountFromUsd(ctx context.Context, assetID string, usdAmount decimal.Decimal) (decimal.Decimal, error) {
	return e.converter.AssetAmountFromUsd(ctx, assetID, usdAmount)
}

func (e *engine) CalculateHealthFactor(totalDebt, collateralValueUSD decimal.Decimal) decimal.Decimal {
	return synth.HealthFactor(totalDebt, collateralValueUSD)
}

func (e *engine) CollateralAssets() []*core.SupportedAsset {
	return e.registry.All()
}

func (e *engine) CollateralPriceFeed(assetID string) (string, bool) {
	return e.registry.PriceFeed(assetID)
}

func (e *engine) SyntheticToken() core.ISyntheticToken {
	return e.synthetic
}

func (e *engine) Parameters() core.Parameters {
	return core.Parameters{
		Precision:            synth.Precision,
		LiquidationThreshold: synth.LiquidationThreshold,
		LiquidationBonus:     synth.LiquidationBonus,
		MinHealthFactor:      synth.MinHealthFactor,
		StaleTimeout:         e.guard.Timeout(),
	}
}

func (e *engine) Debtors(ctx context.Context) ([]string, error) {
	return e.store.Debtors(ctx)
}

func (e *engine) Transactions(ctx context.Context, userID string, fromID int64, limit int) ([]*core.Transaction, error) {
	return e.store.ListTransactions(ctx, userID, fromID, limit)
}

// collateralValue values every supported asset of the user at live prices.
// Zero balances are priced as well, so any stale feed fails the valuation.
func (e *engine) collateralValue(ctx context.Context, store core.IPositionStore, userID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, asset := range e.registry.All() {
		amount, err := store.FindCollateral(ctx, userID, asset.AssetID)
		if err != nil {
			return decimal.Zero, err
		}

		value, err := e.converter.UsdValue(ctx, asset.AssetID, amount)
		if err != nil {
			return decimal.Zero, err
		}

		total = total.Add(value)
	}

	return total, nil
}

func (e *engine) accountInformation(ctx context.Context, store core.IPositionStore, userID string) (*core.Account, error) {
	debt, err := store.FindDebt(ctx, userID)
	if err != nil {
		return nil, err
	}

	value, err := e.collateralValue(ctx, store, userID)
	if err != nil {
		return nil, err
	}

	return &core.Account{
		UserID:             userID,
		TotalDebt:          debt,
		CollateralValueUSD: value,
		HealthFactor:       synth.HealthFactor(debt, value),
	}, nil
}

func (e *engine) healthFactor(ctx context.Context, store core.IPositionStore, userID string) (decimal.Decimal, error) {
	account, err := e.accountInformation(ctx, store, userID)
	if err != nil {
		return decimal.Zero, err
	}

	return account.HealthFactor, nil
}

// requireHealthy fails with *core.HealthFactorError when the user is below the minimum
func (e *engine) requireHealthy(ctx context.Context, store core.IPositionStore, userID string) (decimal.Decimal, error) {
	hf, err := e.healthFactor(ctx, store, userID)
	if err != nil {
		return decimal.Zero, err
	}

	if !synth.IsHealthy(hf) {
		return hf, &core.HealthFactorError{UserID: userID, HealthFactor: hf}
	}

	return hf, nil
}

func (e *engine) requireAsset(assetID string) (core.IAssetLedger, error) {
	_, ok := e.registry.Find(assetID)
	if err := synth.Require(ok, core.ErrUnsupportedAsset, assetID); err != nil {
		return nil, err
	}

	ledger, ok := e.ledgers.Ledger(assetID)
	if err := synth.Require(ok, core.ErrUnsupportedAsset, assetID); err != nil {
		return nil, err
	}

	return ledger, nil
}

func requireUser(userID string) error {
	return synth.Require(userID != "", core.ErrInvalidUser)
}

func requireAmount(amount decimal.Decimal) error {
	if err := synth.Require(amount.IsPositive(), core.ErrNeedsMoreThanZero, amount); err != nil {
		return err
	}

	return synth.Require(number.IsUint256(amount), core.ErrInvalidAmount, amount)
}
