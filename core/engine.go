package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Parameters engine constants
type Parameters struct {
	Precision            decimal.Decimal `json:"precision"`
	LiquidationThreshold decimal.Decimal `json:"liquidation_threshold"`
	LiquidationBonus     decimal.Decimal `json:"liquidation_bonus"`
	MinHealthFactor      decimal.Decimal `json:"min_health_factor"`
	StaleTimeout         time.Duration   `json:"stale_timeout"`
}

// IEngine public contract of the position engine.
// userID is always the acting party except for Liquidate, which names the target.
type IEngine interface {
	DepositCollateral(ctx context.Context, userID, assetID string, amount decimal.Decimal) error
	MintSynthetic(ctx context.Context, userID string, amount decimal.Decimal) error
	DepositCollateralAndMint(ctx context.Context, userID, assetID string, amount, mintAmount decimal.Decimal) error
	RedeemCollateral(ctx context.Context, userID, assetID string, amount decimal.Decimal) error
	BurnSynthetic(ctx context.Context, userID string, amount decimal.Decimal) error
	RedeemCollateralForSynthetic(ctx context.Context, userID, assetID string, amount, burnAmount decimal.Decimal) error
	Liquidate(ctx context.Context, liquidator, assetID, userID string, debtToCover decimal.Decimal) (*Liquidation, error)

	AccountInformation(ctx context.Context, userID string) (*Account, error)
	AccountCollateralValue(ctx context.Context, userID string) (decimal.Decimal, error)
	HealthFactor(ctx context.Context, userID string) (decimal.Decimal, error)
	UserCollateral(ctx context.Context, userID, assetID string) (decimal.Decimal, error)
	UsdValue(ctx context.Context, assetID string, amount decimal.Decimal) (decimal.Decimal, error)
	TokenAmountFromUsd(ctx context.Context, assetID string, usdAmount decimal.Decimal) (decimal.Decimal, error)
	CalculateHealthFactor(totalDebt, collateralValueUSD decimal.Decimal) decimal.Decimal
	CollateralAssets() []*SupportedAsset
	CollateralPriceFeed(assetID string) (string, bool)
	SyntheticToken() ISyntheticToken
	Parameters() Parameters
	Debtors(ctx context.Context) ([]string, error)
	Transactions(ctx context.Context, userID string, fromID int64, limit int) ([]*Transaction, error)
}
