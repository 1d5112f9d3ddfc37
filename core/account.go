package core

import (
	"github.com/shopspring/decimal"
)

// Account derived view of a position, recomputed from live prices
type Account struct {
	UserID             string          `json:"user_id"`
	TotalDebt          decimal.Decimal `json:"total_debt"`
	CollateralValueUSD decimal.Decimal `json:"collateral_value_usd"`
	HealthFactor       decimal.Decimal `json:"health_factor"`
	Collaterals        []*Collateral   `json:"collaterals,omitempty"`
}

// Liquidation outcome of a liquidation
type Liquidation struct {
	Liquidator           string          `json:"liquidator"`
	UserID               string          `json:"user_id"`
	AssetID              string          `json:"asset_id"`
	DebtCovered          decimal.Decimal `json:"debt_covered"`
	CollateralSeized     decimal.Decimal `json:"collateral_seized"`
	Bonus                decimal.Decimal `json:"bonus"`
	StartingHealthFactor decimal.Decimal `json:"starting_health_factor"`
	EndingHealthFactor   decimal.Decimal `json:"ending_health_factor"`
}
