package views

import (
	"synth/core"

	"github.com/shopspring/decimal"
)

// Account account view
type Account struct {
	core.Account
	Liquidatable bool `json:"liquidatable"`
}

// Collateral single collateral balance
type Collateral struct {
	UserID  string          `json:"user_id"`
	AssetID string          `json:"asset_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// Operation accepted engine operation
type Operation struct {
	Action  core.ActionType `json:"action"`
	TraceID string          `json:"trace_id"`
	UserID  string          `json:"user_id"`
}

// Liquidation liquidation view
type Liquidation struct {
	core.Liquidation
	TraceID string `json:"trace_id"`
}
