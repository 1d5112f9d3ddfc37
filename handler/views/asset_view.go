package views

import (
	"time"

	"synth/core"

	"github.com/shopspring/decimal"
)

// Asset collateral asset with its guarded price, price is empty when the feed is stale
type Asset struct {
	core.SupportedAsset
	Price     decimal.Decimal `json:"price,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
	Stale     bool            `json:"stale,omitempty"`
}

// Quote conversion result
type Quote struct {
	AssetID string          `json:"asset_id"`
	Amount  decimal.Decimal `json:"amount"`
	Usd     decimal.Decimal `json:"usd"`
}
