package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collateral deposited collateral of a user in one asset
type Collateral struct {
	UserID    string          `sql:"size:36;PRIMARY_KEY" json:"user_id"`
	AssetID   string          `sql:"size:64;PRIMARY_KEY" json:"asset_id"`
	Amount    decimal.Decimal `sql:"type:numeric(78,0)" json:"amount"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}
