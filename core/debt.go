package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt minted synthetic of a user, 1e18 fixed point
type Debt struct {
	UserID    string          `sql:"size:36;PRIMARY_KEY" json:"user_id"`
	Amount    decimal.Decimal `sql:"type:numeric(78,0)" json:"amount"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}
