package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RoundData raw answer of an upstream oracle round, round ids are uint80
// on chain with the phase id in the high bits
type RoundData struct {
	RoundID         decimal.Decimal `json:"round_id"`
	Answer          decimal.Decimal `json:"answer"`
	StartedAt       time.Time       `json:"started_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	AnsweredInRound decimal.Decimal `json:"answered_in_round"`
}

// PricePoint guarded price, never cached
type PricePoint struct {
	Price     decimal.Decimal `json:"price"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IPriceFeed upstream oracle
type IPriceFeed interface {
	LatestRoundData(ctx context.Context) (*RoundData, error)
}

// IPriceGuard rejects stale oracle data
type IPriceGuard interface {
	Latest(ctx context.Context, feedID string) (*PricePoint, error)
	Timeout() time.Duration
}

// IPriceConverter converts between asset quantities and usd values
type IPriceConverter interface {
	UsdValue(ctx context.Context, assetID string, amount decimal.Decimal) (decimal.Decimal, error)
	AssetAmountFromUsd(ctx context.Context, assetID string, usdAmount decimal.Decimal) (decimal.Decimal, error)
}

// IPriceFeeds resolves a price feed by id
type IPriceFeeds interface {
	Feed(feedID string) (IPriceFeed, bool)
}
