package synth

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// PrecisionDecimals engine fixed-point base is 1e18
	PrecisionDecimals int32 = 18
	// DefaultAssetDecimals precision of a collateral asset unless configured
	DefaultAssetDecimals int32 = 18
	// DefaultFeedDecimals precision of an oracle answer unless configured
	DefaultFeedDecimals int32 = 8
	// StaleTimeout oracle answers older than this are rejected
	StaleTimeout = 3 * time.Hour
)

var (
	// Precision 1e18
	Precision = decimal.New(1, PrecisionDecimals)
	// LiquidationThreshold collateral counts at 50%, i.e. 200% over-collateralized
	LiquidationThreshold = decimal.NewFromInt(50)
	// LiquidationPrecision percentages are out of 100
	LiquidationPrecision = decimal.NewFromInt(100)
	// LiquidationBonus liquidators receive a 10% bonus
	LiquidationBonus = decimal.NewFromInt(10)
	// MinHealthFactor 1.0
	MinHealthFactor = Precision
	// MaxHealthFactor 2^256 - 1, the factor of a position without debt
	MaxHealthFactor = decimal.NewFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)), 0)
)
