package synth

import (
	"synth/pkg/number"

	"github.com/shopspring/decimal"
)

// HealthFactor (collateral_usd * threshold / 100) * 1e18 / total_debt
//
// A position without debt is unconditionally safe and reports MaxHealthFactor.
func HealthFactor(totalDebt, collateralValueUSD decimal.Decimal) decimal.Decimal {
	if !totalDebt.IsPositive() {
		return MaxHealthFactor
	}

	adjusted := number.MulDiv(collateralValueUSD, LiquidationThreshold, LiquidationPrecision)
	return number.MulDiv(adjusted, Precision, totalDebt)
}

// IsHealthy factor >= MinHealthFactor
func IsHealthy(healthFactor decimal.Decimal) bool {
	return healthFactor.GreaterThanOrEqual(MinHealthFactor)
}

// BonusCollateral liquidation bonus on top of base collateral
func BonusCollateral(base decimal.Decimal) decimal.Decimal {
	return number.MulDiv(base, LiquidationBonus, LiquidationPrecision)
}
