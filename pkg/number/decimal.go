package number

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Decimal parse v, zero if malformed
func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// Pow10 10^exp as an integer decimal
func Pow10(exp int32) decimal.Decimal {
	return decimal.New(1, exp)
}

// Quo integer division truncated toward zero
func Quo(a, b decimal.Decimal) decimal.Decimal {
	q, _ := a.QuoRem(b, 0)
	return q
}

// MulDiv a * b / c with the division truncated, multiply first
func MulDiv(a, b, c decimal.Decimal) decimal.Decimal {
	return Quo(a.Mul(b), c)
}

// IsInteger d has no fractional part
func IsInteger(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0))
}

// IsUint256 d is a non-negative integer that fits in 256 bits
func IsUint256(d decimal.Decimal) bool {
	if d.IsNegative() || !IsInteger(d) {
		return false
	}

	_, overflow := uint256.FromBig(d.BigInt())
	return !overflow
}
