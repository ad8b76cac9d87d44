// Package types provides common value types for the platform.
package types

import (
	"github.com/shopspring/decimal"
)

// Money is a monetary amount in whole currency units.
// The business operates in a currency without fractional units, so int64
// arithmetic is exact and cheap. Percentage math goes through decimal
// and is rounded half-up back to whole units at the boundary.
type Money = int64

// Rate is a fractional multiplier (discount percentage, margin).
// Uses decimal.Decimal to avoid floating-point drift in price chains.
type Rate = decimal.Decimal

// NewRate creates a Rate from a string, panics on error.
// Use only for constants and tests.
func NewRate(s string) Rate {
	return decimal.RequireFromString(s)
}

// RateFromPercent converts a percent value (e.g. 12.5) to a Rate (0.125).
func RateFromPercent(p decimal.Decimal) Rate {
	return p.Div(decimal.NewFromInt(100))
}

// ApplyRate multiplies an amount by a rate and rounds half-up to whole units.
// Rounding happens once, after the multiplication, so chained discounts do
// not accumulate sub-unit residue.
func ApplyRate(amount Money, rate Rate) Money {
	return decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart()
}

// DiscountedBy returns amount reduced by the given discount rate.
func DiscountedBy(amount Money, discount Rate) Money {
	one := decimal.NewFromInt(1)
	return decimal.NewFromInt(amount).Mul(one.Sub(discount)).Round(0).IntPart()
}
