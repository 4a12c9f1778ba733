// Package pricing decides the payable price of a room offer: which single discount source
// applies (hotel event, coupon or none) and how much it removes. Everything in this package is
// pure; callers pass snapshots and get values back.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/hotel-pricing-engine/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Discount is a tagged union: Type selects whether Value is a percentage (0-100) or a fixed
// minor-unit amount per night.
type Discount struct {
	Type  model.DiscountType
	Value float64
}

// Percentage returns a percentage discount.
func Percentage(v float64) Discount {
	return Discount{Type: model.DiscountPercentage, Value: v}
}

// Fixed returns a fixed per-night discount.
func Fixed(v float64) Discount {
	return Discount{Type: model.DiscountFixed, Value: v}
}

// Redeemable reports whether d can take anything off a price: a known type with a positive value.
func (d Discount) Redeemable() bool {
	switch d.Type {
	case model.DiscountPercentage, model.DiscountFixed:
		return d.Value > 0
	default:
		return false
	}
}

// Amount returns the monetary discount on price for nights nights.
// Percentages are clamped to [0, 100]; fixed values are prorated per night and never negative.
// Unknown types contribute nothing.
func (d Discount) Amount(price int64, nights int) decimal.Decimal {
	switch d.Type {
	case model.DiscountPercentage:
		return decimal.NewFromInt(price).Mul(decimal.NewFromFloat(ClampPercent(d.Value))).Div(hundred)
	case model.DiscountFixed:
		if d.Value <= 0 || nights <= 0 {
			return decimal.Zero
		}
		return decimal.NewFromFloat(d.Value).Mul(decimal.NewFromInt(int64(nights)))
	default:
		return decimal.Zero
	}
}

// Apply returns price after the discount.
// Percentage: round(price × (1 − p/100)). Fixed: max(0, price − value × nights).
func (d Discount) Apply(price int64, nights int) int64 {
	switch d.Type {
	case model.DiscountPercentage:
		rate := hundred.Sub(decimal.NewFromFloat(ClampPercent(d.Value)))
		final := decimal.NewFromInt(price).Mul(rate).Div(hundred).Round(0)
		return nonNegative(final.IntPart())
	case model.DiscountFixed:
		return FinalPrice(price, d.Amount(price, nights).Round(0).IntPart())
	default:
		return nonNegative(price)
	}
}

// FinalPrice subtracts amount from price, flooring at zero.
func FinalPrice(price, amount int64) int64 {
	return nonNegative(price - amount)
}

// ClampPercent bounds a percentage value to [0, 100].
func ClampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
