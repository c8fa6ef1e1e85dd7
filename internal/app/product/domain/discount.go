package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscountPercent is a flat percentage discount in [0, 100].
type DiscountPercent struct {
	percentage int64
}

// NoDiscount is the zero discount.
var NoDiscount = DiscountPercent{}

// NewDiscountPercent validates a percentage. Out-of-range values are rejected, never clamped.
func NewDiscountPercent(percentage int64) (DiscountPercent, error) {
	if percentage < 0 || percentage > 100 {
		return DiscountPercent{}, fmt.Errorf("%w: discount percentage must be between 0 and 100, got %d", ErrInvalidArgument, percentage)
	}
	return DiscountPercent{percentage: percentage}, nil
}

// Percentage returns the discount percentage.
func (d DiscountPercent) Percentage() int64 {
	return d.percentage
}

// IsZero returns true when no discount applies.
func (d DiscountPercent) IsZero() bool {
	return d.percentage == 0
}

// multiplier returns (100 - percentage) / 100 as an exact decimal.
func (d DiscountPercent) multiplier() decimal.Decimal {
	return decimal.NewFromInt(100 - d.percentage).Shift(-2)
}
