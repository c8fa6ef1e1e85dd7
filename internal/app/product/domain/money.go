package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a non-negative amount in the store's currency unit.
// It wraps decimal.Decimal so prices entered with subunits survive storage,
// while discounted prices are rounded to whole units.
type Money struct {
	amount decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{amount: decimal.Zero}

// NewMoney creates Money from a decimal amount.
// Returns ErrInvalidArgument for negative amounts.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: amount must not be negative, got %s", ErrInvalidArgument, amount.String())
	}
	return Money{amount: amount}, nil
}

// NewMoneyFromInt creates Money from a whole number of currency units.
func NewMoneyFromInt(units int64) (Money, error) {
	return NewMoney(decimal.NewFromInt(units))
}

// ParseMoney parses a decimal string such as "1500" or "12.50".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: invalid amount %q", ErrInvalidArgument, s)
	}
	return NewMoney(d)
}

// MustMoney is NewMoneyFromInt for constants and tests. It panics on negative input.
func MustMoney(units int64) Money {
	m, err := NewMoneyFromInt(units)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Mul multiplies the amount by a quantity.
func (m Money) Mul(quantity int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(quantity))}
}

// Add adds two amounts.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// RoundToUnit rounds half-up to the nearest whole currency unit.
// decimal rounds half away from zero, which is half-up for non-negative amounts.
func (m Money) RoundToUnit() Money {
	return Money{amount: m.amount.Round(0)}
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Equals compares two amounts numerically, so "900" equals "900.00".
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// LessThan returns true if m < other.
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// GreaterThanOrEqual returns true if m >= other.
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

// String returns the canonical decimal representation.
func (m Money) String() string {
	return m.amount.String()
}

// MarshalJSON encodes the amount as a decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.amount.MarshalJSON()
}
