package domain

import "github.com/shopspring/decimal"

// PricingCalculator is the single place where discount arithmetic happens.
// Storage hooks, handlers and read models all call it instead of computing
// final prices on their own. It holds no state and is safe for concurrent use.
type PricingCalculator struct{}

// NewPricingCalculator creates a new PricingCalculator instance.
func NewPricingCalculator() *PricingCalculator {
	return &PricingCalculator{}
}

// Package-level calculator instance for domain object use
var defaultPricingCalculator = NewPricingCalculator()

// SimplePricing is the derived state of a single-price product.
type SimplePricing struct {
	ComputedPrice Money
}

// VariantPricing is the derived state of a variant-priced product.
type VariantPricing struct {
	// DiscountedVariantPrices is empty (never nil) when no discount applies.
	DiscountedVariantPrices VariantPrices
	// CanonicalBasePrice is nil when the canonical variant has no price;
	// callers keep their previous base price in that case.
	CanonicalBasePrice *Money
}

// ApplyDiscount returns round(amount * (1 - percent/100)) with half-up rounding.
// A zero discount returns the amount untouched, without rounding.
func (pc *PricingCalculator) ApplyDiscount(amount Money, discount DiscountPercent) (Money, error) {
	if amount.amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	if discount.percentage < 0 || discount.percentage > 100 {
		return Money{}, ErrInvalidDiscountPercent
	}
	if discount.IsZero() {
		return amount, nil
	}
	return Money{amount: amount.amount.Mul(discount.multiplier())}.RoundToUnit(), nil
}

// DeriveSimplePricing computes the stored price of a non-variant product.
func (pc *PricingCalculator) DeriveSimplePricing(basePrice Money, discount DiscountPercent) (SimplePricing, error) {
	computed, err := pc.ApplyDiscount(basePrice, discount)
	if err != nil {
		return SimplePricing{}, err
	}
	return SimplePricing{ComputedPrice: computed}, nil
}

// DeriveVariantPricing computes the discounted variant table and the canonical base price.
func (pc *PricingCalculator) DeriveVariantPricing(prices VariantPrices, discount DiscountPercent) (VariantPricing, error) {
	result := VariantPricing{DiscountedVariantPrices: VariantPrices{}}

	for _, key := range prices.Keys() {
		price := prices[key]
		discounted, err := pc.ApplyDiscount(price, discount)
		if err != nil {
			return VariantPricing{}, err
		}
		if !discount.IsZero() {
			result.DiscountedVariantPrices[key] = discounted
		}
	}

	if canonical, ok := prices[CanonicalVariantKey]; ok {
		base := canonical
		result.CanonicalBasePrice = &base
	}

	return result, nil
}

// ApplyDiscount applies a discount using the package-level calculator.
func ApplyDiscount(amount Money, discount DiscountPercent) (Money, error) {
	return defaultPricingCalculator.ApplyDiscount(amount, discount)
}

// DeriveSimplePricing derives simple pricing using the package-level calculator.
func DeriveSimplePricing(basePrice Money, discount DiscountPercent) (SimplePricing, error) {
	return defaultPricingCalculator.DeriveSimplePricing(basePrice, discount)
}

// DeriveVariantPricing derives variant pricing using the package-level calculator.
func DeriveVariantPricing(prices VariantPrices, discount DiscountPercent) (VariantPricing, error) {
	return defaultPricingCalculator.DeriveVariantPricing(prices, discount)
}

// ApplyPercent validates raw inputs and applies the discount. It is the entry
// point for callers holding unvalidated numbers (request payloads, CLI flags).
func (pc *PricingCalculator) ApplyPercent(amount decimal.Decimal, percentage int64) (Money, error) {
	m, err := NewMoney(amount)
	if err != nil {
		return Money{}, err
	}
	d, err := NewDiscountPercent(percentage)
	if err != nil {
		return Money{}, err
	}
	return pc.ApplyDiscount(m, d)
}
