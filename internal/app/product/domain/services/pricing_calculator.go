package services

import (
	"fmt"

	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
)

// PricingCalculator is a domain service for pricing decisions that span more
// than one product or need a variant selection. Per-product arithmetic stays
// in domain.PricingCalculator.
type PricingCalculator struct{}

// NewPricingCalculator creates a new PricingCalculator.
func NewPricingCalculator() *PricingCalculator {
	return &PricingCalculator{}
}

// ValidateBulkDiscount checks the top-level percentage of a bulk operation.
// It fails with domain.ErrValidation so no per-product work starts.
func (pc *PricingCalculator) ValidateBulkDiscount(percentage int64) (domain.DiscountPercent, error) {
	d, err := domain.NewDiscountPercent(percentage)
	if err != nil {
		return domain.DiscountPercent{}, fmt.Errorf("%w: discount percentage must be between 0 and 100, got %d", domain.ErrValidation, percentage)
	}
	return d, nil
}

// MatchesCategories reports whether p falls into the filter. An empty filter matches everything.
func (pc *PricingCalculator) MatchesCategories(p *domain.Product, categories []string) bool {
	if len(categories) == 0 {
		return true
	}
	for _, c := range categories {
		if p.Category() == c {
			return true
		}
	}
	return false
}

// ApplyDiscountTo re-derives one product's pricing from its current raw
// prices and the given discount.
func (pc *PricingCalculator) ApplyDiscountTo(p *domain.Product, discount domain.DiscountPercent) error {
	if err := p.SetDiscount(discount); err != nil {
		return fmt.Errorf("product %s: %w", p.ID(), err)
	}
	return nil
}

// RemoveDiscountFrom resets one product's discount. It returns false without
// touching the product when no discount is set.
func (pc *PricingCalculator) RemoveDiscountFrom(p *domain.Product) (bool, error) {
	if !p.HasDiscount() {
		return false, nil
	}
	if err := p.RemoveDiscount(); err != nil {
		return false, fmt.Errorf("product %s: %w", p.ID(), err)
	}
	return true, nil
}

// ApplyBulkDiscount sets the discount on every product matching categories
// and returns the updated subset in input order. Products outside the filter
// are left untouched.
func (pc *PricingCalculator) ApplyBulkDiscount(products []*domain.Product, percentage int64, categories []string) ([]*domain.Product, error) {
	discount, err := pc.ValidateBulkDiscount(percentage)
	if err != nil {
		return nil, err
	}

	updated := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if !pc.MatchesCategories(p, categories) {
			continue
		}
		if err := pc.ApplyDiscountTo(p, discount); err != nil {
			return nil, err
		}
		updated = append(updated, p)
	}
	return updated, nil
}

// RemoveBulkDiscount clears the discount of every discounted product matching
// categories. Products without a discount are excluded from the result.
func (pc *PricingCalculator) RemoveBulkDiscount(products []*domain.Product, categories []string) ([]*domain.Product, error) {
	updated := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if !pc.MatchesCategories(p, categories) {
			continue
		}
		changed, err := pc.RemoveDiscountFrom(p)
		if err != nil {
			return nil, err
		}
		if changed {
			updated = append(updated, p)
		}
	}
	return updated, nil
}

// EffectiveVariantKey picks the variant a display price refers to:
// the selection, else the default key, else the first available key.
func (pc *PricingCalculator) EffectiveVariantKey(p *domain.Product, selectedVariantKey string) string {
	if selectedVariantKey != "" {
		return selectedVariantKey
	}
	if key := p.DefaultVariantKey(); key != "" {
		return key
	}
	if keys := p.AvailableVariantKeys(); len(keys) > 0 {
		return keys[0]
	}
	return ""
}

// PricedVariantKey names the variant whose price ResolveDisplayPrice returns
// for the selection, or empty when it falls back to the base price.
func (pc *PricingCalculator) PricedVariantKey(p *domain.Product, selectedVariantKey string) string {
	if !p.IsVariantPriced() {
		return ""
	}
	if key := pc.EffectiveVariantKey(p, selectedVariantKey); p.VariantPrices().Has(key) {
		return key
	}
	return ""
}

// ResolveDisplayPrice returns "the" price shown for a product tile or charged
// for a line item. Variant tables must already be normalized.
func (pc *PricingCalculator) ResolveDisplayPrice(p *domain.Product, selectedVariantKey string) domain.Money {
	if !p.IsVariantPriced() {
		if p.HasDiscount() {
			return p.ComputedPrice()
		}
		return p.BasePrice()
	}

	key := pc.EffectiveVariantKey(p, selectedVariantKey)
	if p.HasDiscount() {
		if price, ok := p.DiscountedVariantPrices()[key]; ok {
			return price
		}
	}
	if price, ok := p.VariantPrices()[key]; ok {
		return price
	}
	return p.BasePrice()
}
