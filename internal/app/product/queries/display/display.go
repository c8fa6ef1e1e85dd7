// Package display turns stored product rows into priced views for the storefront.
package display

import (
	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/app/product/domain/services"
	"github.com/light-bringer/decant-catalog/internal/pkg/clock"
)

// ProductView is a product as a customer sees it for one variant selection.
type ProductView struct {
	*contracts.ProductDTO
	VariantKey   string `json:"variantKey,omitempty"`
	DisplayPrice string `json:"displayPrice"`
}

// Pricer resolves display prices through the same aggregate the write side uses.
type Pricer struct {
	clock   clock.Clock
	pricing *services.PricingCalculator
}

func NewPricer(clk clock.Clock) *Pricer {
	return &Pricer{clock: clk, pricing: services.NewPricingCalculator()}
}

// Product rebuilds the aggregate from dto.
func (p *Pricer) Product(dto *contracts.ProductDTO) (*domain.Product, error) {
	return dto.Product(p.clock)
}

// EffectiveVariantKey returns the variant a price refers to, empty for simple products.
func (p *Pricer) EffectiveVariantKey(product *domain.Product, selected string) string {
	if !product.IsVariantPriced() {
		return ""
	}
	return p.pricing.EffectiveVariantKey(product, selected)
}

// PricedVariantKey returns the variant the display price was taken from,
// empty when none was.
func (p *Pricer) PricedVariantKey(product *domain.Product, selected string) string {
	return p.pricing.PricedVariantKey(product, selected)
}

// Price returns the display price of product for the selected variant.
func (p *Pricer) Price(product *domain.Product, selected string) domain.Money {
	return p.pricing.ResolveDisplayPrice(product, selected)
}

// View prices dto for selected. An unknown selection falls back the same
// way ResolveDisplayPrice does, and VariantKey names what was actually priced.
func (p *Pricer) View(dto *contracts.ProductDTO, selected string) (*ProductView, error) {
	product, err := p.Product(dto)
	if err != nil {
		return nil, err
	}
	return &ProductView{
		ProductDTO:   dto,
		VariantKey:   p.PricedVariantKey(product, selected),
		DisplayPrice: p.Price(product, selected).String(),
	}, nil
}
