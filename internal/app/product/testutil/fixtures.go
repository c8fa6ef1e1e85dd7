package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/pkg/clock"
)

// ProductBuilder creates committed-looking products for tests.
type ProductBuilder struct {
	id            string
	name          string
	category      string
	basePrice     int64
	variantPrices map[string]int64
	discount      int64
}

// NewProductBuilder starts with a simple, undiscounted product priced 1000.
func NewProductBuilder(id string) *ProductBuilder {
	return &ProductBuilder{
		id:        id,
		name:      "Test Product " + id,
		category:  "Perfumes",
		basePrice: 1000,
	}
}

func (b *ProductBuilder) WithName(name string) *ProductBuilder {
	b.name = name
	return b
}

func (b *ProductBuilder) WithCategory(category string) *ProductBuilder {
	b.category = category
	return b
}

func (b *ProductBuilder) WithBasePrice(units int64) *ProductBuilder {
	b.basePrice = units
	return b
}

// WithVariants switches the product to the Decants category.
func (b *ProductBuilder) WithVariants(prices map[string]int64) *ProductBuilder {
	b.category = domain.VariantCategory
	b.variantPrices = prices
	return b
}

func (b *ProductBuilder) WithDiscount(percent int64) *ProductBuilder {
	b.discount = percent
	return b
}

// Build returns the product with its change tracker and events cleared.
func (b *ProductBuilder) Build(t *testing.T, clk clock.Clock) *domain.Product {
	t.Helper()

	prices := domain.VariantPrices{}
	for k, v := range b.variantPrices {
		prices[k] = domain.MustMoney(v)
	}

	p, err := domain.NewProduct(b.id, b.name, b.id, "", b.category, domain.MustMoney(b.basePrice), prices, clk.Now(), clk)
	require.NoError(t, err)

	if b.discount > 0 {
		d, err := domain.NewDiscountPercent(b.discount)
		require.NoError(t, err)
		require.NoError(t, p.SetDiscount(d))
	}

	p.Changes().Clear()
	p.ClearEvents()
	return p
}

// NewClock returns a mock clock at a fixed instant.
func NewClock() *clock.MockClock {
	return clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
}
