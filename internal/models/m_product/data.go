package m_product

import (
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents a row of the products table.
// Amounts are NUMERIC; variant tables are JSON objects of decimal strings,
// though older rows may hold arrays of [key, value] pairs.
type Data struct {
	ProductID               string             `spanner:"product_id"`
	Name                    string             `spanner:"name"`
	Slug                    string             `spanner:"slug"`
	Description             string             `spanner:"description"`
	Category                string             `spanner:"category"`
	BasePrice               big.Rat            `spanner:"base_price"`
	DiscountPercent         int64              `spanner:"discount_percent"`
	ComputedPrice           big.Rat            `spanner:"computed_price"`
	VariantPrices           spanner.NullJSON   `spanner:"variant_prices"`
	DiscountedVariantPrices spanner.NullJSON   `spanner:"discounted_variant_prices"`
	AvailableVariantKeys    []string           `spanner:"available_variant_keys"`
	DefaultVariantKey       spanner.NullString `spanner:"default_variant_key"`
	Version                 int64              `spanner:"version"`
	CreatedAt               time.Time          `spanner:"created_at"`
	UpdatedAt               time.Time          `spanner:"updated_at"`
}
