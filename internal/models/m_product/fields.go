package m_product

// Field name constants for the products table.
const (
	TableName = "products"

	ProductID               = "product_id"
	Name                    = "name"
	Slug                    = "slug"
	Description             = "description"
	Category                = "category"
	BasePrice               = "base_price"
	DiscountPercent         = "discount_percent"
	ComputedPrice           = "computed_price"
	VariantPrices           = "variant_prices"
	DiscountedVariantPrices = "discounted_variant_prices"
	AvailableVariantKeys    = "available_variant_keys"
	DefaultVariantKey       = "default_variant_key"
	Version                 = "version"
	CreatedAt               = "created_at"
	UpdatedAt               = "updated_at"
)

// Columns lists every column in Data order.
func Columns() []string {
	return []string{
		ProductID,
		Name,
		Slug,
		Description,
		Category,
		BasePrice,
		DiscountPercent,
		ComputedPrice,
		VariantPrices,
		DiscountedVariantPrices,
		AvailableVariantKeys,
		DefaultVariantKey,
		Version,
		CreatedAt,
		UpdatedAt,
	}
}
