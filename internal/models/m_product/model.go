package m_product

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the products table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a product.
// Timestamps are set to the commit timestamp.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		Columns(),
		[]any{
			data.ProductID,
			data.Name,
			data.Slug,
			data.Description,
			data.Category,
			&data.BasePrice,
			data.DiscountPercent,
			&data.ComputedPrice,
			data.VariantPrices,
			data.DiscountedVariantPrices,
			data.AvailableVariantKeys,
			data.DefaultVariantKey,
			data.Version,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific product fields.
// updated_at is always set to the commit timestamp.
func (m *Model) UpdateMut(productID string, updates map[string]any) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	updates[UpdatedAt] = spanner.CommitTimestamp

	columns := make([]string, 0, len(updates)+1)
	values := make([]any, 0, len(updates)+1)

	columns = append(columns, ProductID)
	values = append(values, productID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}
