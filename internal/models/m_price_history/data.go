package m_price_history

import (
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents a base price change. OldPrice is null for the initial price.
type Data struct {
	HistoryID     string              `spanner:"history_id"`
	ProductID     string              `spanner:"product_id"`
	OldPrice      spanner.NullNumeric `spanner:"old_price"`
	NewPrice      big.Rat             `spanner:"new_price"`
	DiscountPct   int64               `spanner:"discount_percent"`
	ChangedReason spanner.NullString  `spanner:"changed_reason"`
	ChangedAt     time.Time           `spanner:"changed_at"`
}

// Model provides type-safe database operations for price history.
type Model struct{}

// NewModel creates a new price history model.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a price history record.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		Columns(),
		[]any{
			data.HistoryID,
			data.ProductID,
			data.OldPrice,
			&data.NewPrice,
			data.DiscountPct,
			data.ChangedReason,
			data.ChangedAt,
		},
	)
}
