package m_price_history

const TableName = "price_history"

// Field name constants for the price_history table.
const (
	HistoryID     = "history_id"
	ProductID     = "product_id"
	OldPrice      = "old_price"
	NewPrice      = "new_price"
	DiscountPct   = "discount_percent"
	ChangedReason = "changed_reason"
	ChangedAt     = "changed_at"
)

// Columns lists every column in Data order.
func Columns() []string {
	return []string{
		HistoryID,
		ProductID,
		OldPrice,
		NewPrice,
		DiscountPct,
		ChangedReason,
		ChangedAt,
	}
}
