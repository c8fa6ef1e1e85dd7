package contracts

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
)

// PriceHistoryRecord is one base price change.
type PriceHistoryRecord struct {
	HistoryID       string
	ProductID       string
	OldPrice        *domain.Money // nil for the initial price
	NewPrice        domain.Money
	DiscountPercent int64
	ChangedReason   string
	ChangedAt       time.Time
}

// PriceHistoryRepository defines price history persistence.
type PriceHistoryRepository interface {
	InsertMut(record *PriceHistoryRecord) *spanner.Mutation

	// GetByProductID returns the most recent changes first.
	GetByProductID(ctx context.Context, productID string, limit int) ([]*PriceHistoryRecord, error)
}
