package get_price_history

import (
	"context"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
)

// Request selects a product's history.
type Request struct {
	ProductID string
	Limit     int
}

// Query handles the price history query.
type Query struct {
	readModel contracts.ReadModel
	history   contracts.PriceHistoryRepository
}

// NewQuery creates a new price history query.
func NewQuery(readModel contracts.ReadModel, history contracts.PriceHistoryRepository) *Query {
	return &Query{readModel: readModel, history: history}
}

// Execute returns base price changes, newest first. Unknown products fail
// with domain.ErrProductNotFound rather than an empty list.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*contracts.PriceHistoryRecord, error) {
	if _, err := q.readModel.GetProduct(ctx, req.ProductID); err != nil {
		return nil, err
	}
	return q.history.GetByProductID(ctx, req.ProductID, req.Limit)
}
