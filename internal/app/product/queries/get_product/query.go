package get_product

import (
	"context"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/display"
)

// Request contains the product ID and an optional variant selection.
type Request struct {
	ProductID  string
	VariantKey string
}

// Query handles the get product query use case.
type Query struct {
	readModel contracts.ReadModel
	pricer    *display.Pricer
}

// NewQuery creates a new get product query.
func NewQuery(readModel contracts.ReadModel, pricer *display.Pricer) *Query {
	return &Query{
		readModel: readModel,
		pricer:    pricer,
	}
}

// Execute retrieves a product by ID with its display price.
func (q *Query) Execute(ctx context.Context, req *Request) (*display.ProductView, error) {
	dto, err := q.readModel.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	return q.pricer.View(dto, req.VariantKey)
}
