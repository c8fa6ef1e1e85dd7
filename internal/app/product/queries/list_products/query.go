package list_products

import (
	"context"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/display"
)

// Request contains filtering and pagination parameters. VariantKey is
// applied to every variant-priced product on the page.
type Request struct {
	Category   string
	VariantKey string
	PageSize   int
	PageToken  string
}

// Response is a page of priced products.
type Response struct {
	Products      []*display.ProductView `json:"products"`
	NextPageToken string                 `json:"nextPageToken,omitempty"`
	TotalCount    int64                  `json:"totalCount"`
}

// Query handles the list products query use case.
type Query struct {
	readModel contracts.ReadModel
	pricer    *display.Pricer
}

// NewQuery creates a new list products query.
func NewQuery(readModel contracts.ReadModel, pricer *display.Pricer) *Query {
	return &Query{
		readModel: readModel,
		pricer:    pricer,
	}
}

// Execute retrieves a paginated list of products with display prices.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	filter := &contracts.ListFilter{
		Category:  req.Category,
		PageSize:  req.PageSize,
		PageToken: req.PageToken,
	}

	result, err := q.readModel.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Products:      make([]*display.ProductView, 0, len(result.Products)),
		NextPageToken: result.NextPageToken,
		TotalCount:    result.TotalCount,
	}
	for _, dto := range result.Products {
		view, err := q.pricer.View(dto, req.VariantKey)
		if err != nil {
			return nil, err
		}
		resp.Products = append(resp.Products, view)
	}
	return resp, nil
}
