package quote_cart

import (
	"context"
	"fmt"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/display"
)

// Line is one cart entry. VariantKey may be empty to use the product default.
type Line struct {
	ProductID  string
	VariantKey string
	Quantity   int64
}

// Request is a cart to price.
type Request struct {
	Lines []Line
}

// QuotedLine is a priced cart entry.
type QuotedLine struct {
	ProductID  string       `json:"productId"`
	Name       string       `json:"name"`
	VariantKey string       `json:"variantKey,omitempty"`
	Quantity   int64        `json:"quantity"`
	UnitPrice  domain.Money `json:"unitPrice"`
	LineTotal  domain.Money `json:"lineTotal"`
}

// Response is the quoted cart.
type Response struct {
	Lines []QuotedLine `json:"lines"`
	Total domain.Money `json:"total"`
}

// Query prices a cart with the same rule the storefront uses for display.
type Query struct {
	readModel contracts.ReadModel
	pricer    *display.Pricer
}

// NewQuery creates a new cart quote query. readModel should read the
// database directly: what a customer is charged must never come from a cache.
func NewQuery(readModel contracts.ReadModel, pricer *display.Pricer) *Query {
	return &Query{readModel: readModel, pricer: pricer}
}

// Execute quotes every line. Unlike the product view, a checkout must not
// fall back silently, so an unavailable variant fails the quote.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: cart has no lines", domain.ErrInvalidArgument)
	}

	ids := make([]string, 0, len(req.Lines))
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity of %s must be positive, got %d", domain.ErrInvalidArgument, line.ProductID, line.Quantity)
		}
		ids = append(ids, line.ProductID)
	}

	dtos, err := q.readModel.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Lines: make([]QuotedLine, 0, len(req.Lines)),
		Total: domain.Zero,
	}
	for _, line := range req.Lines {
		dto, ok := dtos[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, line.ProductID)
		}

		product, err := q.pricer.Product(dto)
		if err != nil {
			return nil, err
		}

		key := q.pricer.EffectiveVariantKey(product, line.VariantKey)
		if product.IsVariantPriced() && !product.IsVariantAvailable(key) {
			return nil, fmt.Errorf("%w: %s of %s", domain.ErrVariantNotAvailable, key, line.ProductID)
		}
		if !product.IsVariantPriced() && line.VariantKey != "" {
			return nil, fmt.Errorf("%w: %s has no variants", domain.ErrNotVariantProduct, line.ProductID)
		}

		unit := q.pricer.Price(product, key)
		total := unit.Mul(line.Quantity)
		resp.Lines = append(resp.Lines, QuotedLine{
			ProductID:  line.ProductID,
			Name:       product.Name(),
			VariantKey: key,
			Quantity:   line.Quantity,
			UnitPrice:  unit,
			LineTotal:  total,
		})
		resp.Total = resp.Total.Add(total)
	}

	return resp, nil
}
