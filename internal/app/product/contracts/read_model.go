package contracts

import (
	"context"
	"fmt"
	"time"

	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/pkg/clock"
)

// ProductDTO is the stored pricing state of a product in a cache-friendly
// shape. Amounts are decimal strings; variant tables are already normalized.
type ProductDTO struct {
	ProductID               string            `json:"productId"`
	Name                    string            `json:"name"`
	Slug                    string            `json:"slug"`
	Description             string            `json:"description"`
	Category                string            `json:"category"`
	BasePrice               string            `json:"basePrice"`
	DiscountPercent         int64             `json:"discountPercent"`
	ComputedPrice           string            `json:"computedPrice"`
	VariantPrices           map[string]string `json:"variantPrices"`
	DiscountedVariantPrices map[string]string `json:"discountedVariantPrices"`
	AvailableVariantKeys    []string          `json:"availableVariantKeys"`
	DefaultVariantKey       string            `json:"defaultVariantKey"`
	Version                 int64             `json:"version"`
	CreatedAt               time.Time         `json:"createdAt"`
	UpdatedAt               time.Time         `json:"updatedAt"`
}

// Product rebuilds the aggregate so read paths can price it with the same
// code the write side uses.
func (d *ProductDTO) Product(clk clock.Clock) (*domain.Product, error) {
	base, err := domain.ParseMoney(d.BasePrice)
	if err != nil {
		return nil, fmt.Errorf("product %s base price: %w", d.ProductID, err)
	}
	computed, err := domain.ParseMoney(d.ComputedPrice)
	if err != nil {
		return nil, fmt.Errorf("product %s computed price: %w", d.ProductID, err)
	}
	discount, err := domain.NewDiscountPercent(d.DiscountPercent)
	if err != nil {
		return nil, fmt.Errorf("product %s discount: %w", d.ProductID, err)
	}
	prices, err := domain.NewVariantPrices(d.VariantPrices)
	if err != nil {
		return nil, fmt.Errorf("product %s variant prices: %w", d.ProductID, err)
	}
	discounted, err := domain.NewVariantPrices(d.DiscountedVariantPrices)
	if err != nil {
		return nil, fmt.Errorf("product %s discounted variant prices: %w", d.ProductID, err)
	}

	return domain.ReconstructProduct(domain.ProductState{
		ID:                      d.ProductID,
		Name:                    d.Name,
		Slug:                    d.Slug,
		Description:             d.Description,
		Category:                d.Category,
		BasePrice:               base,
		Discount:                discount,
		ComputedPrice:           computed,
		VariantPrices:           prices,
		DiscountedVariantPrices: discounted,
		AvailableVariantKeys:    d.AvailableVariantKeys,
		DefaultVariantKey:       d.DefaultVariantKey,
		Version:                 d.Version,
		CreatedAt:               d.CreatedAt,
		UpdatedAt:               d.UpdatedAt,
	}, clk), nil
}

// NewProductDTO captures the current state of p.
func NewProductDTO(p *domain.Product) *ProductDTO {
	return &ProductDTO{
		ProductID:               p.ID(),
		Name:                    p.Name(),
		Slug:                    p.Slug(),
		Description:             p.Description(),
		Category:                p.Category(),
		BasePrice:               p.BasePrice().String(),
		DiscountPercent:         p.Discount().Percentage(),
		ComputedPrice:           p.ComputedPrice().String(),
		VariantPrices:           p.VariantPrices().Strings(),
		DiscountedVariantPrices: p.DiscountedVariantPrices().Strings(),
		AvailableVariantKeys:    p.AvailableVariantKeys(),
		DefaultVariantKey:       p.DefaultVariantKey(),
		Version:                 p.Version(),
		CreatedAt:               p.CreatedAt(),
		UpdatedAt:               p.UpdatedAt(),
	}
}

// ListFilter defines filtering options for listing products.
type ListFilter struct {
	Category  string
	PageSize  int
	PageToken string
}

// ListResult contains a page of products.
type ListResult struct {
	Products      []*ProductDTO
	NextPageToken string
	TotalCount    int64
}

// ReadModel defines product queries. Read models bypass the aggregate.
type ReadModel interface {
	// GetProduct returns domain.ErrProductNotFound for unknown ids.
	GetProduct(ctx context.Context, productID string) (*ProductDTO, error)

	// GetProducts returns the products that exist, keyed by id.
	GetProducts(ctx context.Context, productIDs []string) (map[string]*ProductDTO, error)

	ListProducts(ctx context.Context, filter *ListFilter) (*ListResult, error)
}

// CacheTicket records the invalidation state of some products before they
// are read from the database. Set drops a fill whose ticket is outdated, so a
// read that raced a write never repopulates the cache with the old row.
type CacheTicket struct {
	Generation int64
	Stamps     map[string]int64
}

// ProductCache holds ProductDTOs between writes. Implementations log their
// own failures; a miss is always a safe answer.
type ProductCache interface {
	Get(ctx context.Context, productID string) (*ProductDTO, bool)
	// Ticket must be taken before the database read whose result is passed
	// to Set. ok is false when the cache cannot accept fills right now.
	Ticket(ctx context.Context, productIDs ...string) (ticket CacheTicket, ok bool)
	Set(ctx context.Context, ticket CacheTicket, dto *ProductDTO)
	Invalidate(ctx context.Context, productIDs ...string)
	InvalidateAll(ctx context.Context)
}

// EventDTO is an outbox row as shown to admins.
type EventDTO struct {
	EventID     string    `json:"eventId"`
	EventType   string    `json:"eventType"`
	AggregateID string    `json:"aggregateId"`
	Payload     any       `json:"payload"`
	Status      string    `json:"status"`
	RetryCount  int64     `json:"retryCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EventFilter narrows an outbox listing. Empty fields do not filter.
type EventFilter struct {
	EventType   string
	AggregateID string
	Status      string
	Limit       int64
}

// EventsReadModel lists outbox events.
type EventsReadModel interface {
	ListEvents(ctx context.Context, filter *EventFilter) ([]*EventDTO, error)
}
