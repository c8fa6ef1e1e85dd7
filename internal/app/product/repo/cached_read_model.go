package repo

import (
	"context"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
)

// CachedReadModel serves single-product reads from a ProductCache and fills
// it on miss. Listings always go to the underlying read model. A ticket is
// taken before every database read, so a fill racing a write is dropped.
type CachedReadModel struct {
	next  contracts.ReadModel
	cache contracts.ProductCache
}

// NewCachedReadModel wraps next with cache.
func NewCachedReadModel(next contracts.ReadModel, cache contracts.ProductCache) contracts.ReadModel {
	return &CachedReadModel{next: next, cache: cache}
}

func (rm *CachedReadModel) GetProduct(ctx context.Context, productID string) (*contracts.ProductDTO, error) {
	if dto, ok := rm.cache.Get(ctx, productID); ok {
		return dto, nil
	}

	ticket, fill := rm.cache.Ticket(ctx, productID)
	dto, err := rm.next.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if fill {
		rm.cache.Set(ctx, ticket, dto)
	}
	return dto, nil
}

func (rm *CachedReadModel) GetProducts(ctx context.Context, productIDs []string) (map[string]*contracts.ProductDTO, error) {
	result := make(map[string]*contracts.ProductDTO, len(productIDs))
	missing := make([]string, 0, len(productIDs))
	seen := make(map[string]bool, len(productIDs))

	for _, id := range productIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if dto, ok := rm.cache.Get(ctx, id); ok {
			result[id] = dto
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return result, nil
	}

	ticket, fill := rm.cache.Ticket(ctx, missing...)
	fetched, err := rm.next.GetProducts(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, dto := range fetched {
		if fill {
			rm.cache.Set(ctx, ticket, dto)
		}
		result[id] = dto
	}
	return result, nil
}

func (rm *CachedReadModel) ListProducts(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	return rm.next.ListProducts(ctx, filter)
}
