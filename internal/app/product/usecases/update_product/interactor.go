package update_product

import (
	"context"
	"fmt"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/writeplan"
	"github.com/light-bringer/decant-catalog/internal/pkg/clock"
	"github.com/light-bringer/decant-catalog/internal/pkg/committer"
)

// Request contains the data to update a product. nil means no change.
type Request struct {
	ProductID            string
	Name                 *string
	Description          *string
	Category             *string
	BasePrice            *domain.Money
	VariantPrices        *domain.VariantPrices
	AvailableVariantKeys *[]string
	DefaultVariantKey    *string
	DiscountPercent      *int64
}

// Interactor handles the update product use case.
type Interactor struct {
	repo      contracts.ProductRepository
	writer    *writeplan.Writer
	cache     contracts.ProductCache
	committer committer.Transactor
}

// NewInteractor creates a new update product interactor.
func NewInteractor(
	repo contracts.ProductRepository,
	outboxRepo contracts.OutboxRepository,
	historyRepo contracts.PriceHistoryRepository,
	cache contracts.ProductCache,
	committer committer.Transactor,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		repo:      repo,
		writer:    writeplan.NewWriter(repo, outboxRepo, historyRepo, clock),
		cache:     cache,
		committer: committer,
	}
}

// Execute edits a product inside one read-write transaction. Prices are
// re-derived from the freshly read row, never from what the caller last saw.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*contracts.ProductDTO, error) {
	var discount *domain.DiscountPercent
	if req.DiscountPercent != nil {
		d, err := domain.NewDiscountPercent(*req.DiscountPercent)
		if err != nil {
			return nil, err
		}
		discount = &d
	}

	var updated *contracts.ProductDTO
	err := i.committer.ReadWrite(ctx, func(ctx context.Context, rd committer.Reader) (*committer.CommitPlan, error) {
		// 1. Load aggregate
		product, err := i.repo.Load(ctx, rd, req.ProductID)
		if err != nil {
			return nil, err
		}

		// 2. Call domain methods
		if err := apply(product, req, discount); err != nil {
			return nil, err
		}

		// 3. Row, outbox and price history
		plan := i.writer.UpdatePlan(product, "updated")
		updated = contracts.NewProductDTO(product)
		return plan, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", req.ProductID, err)
	}

	i.cache.Invalidate(ctx, req.ProductID)
	return updated, nil
}

// apply runs the edits in dependency order: the category decides whether
// variant fields are accepted, and the variant table decides which keys exist.
func apply(product *domain.Product, req *Request, discount *domain.DiscountPercent) error {
	if req.Name != nil {
		if err := product.SetName(*req.Name); err != nil {
			return err
		}
	}
	if req.Description != nil {
		if err := product.SetDescription(*req.Description); err != nil {
			return err
		}
	}
	if req.Category != nil {
		if err := product.SetCategory(*req.Category); err != nil {
			return err
		}
	}
	if req.VariantPrices != nil {
		if err := product.SetVariantPrices(*req.VariantPrices); err != nil {
			return err
		}
	}
	if req.BasePrice != nil {
		if err := product.SetBasePrice(*req.BasePrice); err != nil {
			return err
		}
	}
	if req.AvailableVariantKeys != nil {
		if err := product.SetAvailableVariantKeys(*req.AvailableVariantKeys); err != nil {
			return err
		}
	}
	if req.DefaultVariantKey != nil {
		if err := product.SetDefaultVariantKey(*req.DefaultVariantKey); err != nil {
			return err
		}
	}
	if discount != nil {
		if err := product.SetDiscount(*discount); err != nil {
			return err
		}
	}
	return nil
}
