package update_discount

import (
	"context"
	"fmt"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/writeplan"
	"github.com/light-bringer/decant-catalog/internal/pkg/clock"
	"github.com/light-bringer/decant-catalog/internal/pkg/committer"
)

// Request sets a product's discount, optionally together with a new base price.
// A zero DiscountPercent removes the discount.
type Request struct {
	ProductID       string
	DiscountPercent int64
	BasePrice       *domain.Money
}

// Interactor handles the single product discount edit.
type Interactor struct {
	repo      contracts.ProductRepository
	writer    *writeplan.Writer
	cache     contracts.ProductCache
	committer committer.Transactor
}

// NewInteractor creates a new update discount interactor.
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

// Execute re-reads the product, applies the discount to its current raw
// prices and writes the derived prices back in the same transaction.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*contracts.ProductDTO, error) {
	// 1. Create discount value object
	discount, err := domain.NewDiscountPercent(req.DiscountPercent)
	if err != nil {
		return nil, err
	}

	var updated *contracts.ProductDTO
	err = i.committer.ReadWrite(ctx, func(ctx context.Context, rd committer.Reader) (*committer.CommitPlan, error) {
		// 2. Load aggregate
		product, err := i.repo.Load(ctx, rd, req.ProductID)
		if err != nil {
			return nil, err
		}

		// 3. Call domain methods
		if req.BasePrice != nil {
			if err := product.SetBasePrice(*req.BasePrice); err != nil {
				return nil, err
			}
		}
		if err := product.SetDiscount(discount); err != nil {
			return nil, err
		}

		// 4. Row, outbox and price history
		plan := i.writer.UpdatePlan(product, "discount")
		updated = contracts.NewProductDTO(product)
		return plan, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update discount of product %s: %w", req.ProductID, err)
	}

	i.cache.Invalidate(ctx, req.ProductID)
	return updated, nil
}
