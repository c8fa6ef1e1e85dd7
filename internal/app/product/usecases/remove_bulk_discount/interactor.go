package remove_bulk_discount

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/app/product/domain/services"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/bulkrun"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/writeplan"
	"github.com/light-bringer/decant-catalog/internal/pkg/clock"
	"github.com/light-bringer/decant-catalog/internal/pkg/committer"
)

// Request clears the discount of discounted products in Categories, or in
// the whole catalog when Categories is empty.
type Request struct {
	Categories []string
}

// Interactor handles the bulk discount removal use case.
type Interactor struct {
	repo        contracts.ProductRepository
	writer      *writeplan.Writer
	cache       contracts.ProductCache
	committer   committer.Transactor
	pricing     *services.PricingCalculator
	concurrency int
	logger      *zap.Logger
}

// NewInteractor creates a new bulk discount removal interactor.
func NewInteractor(
	repo contracts.ProductRepository,
	outboxRepo contracts.OutboxRepository,
	historyRepo contracts.PriceHistoryRepository,
	cache contracts.ProductCache,
	committer committer.Transactor,
	clock clock.Clock,
	concurrency int,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		repo:        repo,
		writer:      writeplan.NewWriter(repo, outboxRepo, historyRepo, clock),
		cache:       cache,
		committer:   committer,
		pricing:     services.NewPricingCalculator(),
		concurrency: concurrency,
		logger:      logger,
	}
}

// Execute resets matching discounted products to their undiscounted prices.
// Products that lost their discount since selection are skipped, not failed.
// When ctx is cancelled mid-batch the partial result comes back with
// bulkrun.ErrInterrupted.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*bulkrun.Result, error) {
	// 1. Select candidates
	ids, err := i.repo.SelectIDs(ctx, contracts.BulkSelection{
		Categories:     req.Categories,
		DiscountedOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}

	// 2. Reprice each product
	result, err := bulkrun.Run(ctx, ids, i.concurrency, i.logger, func(ctx context.Context, productID string) (bool, error) {
		var changed bool
		err := i.committer.ReadWrite(ctx, func(ctx context.Context, rd committer.Reader) (*committer.CommitPlan, error) {
			changed = false
			product, err := i.repo.Load(ctx, rd, productID)
			if err != nil {
				return nil, err
			}

			updated, err := i.pricing.RemoveBulkDiscount([]*domain.Product{product}, req.Categories)
			if err != nil {
				return nil, err
			}
			if len(updated) == 0 {
				return nil, nil
			}

			changed = true
			return i.writer.UpdatePlan(product, "bulk_discount_removed"), nil
		})
		return changed, err
	})

	// 3. Drop cached views, also after an interruption
	if result.Updated > 0 {
		i.cache.InvalidateAll(context.WithoutCancel(ctx))
	}

	i.logger.Info("bulk discount removed",
		zap.Strings("categories", req.Categories),
		zap.Int("selected", len(ids)),
		zap.Int("updated", result.Updated),
		zap.Int("failed", len(result.Failed)),
		zap.Int("pending", len(result.Pending)),
		zap.Error(err))

	return result, err
}
