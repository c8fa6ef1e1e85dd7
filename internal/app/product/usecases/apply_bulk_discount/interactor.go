package apply_bulk_discount

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

// Request applies one discount to every product in Categories, or to the
// whole catalog when Categories is empty.
type Request struct {
	DiscountPercent int64
	Categories      []string
}

// Interactor handles the bulk discount use case.
type Interactor struct {
	repo        contracts.ProductRepository
	writer      *writeplan.Writer
	cache       contracts.ProductCache
	committer   committer.Transactor
	pricing     *services.PricingCalculator
	concurrency int
	logger      *zap.Logger
}

// NewInteractor creates a new bulk discount interactor.
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

// Execute validates the percentage, selects the matching products and
// reprices each one in its own transaction from a fresh read. Products
// deleted in between are reported in Result.Failed and do not stop the batch.
// When ctx is cancelled mid-batch the partial result comes back with
// bulkrun.ErrInterrupted.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*bulkrun.Result, error) {
	// 1. Validate before touching any product
	if _, err := i.pricing.ValidateBulkDiscount(req.DiscountPercent); err != nil {
		return nil, err
	}

	// 2. Select candidates
	ids, err := i.repo.SelectIDs(ctx, contracts.BulkSelection{Categories: req.Categories})
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}

	// 3. Reprice each product
	result, err := bulkrun.Run(ctx, ids, i.concurrency, i.logger, func(ctx context.Context, productID string) (bool, error) {
		var changed bool
		err := i.committer.ReadWrite(ctx, func(ctx context.Context, rd committer.Reader) (*committer.CommitPlan, error) {
			changed = false
			product, err := i.repo.Load(ctx, rd, productID)
			if err != nil {
				return nil, err
			}

			// The category may have changed since selection.
			updated, err := i.pricing.ApplyBulkDiscount([]*domain.Product{product}, req.DiscountPercent, req.Categories)
			if err != nil {
				return nil, err
			}
			if len(updated) == 0 {
				return nil, nil
			}

			changed = true
			return i.writer.UpdatePlan(product, "bulk_discount"), nil
		})
		return changed, err
	})

	// 4. Drop cached views, also after an interruption
	if result.Updated > 0 {
		i.cache.InvalidateAll(context.WithoutCancel(ctx))
	}

	i.logger.Info("bulk discount applied",
		zap.Int64("discount_percent", req.DiscountPercent),
		zap.Strings("categories", req.Categories),
		zap.Int("selected", len(ids)),
		zap.Int("updated", result.Updated),
		zap.Int("failed", len(result.Failed)),
		zap.Int("pending", len(result.Pending)),
		zap.Error(err))

	return result, err
}
