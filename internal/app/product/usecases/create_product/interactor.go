package create_product

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/writeplan"
	"github.com/light-bringer/decant-catalog/internal/pkg/clock"
	"github.com/light-bringer/decant-catalog/internal/pkg/committer"
)

// Request contains the data needed to create a product.
// VariantPrices is only allowed for the Decants category.
type Request struct {
	Name          string
	Description   string
	Category      string
	BasePrice     domain.Money
	VariantPrices domain.VariantPrices
}

// Interactor handles the create product use case.
type Interactor struct {
	writer    *writeplan.Writer
	committer committer.Transactor
	clock     clock.Clock
}

// NewInteractor creates a new create product interactor.
func NewInteractor(
	repo contracts.ProductRepository,
	outboxRepo contracts.OutboxRepository,
	historyRepo contracts.PriceHistoryRepository,
	committer committer.Transactor,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		writer:    writeplan.NewWriter(repo, outboxRepo, historyRepo, clock),
		committer: committer,
		clock:     clock,
	}
}

// Execute creates a new product and returns its stored state.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*contracts.ProductDTO, error) {
	// 1. Build aggregate
	productID := uuid.New().String()
	product, err := domain.NewProduct(
		productID,
		req.Name,
		Slug(req.Name, productID),
		req.Description,
		req.Category,
		req.BasePrice,
		req.VariantPrices,
		i.clock.Now(),
		i.clock,
	)
	if err != nil {
		return nil, err
	}

	// 2. Insert row, initial price history and outbox events in one commit
	if err := i.committer.Apply(ctx, i.writer.InsertPlan(product)); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return contracts.NewProductDTO(product), nil
}

// Slug derives a URL slug that stays unique when names collide.
func Slug(name, productID string) string {
	suffix := productID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	base := slug.Make(name)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
