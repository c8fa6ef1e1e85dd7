// Package writeplan turns a mutated Product into the single commit plan that
// persists it: the product row, its outbox events and its price history.
package writeplan

import (
	"github.com/google/uuid"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/pkg/clock"
	"github.com/light-bringer/decant-catalog/internal/pkg/committer"
)

// Writer builds commit plans for products.
type Writer struct {
	repo    contracts.ProductRepository
	outbox  contracts.OutboxRepository
	history contracts.PriceHistoryRepository
	clock   clock.Clock
}

func NewWriter(
	repo contracts.ProductRepository,
	outbox contracts.OutboxRepository,
	history contracts.PriceHistoryRepository,
	clk clock.Clock,
) *Writer {
	return &Writer{repo: repo, outbox: outbox, history: history, clock: clk}
}

// InsertPlan persists a newly created product and records its initial price.
func (w *Writer) InsertPlan(product *domain.Product) *committer.CommitPlan {
	plan := committer.NewPlan()
	plan.Add(w.repo.InsertMut(product))
	plan.Add(w.history.InsertMut(&contracts.PriceHistoryRecord{
		HistoryID:       uuid.New().String(),
		ProductID:       product.ID(),
		NewPrice:        product.BasePrice(),
		DiscountPercent: product.Discount().Percentage(),
		ChangedReason:   "created",
		ChangedAt:       w.clock.Now(),
	}))
	w.addEvents(plan, product, "")
	return plan
}

// UpdatePlan persists the dirty fields of product and advances its version
// to the one being written. It returns nil when the product has no changes,
// so callers commit nothing.
func (w *Writer) UpdatePlan(product *domain.Product, reason string) *committer.CommitPlan {
	mut := w.repo.UpdateMut(product)
	if mut == nil {
		return nil
	}
	product.IncrementVersion()

	plan := committer.NewPlan()
	plan.Add(mut)
	w.addEvents(plan, product, reason)
	return plan
}

func (w *Writer) addEvents(plan *committer.CommitPlan, product *domain.Product, reason string) {
	for _, event := range product.DomainEvents() {
		plan.Add(w.outbox.InsertMut(w.outbox.EnrichEvent(event)))

		changed, ok := event.(*domain.PriceChangedEvent)
		if !ok {
			continue
		}
		old := changed.OldBasePrice
		plan.Add(w.history.InsertMut(&contracts.PriceHistoryRecord{
			HistoryID:       uuid.New().String(),
			ProductID:       product.ID(),
			OldPrice:        &old,
			NewPrice:        changed.NewBasePrice,
			DiscountPercent: product.Discount().Percentage(),
			ChangedReason:   reason,
			ChangedAt:       changed.ChangedAt,
		}))
	}
}
