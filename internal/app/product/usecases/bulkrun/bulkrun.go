// Package bulkrun reprices many products concurrently, one transaction per
// product, and collects per-product outcomes in selection order.
package bulkrun

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
)

// ErrInterrupted is returned, together with the partial Result, when ctx is
// cancelled before every product was repriced.
var ErrInterrupted = errors.New("bulk repricing interrupted")

// Outcome of one product.
type Outcome int

const (
	Pending Outcome = iota
	Skipped
	Updated
	Failed
)

// StepFunc reprices one product. It reports whether anything was written.
type StepFunc func(ctx context.Context, productID string) (bool, error)

// Failure is a product the batch could not update.
type Failure struct {
	ProductID string
	Err       error
}

// Result summarizes a batch. UpdatedIDs, Failed and Pending keep selection
// order. Pending lists products never attempted because the batch was
// interrupted.
type Result struct {
	Updated    int
	UpdatedIDs []string
	Failed     []Failure
	Pending    []string
}

// NotFound returns the failures caused by products that vanished mid-batch.
func (r *Result) NotFound() []Failure {
	out := make([]Failure, 0)
	for _, f := range r.Failed {
		if errors.Is(f.Err, domain.ErrProductNotFound) {
			out = append(out, f)
		}
	}
	return out
}

// Run calls step for every id with at most limit calls in flight.
// A failing product never stops the others; only cancellation of ctx does,
// in which case the committed part is still reported next to ErrInterrupted.
func Run(ctx context.Context, ids []string, limit int, logger *zap.Logger, step StepFunc) (*Result, error) {
	if limit < 1 {
		limit = 1
	}

	outcomes := make([]Outcome, len(ids))
	errs := make([]error, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for idx, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				// left Pending
				return err
			}

			updated, err := step(gctx, id)
			switch {
			case err != nil:
				outcomes[idx] = Failed
				errs[idx] = err
				logger.Warn("bulk repricing failed for product",
					zap.String("product_id", id),
					zap.Error(err))
			case updated:
				outcomes[idx] = Updated
			default:
				outcomes[idx] = Skipped
			}
			return nil
		})
	}

	err := g.Wait()
	result := collect(ids, outcomes, errs)
	if err != nil {
		return result, fmt.Errorf("%w after %d of %d products: %w", ErrInterrupted, result.Updated, len(ids), err)
	}
	return result, nil
}

func collect(ids []string, outcomes []Outcome, errs []error) *Result {
	result := &Result{
		UpdatedIDs: make([]string, 0, len(ids)),
		Failed:     make([]Failure, 0),
		Pending:    make([]string, 0),
	}
	for idx, id := range ids {
		switch outcomes[idx] {
		case Updated:
			result.Updated++
			result.UpdatedIDs = append(result.UpdatedIDs, id)
		case Failed:
			result.Failed = append(result.Failed, Failure{ProductID: id, Err: errs[idx]})
		case Pending:
			result.Pending = append(result.Pending, id)
		}
	}
	return result
}
