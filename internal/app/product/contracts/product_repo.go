package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/pkg/committer"
)

// BulkSelection narrows the products a bulk discount operation touches.
// Empty Categories means every category.
type BulkSelection struct {
	Categories     []string
	DiscountedOnly bool
}

// ProductRepository defines product persistence.
// Repositories return mutations, they don't apply them.
type ProductRepository interface {
	// InsertMut creates a mutation inserting a new product with all fields.
	InsertMut(product *domain.Product) *spanner.Mutation

	// UpdateMut creates a mutation for the dirty fields only, or nil if nothing changed.
	UpdateMut(product *domain.Product) *spanner.Mutation

	// Load reads a product through rd, usually the current read-write transaction.
	// Returns domain.ErrProductNotFound when the row is gone.
	Load(ctx context.Context, rd committer.Reader, productID string) (*domain.Product, error)

	// SelectIDs returns the ids matching sel, oldest first.
	SelectIDs(ctx context.Context, sel BulkSelection) ([]string, error)
}
