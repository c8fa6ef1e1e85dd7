package repo

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/models/m_product"
	"github.com/light-bringer/decant-catalog/internal/pkg/clock"
	"github.com/light-bringer/decant-catalog/internal/pkg/committer"
	"github.com/light-bringer/decant-catalog/internal/pkg/query"
)

// ProductRepo implements ProductRepository for Spanner.
type ProductRepo struct {
	client *spanner.Client
	model  *m_product.Model
	clock  clock.Clock
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(client *spanner.Client, clk clock.Clock) contracts.ProductRepository {
	return &ProductRepo{
		client: client,
		model:  m_product.NewModel(),
		clock:  clk,
	}
}

// InsertMut creates a mutation for inserting a new product.
func (r *ProductRepo) InsertMut(product *domain.Product) *spanner.Mutation {
	return r.model.InsertMut(productToData(product))
}

// UpdateMut creates a mutation for the dirty fields of a product.
// The version is bumped on every write even though nothing checks it.
func (r *ProductRepo) UpdateMut(product *domain.Product) *spanner.Mutation {
	updates := productUpdates(product)
	if len(updates) == 0 {
		return nil
	}
	updates[m_product.Version] = product.Version() + 1
	return r.model.UpdateMut(product.ID(), updates)
}

func productUpdates(product *domain.Product) map[string]any {
	changes := product.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]any)

	if changes.Dirty(domain.FieldName) {
		updates[m_product.Name] = product.Name()
	}
	if changes.Dirty(domain.FieldSlug) {
		updates[m_product.Slug] = product.Slug()
	}
	if changes.Dirty(domain.FieldDescription) {
		updates[m_product.Description] = product.Description()
	}
	if changes.Dirty(domain.FieldCategory) {
		updates[m_product.Category] = product.Category()
	}
	if changes.Dirty(domain.FieldBasePrice) {
		updates[m_product.BasePrice] = moneyToNumeric(product.BasePrice())
	}
	if changes.Dirty(domain.FieldDiscount) {
		updates[m_product.DiscountPercent] = product.Discount().Percentage()
	}
	if changes.Dirty(domain.FieldComputedPrice) {
		updates[m_product.ComputedPrice] = moneyToNumeric(product.ComputedPrice())
	}
	if changes.Dirty(domain.FieldVariantPrices) {
		updates[m_product.VariantPrices] = encodeVariantPrices(product.VariantPrices())
	}
	if changes.Dirty(domain.FieldDiscountedVariantPrices) {
		updates[m_product.DiscountedVariantPrices] = encodeVariantPrices(product.DiscountedVariantPrices())
	}
	if changes.Dirty(domain.FieldAvailableVariantKeys) {
		updates[m_product.AvailableVariantKeys] = product.AvailableVariantKeys()
	}
	if changes.Dirty(domain.FieldDefaultVariantKey) {
		updates[m_product.DefaultVariantKey] = nullString(product.DefaultVariantKey())
	}

	return updates
}

// Load reads a product through rd and reconstructs the aggregate.
func (r *ProductRepo) Load(ctx context.Context, rd committer.Reader, productID string) (*domain.Product, error) {
	row, err := rd.ReadRow(ctx, m_product.TableName, spanner.Key{productID}, m_product.Columns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	var data m_product.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}

	return productFromData(&data, r.clock)
}

// SelectIDs returns ids for a bulk operation.
func (r *ProductRepo) SelectIDs(ctx context.Context, sel contracts.BulkSelection) ([]string, error) {
	stmt := selectIDsStatement(sel)

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	ids := make([]string, 0)
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to select products: %w", err)
		}

		var id string
		if err := row.Column(0, &id); err != nil {
			return nil, fmt.Errorf("failed to parse product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func selectIDsStatement(sel contracts.BulkSelection) spanner.Statement {
	var discounted query.Condition
	if sel.DiscountedOnly {
		discounted = query.Gt(m_product.DiscountPercent, int64(0))
	}

	return query.From(m_product.TableName).
		Select(m_product.ProductID).
		Where(query.In(m_product.Category, sel.Categories)).
		Where(discounted).
		OrderBy(m_product.CreatedAt, query.Asc).
		ThenBy(m_product.ProductID, query.Asc).
		Build()
}
