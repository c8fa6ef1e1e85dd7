package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/models/m_product"
	"github.com/light-bringer/decant-catalog/internal/pkg/query"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// ReadModelImpl implements ReadModel for Spanner.
type ReadModelImpl struct {
	client *spanner.Client
}

// NewReadModel creates a new ReadModel implementation.
func NewReadModel(client *spanner.Client) contracts.ReadModel {
	return &ReadModelImpl{client: client}
}

// GetProduct retrieves a product DTO by ID.
func (rm *ReadModelImpl) GetProduct(ctx context.Context, productID string) (*contracts.ProductDTO, error) {
	row, err := rm.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{productID}, m_product.Columns())
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

	return dtoFromData(&data)
}

// GetProducts reads several products in one request. Missing ids are absent from the result.
func (rm *ReadModelImpl) GetProducts(ctx context.Context, productIDs []string) (map[string]*contracts.ProductDTO, error) {
	result := make(map[string]*contracts.ProductDTO, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	keys := make([]spanner.KeySet, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, spanner.Key{id})
	}

	iter := rm.client.Single().Read(ctx, m_product.TableName, spanner.KeySets(keys...), m_product.Columns())
	defer iter.Stop()

	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read products: %w", err)
		}

		var data m_product.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}

		dto, err := dtoFromData(&data)
		if err != nil {
			return nil, err
		}
		result[dto.ProductID] = dto
	}

	return result, nil
}

// ListProducts returns a page of products, newest first. The page token is
// the offset of the next page.
func (rm *ReadModelImpl) ListProducts(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	offset, err := parsePageToken(filter.PageToken)
	if err != nil {
		return nil, err
	}
	pageSize := clampPageSize(filter.PageSize)

	base := query.From(m_product.TableName)
	if filter.Category != "" {
		base = base.Where(query.Eq(m_product.Category, filter.Category))
	}

	var total int64
	countIter := rm.client.Single().Query(ctx, base.Count().Build())
	countRow, err := countIter.Next()
	countIter.Stop()
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := countRow.Column(0, &total); err != nil {
		return nil, fmt.Errorf("failed to parse product count: %w", err)
	}

	stmt := base.Select(m_product.Columns()...).
		OrderBy(m_product.CreatedAt, query.Desc).
		ThenBy(m_product.ProductID, query.Asc).
		Limit(int64(pageSize)).
		Offset(offset).
		Build()

	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	products := make([]*contracts.ProductDTO, 0, pageSize)
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", err)
		}

		var data m_product.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}

		dto, err := dtoFromData(&data)
		if err != nil {
			return nil, err
		}
		products = append(products, dto)
	}

	next := ""
	if end := offset + int64(len(products)); end < total {
		next = strconv.FormatInt(end, 10)
	}

	return &contracts.ListResult{
		Products:      products,
		NextPageToken: next,
		TotalCount:    total,
	}, nil
}

func clampPageSize(size int) int {
	if size <= 0 {
		return defaultPageSize
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}

func parsePageToken(token string) (int64, error) {
	if token == "" {
		return 0, nil
	}
	offset, err := strconv.ParseInt(token, 10, 64)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("%w: invalid page token %q", domain.ErrInvalidArgument, token)
	}
	return offset, nil
}
