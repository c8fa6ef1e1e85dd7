package repo

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/models/m_price_history"
	"github.com/light-bringer/decant-catalog/internal/pkg/query"
)

const defaultHistoryLimit = 50

// PriceHistoryRepo implements PriceHistoryRepository for Spanner.
type PriceHistoryRepo struct {
	client *spanner.Client
	model  *m_price_history.Model
}

// NewPriceHistoryRepo creates a new PriceHistoryRepo.
func NewPriceHistoryRepo(client *spanner.Client) contracts.PriceHistoryRepository {
	return &PriceHistoryRepo{
		client: client,
		model:  m_price_history.NewModel(),
	}
}

// InsertMut creates a mutation for inserting a price change record.
func (r *PriceHistoryRepo) InsertMut(record *contracts.PriceHistoryRecord) *spanner.Mutation {
	return r.model.InsertMut(recordToData(record))
}

// GetByProductID retrieves price history for a product, most recent first.
func (r *PriceHistoryRepo) GetByProductID(ctx context.Context, productID string, limit int) ([]*contracts.PriceHistoryRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	stmt := query.From(m_price_history.TableName).
		Select(m_price_history.Columns()...).
		Where(query.Eq(m_price_history.ProductID, productID)).
		OrderBy(m_price_history.ChangedAt, query.Desc).
		Limit(int64(limit)).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	records := make([]*contracts.PriceHistoryRecord, 0)
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate price history: %w", err)
		}

		var data m_price_history.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse price history: %w", err)
		}

		record, err := dataToRecord(&data)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func recordToData(record *contracts.PriceHistoryRecord) *m_price_history.Data {
	data := &m_price_history.Data{
		HistoryID:     record.HistoryID,
		ProductID:     record.ProductID,
		DiscountPct:   record.DiscountPercent,
		ChangedReason: nullString(record.ChangedReason),
		ChangedAt:     record.ChangedAt,
	}
	data.NewPrice.Set(moneyToNumeric(record.NewPrice))
	if record.OldPrice != nil {
		data.OldPrice = spanner.NullNumeric{Numeric: *moneyToNumeric(*record.OldPrice), Valid: true}
	}
	return data
}

func dataToRecord(data *m_price_history.Data) (*contracts.PriceHistoryRecord, error) {
	newPrice, err := numericToMoney(&data.NewPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid new price: %w", err)
	}

	record := &contracts.PriceHistoryRecord{
		HistoryID:       data.HistoryID,
		ProductID:       data.ProductID,
		NewPrice:        newPrice,
		DiscountPercent: data.DiscountPct,
		ChangedAt:       data.ChangedAt,
	}

	if data.OldPrice.Valid {
		oldPrice, err := numericToMoney(&data.OldPrice.Numeric)
		if err != nil {
			return nil, fmt.Errorf("invalid old price: %w", err)
		}
		record.OldPrice = &oldPrice
	}

	if data.ChangedReason.Valid {
		record.ChangedReason = data.ChangedReason.StringVal
	}

	return record, nil
}
