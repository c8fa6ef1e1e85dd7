package repo

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/models/m_outbox"
	"github.com/light-bringer/decant-catalog/internal/pkg/query"
)

// EventsReadModel lists outbox events from Spanner.
type EventsReadModel struct {
	client *spanner.Client
}

// NewEventsReadModel creates a new EventsReadModel.
func NewEventsReadModel(client *spanner.Client) contracts.EventsReadModel {
	return &EventsReadModel{client: client}
}

// ListEvents returns events newest first.
func (r *EventsReadModel) ListEvents(ctx context.Context, filter *contracts.EventFilter) ([]*contracts.EventDTO, error) {
	iter := r.client.Single().Query(ctx, listEventsStatement(filter))
	defer iter.Stop()

	events := make([]*contracts.EventDTO, 0)
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate events: %w", err)
		}

		var data m_outbox.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		events = append(events, &contracts.EventDTO{
			EventID:     data.EventID,
			EventType:   data.EventType,
			AggregateID: data.AggregateID,
			Payload:     jsonValue(data.Payload),
			Status:      data.Status,
			RetryCount:  data.RetryCount,
			CreatedAt:   data.CreatedAt,
		})
	}

	return events, nil
}

func listEventsStatement(filter *contracts.EventFilter) spanner.Statement {
	b := query.From(m_outbox.TableName).Select(m_outbox.Columns()...)

	if filter.EventType != "" {
		b = b.Where(query.Eq(m_outbox.EventType, filter.EventType))
	}
	if filter.AggregateID != "" {
		b = b.Where(query.Eq(m_outbox.AggregateID, filter.AggregateID))
	}
	if filter.Status != "" {
		b = b.Where(query.Eq(m_outbox.Status, filter.Status))
	}

	return b.OrderBy(m_outbox.CreatedAt, query.Desc).
		ThenBy(m_outbox.EventID, query.Asc).
		Limit(filter.Limit).
		Build()
}
