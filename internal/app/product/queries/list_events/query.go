package list_events

import (
	"context"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Request contains filtering parameters for listing events.
type Request struct {
	EventType   string // e.g. "product.discount.applied"
	AggregateID string
	Status      string // "pending", "processing", "completed", "failed"
	Limit       int64
}

// Query handles the list events query use case.
type Query struct {
	readModel contracts.EventsReadModel
}

// NewQuery creates a new list events query.
func NewQuery(readModel contracts.EventsReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves outbox events, newest first.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*contracts.EventDTO, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return q.readModel.ListEvents(ctx, &contracts.EventFilter{
		EventType:   req.EventType,
		AggregateID: req.AggregateID,
		Status:      req.Status,
		Limit:       limit,
	})
}
