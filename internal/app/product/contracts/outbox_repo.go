package contracts

import (
	"cloud.google.com/go/spanner"

	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
)

// OutboxEvent is a domain event ready for persistence. Payload is marshalled
// to the JSON column as is.
type OutboxEvent struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     any
	Status      string
}

// OutboxRepository defines outbox event persistence.
type OutboxRepository interface {
	InsertMut(event *OutboxEvent) *spanner.Mutation

	// EnrichEvent assigns an id and the pending status to a domain event.
	EnrichEvent(event domain.DomainEvent) *OutboxEvent
}
