package repo

import (
	"cloud.google.com/go/spanner"
	"github.com/google/uuid"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/models/m_outbox"
)

// OutboxRepo implements OutboxRepository for Spanner.
type OutboxRepo struct {
	model *m_outbox.Model
}

// NewOutboxRepo creates a new OutboxRepo.
func NewOutboxRepo() contracts.OutboxRepository {
	return &OutboxRepo{
		model: m_outbox.NewModel(),
	}
}

// InsertMut creates a mutation for inserting an outbox event.
func (r *OutboxRepo) InsertMut(event *contracts.OutboxEvent) *spanner.Mutation {
	return r.model.InsertMut(&m_outbox.Data{
		EventID:     event.EventID,
		EventType:   event.EventType,
		AggregateID: event.AggregateID,
		Payload:     spanner.NullJSON{Value: event.Payload, Valid: event.Payload != nil},
		Status:      event.Status,
	})
}

// EnrichEvent wraps a domain event for the outbox. The event struct itself
// becomes the JSON payload.
func (r *OutboxRepo) EnrichEvent(event domain.DomainEvent) *contracts.OutboxEvent {
	return &contracts.OutboxEvent{
		EventID:     uuid.New().String(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     event,
		Status:      m_outbox.StatusPending,
	}
}
