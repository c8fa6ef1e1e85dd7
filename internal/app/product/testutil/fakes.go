package testutil

import (
	"context"
	"sync"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
	"github.com/light-bringer/decant-catalog/internal/models/m_outbox"
	"github.com/light-bringer/decant-catalog/internal/models/m_price_history"
	"github.com/light-bringer/decant-catalog/internal/pkg/committer"
)

// Transactor runs TxFuncs without a database and counts what was committed.
type Transactor struct {
	mu    sync.Mutex
	plans []*committer.CommitPlan

	// Err, when set, fails every transaction before fn runs.
	Err error
}

var _ committer.Transactor = (*Transactor)(nil)

func (t *Transactor) Apply(_ context.Context, plan *committer.CommitPlan) error {
	if t.Err != nil {
		return t.Err
	}
	t.record(plan)
	return nil
}

func (t *Transactor) ReadWrite(ctx context.Context, fn committer.TxFunc) error {
	if t.Err != nil {
		return t.Err
	}
	plan, err := fn(ctx, nil)
	if err != nil {
		return err
	}
	t.record(plan)
	return nil
}

func (t *Transactor) record(plan *committer.CommitPlan) {
	if plan.IsEmpty() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.plans = append(t.plans, plan)
}

// Commits returns the number of non-empty plans committed.
func (t *Transactor) Commits() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.plans)
}

// Outbox records enriched events.
type Outbox struct {
	mu     sync.Mutex
	events []*contracts.OutboxEvent
}

var _ contracts.OutboxRepository = (*Outbox)(nil)

func (o *Outbox) InsertMut(event *contracts.OutboxEvent) *spanner.Mutation {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
	return spanner.Insert(m_outbox.TableName, []string{m_outbox.EventID}, []any{event.EventID})
}

func (o *Outbox) EnrichEvent(event domain.DomainEvent) *contracts.OutboxEvent {
	return &contracts.OutboxEvent{
		EventID:     event.EventType() + ":" + event.AggregateID(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     event,
		Status:      m_outbox.StatusPending,
	}
}

// EventTypes lists the recorded event types in insertion order.
func (o *Outbox) EventTypes() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.events))
	for _, e := range o.events {
		out = append(out, e.EventType)
	}
	return out
}

// History is an in-memory PriceHistoryRepository.
type History struct {
	mu      sync.Mutex
	records []*contracts.PriceHistoryRecord
}

var _ contracts.PriceHistoryRepository = (*History)(nil)

func (h *History) InsertMut(record *contracts.PriceHistoryRecord) *spanner.Mutation {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, record)
	return spanner.Insert(m_price_history.TableName, []string{m_price_history.HistoryID}, []any{record.HistoryID})
}

func (h *History) GetByProductID(_ context.Context, productID string, limit int) ([]*contracts.PriceHistoryRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*contracts.PriceHistoryRecord, 0)
	for i := len(h.records) - 1; i >= 0; i-- {
		if h.records[i].ProductID != productID {
			continue
		}
		out = append(out, h.records[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Cache is an in-memory ProductCache that counts invalidations. It honours
// tickets the way the Redis cache does.
type Cache struct {
	mu          sync.Mutex
	entries     map[string]*contracts.ProductDTO
	generation  int64
	stamps      map[string]int64
	Invalidated []string
	Flushes     int
	Dropped     int
}

var _ contracts.ProductCache = (*Cache)(nil)

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*contracts.ProductDTO),
		stamps:  make(map[string]int64),
	}
}

func (c *Cache) Get(_ context.Context, productID string) (*contracts.ProductDTO, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dto, ok := c.entries[productID]
	return dto, ok
}

func (c *Cache) Ticket(_ context.Context, productIDs ...string) (contracts.CacheTicket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ticket := contracts.CacheTicket{Generation: c.generation, Stamps: make(map[string]int64, len(productIDs))}
	for _, id := range productIDs {
		ticket.Stamps[id] = c.stamps[id]
	}
	return ticket, true
}

func (c *Cache) Set(_ context.Context, ticket contracts.CacheTicket, dto *contracts.ProductDTO) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket.Generation != c.generation || ticket.Stamps[dto.ProductID] != c.stamps[dto.ProductID] {
		c.Dropped++
		return
	}
	c.entries[dto.ProductID] = dto
}

func (c *Cache) Invalidate(_ context.Context, productIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range productIDs {
		delete(c.entries, id)
		c.stamps[id]++
		c.Invalidated = append(c.Invalidated, id)
	}
}

func (c *Cache) InvalidateAll(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*contracts.ProductDTO)
	c.generation++
	c.Flushes++
}
