package domain

import "time"

// Event type names as written to the outbox.
const (
	EventProductCreated  = "product.created"
	EventProductUpdated  = "product.updated"
	EventPriceChanged    = "product.price.changed"
	EventDiscountApplied = "product.discount.applied"
	EventDiscountRemoved = "product.discount.removed"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// ProductCreatedEvent is emitted when a product is created.
type ProductCreatedEvent struct {
	ProductID     string            `json:"product_id"`
	Name          string            `json:"name"`
	Slug          string            `json:"slug"`
	Category      string            `json:"category"`
	BasePrice     Money             `json:"base_price"`
	VariantPrices map[string]string `json:"variant_prices,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

func (e *ProductCreatedEvent) EventType() string   { return EventProductCreated }
func (e *ProductCreatedEvent) AggregateID() string { return e.ProductID }

// ProductUpdatedEvent is emitted when descriptive or availability fields change.
type ProductUpdatedEvent struct {
	ProductID            string    `json:"product_id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	Category             string    `json:"category"`
	AvailableVariantKeys []string  `json:"available_variant_keys,omitempty"`
	DefaultVariantKey    string    `json:"default_variant_key,omitempty"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (e *ProductUpdatedEvent) EventType() string   { return EventProductUpdated }
func (e *ProductUpdatedEvent) AggregateID() string { return e.ProductID }

// PriceChangedEvent is emitted when the base price moves.
type PriceChangedEvent struct {
	ProductID     string    `json:"product_id"`
	OldBasePrice  Money     `json:"old_base_price"`
	NewBasePrice  Money     `json:"new_base_price"`
	ComputedPrice Money     `json:"computed_price"`
	ChangedAt     time.Time `json:"changed_at"`
}

func (e *PriceChangedEvent) EventType() string   { return EventPriceChanged }
func (e *PriceChangedEvent) AggregateID() string { return e.ProductID }

// DiscountAppliedEvent is emitted when a non-zero discount is set.
type DiscountAppliedEvent struct {
	ProductID               string            `json:"product_id"`
	DiscountPercent         int64             `json:"discount_percent"`
	ComputedPrice           Money             `json:"computed_price"`
	DiscountedVariantPrices map[string]string `json:"discounted_variant_prices,omitempty"`
	AppliedAt               time.Time         `json:"applied_at"`
}

func (e *DiscountAppliedEvent) EventType() string   { return EventDiscountApplied }
func (e *DiscountAppliedEvent) AggregateID() string { return e.ProductID }

// DiscountRemovedEvent is emitted when a discount goes back to zero.
type DiscountRemovedEvent struct {
	ProductID     string    `json:"product_id"`
	ComputedPrice Money     `json:"computed_price"`
	RemovedAt     time.Time `json:"removed_at"`
}

func (e *DiscountRemovedEvent) EventType() string   { return EventDiscountRemoved }
func (e *DiscountRemovedEvent) AggregateID() string { return e.ProductID }
