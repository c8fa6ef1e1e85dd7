package domain

import (
	"time"

	"github.com/light-bringer/decant-catalog/internal/pkg/clock"
)

// Field names for change tracking
const (
	FieldName                    = "name"
	FieldSlug                    = "slug"
	FieldDescription             = "description"
	FieldCategory                = "category"
	FieldBasePrice               = "base_price"
	FieldDiscount                = "discount"
	FieldComputedPrice           = "computed_price"
	FieldVariantPrices           = "variant_prices"
	FieldDiscountedVariantPrices = "discounted_variant_prices"
	FieldAvailableVariantKeys    = "available_variant_keys"
	FieldDefaultVariantKey       = "default_variant_key"
)

// Product is the aggregate root for catalog pricing.
// Every mutator re-derives computedPrice and discountedVariantPrices before
// returning, so a persisted Product always satisfies the pricing invariants.
type Product struct {
	id                      string
	name                    string
	slug                    string
	description             string
	category                string
	basePrice               Money
	discount                DiscountPercent
	computedPrice           Money
	variantPrices           VariantPrices
	discountedVariantPrices VariantPrices
	availableVariantKeys    []string
	defaultVariantKey       string
	version                 int64
	createdAt               time.Time
	updatedAt               time.Time

	clock   clock.Clock
	changes *ChangeTracker
	events  []DomainEvent
}

// ProductState is the persisted shape of a Product, used to reconstitute it.
type ProductState struct {
	ID                      string
	Name                    string
	Slug                    string
	Description             string
	Category                string
	BasePrice               Money
	Discount                DiscountPercent
	ComputedPrice           Money
	VariantPrices           VariantPrices
	DiscountedVariantPrices VariantPrices
	AvailableVariantKeys    []string
	DefaultVariantKey       string
	Version                 int64
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// NewProduct creates a new Product with zero discount.
// In variant mode every priced variant starts out available and the canonical
// variant (or the first key) becomes the default.
func NewProduct(id, name, slug, description, category string, basePrice Money, variantPrices VariantPrices, now time.Time, clk clock.Clock) (*Product, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if category == "" {
		return nil, ErrInvalidCategory
	}
	if len(variantPrices) > 0 && !IsVariantCategory(category) {
		return nil, ErrNotVariantProduct
	}

	p := &Product{
		id:                      id,
		name:                    name,
		slug:                    slug,
		description:             description,
		category:                category,
		basePrice:               basePrice,
		discount:                NoDiscount,
		variantPrices:           variantPrices.Clone(),
		discountedVariantPrices: VariantPrices{},
		availableVariantKeys:    variantPrices.Keys(),
		version:                 1,
		createdAt:               now,
		updatedAt:               now,
		clock:                   clk,
		changes:                 NewChangeTracker(),
		events:                  make([]DomainEvent, 0),
	}

	if p.variantPrices.Has(CanonicalVariantKey) {
		p.defaultVariantKey = CanonicalVariantKey
	} else if len(p.availableVariantKeys) > 0 {
		p.defaultVariantKey = p.availableVariantKeys[0]
	}

	if err := p.reprice(); err != nil {
		return nil, err
	}

	for _, f := range []string{
		FieldName, FieldSlug, FieldDescription, FieldCategory, FieldBasePrice, FieldDiscount,
		FieldComputedPrice, FieldVariantPrices, FieldDiscountedVariantPrices,
		FieldAvailableVariantKeys, FieldDefaultVariantKey,
	} {
		p.changes.MarkDirty(f)
	}

	p.recordEvent(&ProductCreatedEvent{
		ProductID:     p.id,
		Name:          p.name,
		Slug:          p.slug,
		Category:      p.category,
		BasePrice:     p.basePrice,
		VariantPrices: p.variantPrices.Strings(),
		CreatedAt:     now,
	})

	return p, nil
}

// ReconstructProduct reconstitutes a Product from storage without re-deriving prices.
func ReconstructProduct(s ProductState, clk clock.Clock) *Product {
	variantPrices := s.VariantPrices
	if variantPrices == nil {
		variantPrices = VariantPrices{}
	}
	discounted := s.DiscountedVariantPrices
	if discounted == nil {
		discounted = VariantPrices{}
	}
	return &Product{
		id:                      s.ID,
		name:                    s.Name,
		slug:                    s.Slug,
		description:             s.Description,
		category:                s.Category,
		basePrice:               s.BasePrice,
		discount:                s.Discount,
		computedPrice:           s.ComputedPrice,
		variantPrices:           variantPrices,
		discountedVariantPrices: discounted,
		availableVariantKeys:    append([]string(nil), s.AvailableVariantKeys...),
		defaultVariantKey:       s.DefaultVariantKey,
		version:                 s.Version,
		createdAt:               s.CreatedAt,
		updatedAt:               s.UpdatedAt,
		clock:                   clk,
		changes:                 NewChangeTracker(),
		events:                  make([]DomainEvent, 0),
	}
}

// Getters
func (p *Product) ID() string                             { return p.id }
func (p *Product) Name() string                           { return p.name }
func (p *Product) Slug() string                           { return p.slug }
func (p *Product) Description() string                    { return p.description }
func (p *Product) Category() string                       { return p.category }
func (p *Product) BasePrice() Money                       { return p.basePrice }
func (p *Product) Discount() DiscountPercent              { return p.discount }
func (p *Product) ComputedPrice() Money                   { return p.computedPrice }
func (p *Product) VariantPrices() VariantPrices           { return p.variantPrices.Clone() }
func (p *Product) DiscountedVariantPrices() VariantPrices { return p.discountedVariantPrices.Clone() }
func (p *Product) AvailableVariantKeys() []string         { return append([]string(nil), p.availableVariantKeys...) }
func (p *Product) DefaultVariantKey() string              { return p.defaultVariantKey }
func (p *Product) Version() int64                         { return p.version }
func (p *Product) CreatedAt() time.Time                   { return p.createdAt }
func (p *Product) UpdatedAt() time.Time                   { return p.updatedAt }
func (p *Product) Changes() *ChangeTracker                { return p.changes }
func (p *Product) DomainEvents() []DomainEvent            { return p.events }

// IsVariantPriced reports whether the product uses variant pricing mode.
func (p *Product) IsVariantPriced() bool {
	return IsVariantCategory(p.category)
}

// HasDiscount reports whether a non-zero discount applies.
func (p *Product) HasDiscount() bool {
	return !p.discount.IsZero()
}

// IsVariantAvailable reports whether key is offered to customers.
func (p *Product) IsVariantAvailable(key string) bool {
	for _, k := range p.availableVariantKeys {
		if k == key {
			return true
		}
	}
	return false
}

// SetName updates the product name.
func (p *Product) SetName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if name == p.name {
		return nil
	}

	p.name = name
	p.changes.MarkDirty(FieldName)
	p.recordUpdated()
	return nil
}

// SetDescription updates the product description.
func (p *Product) SetDescription(description string) error {
	if description == p.description {
		return nil
	}

	p.description = description
	p.changes.MarkDirty(FieldDescription)
	p.recordUpdated()
	return nil
}

// SetCategory updates the category. Leaving variant mode drops the variant tables.
func (p *Product) SetCategory(category string) error {
	if category == "" {
		return ErrInvalidCategory
	}
	if category == p.category {
		return nil
	}

	wasVariant := p.IsVariantPriced()
	p.category = category
	p.changes.MarkDirty(FieldCategory)

	if wasVariant && !p.IsVariantPriced() {
		p.variantPrices = VariantPrices{}
		p.availableVariantKeys = nil
		p.defaultVariantKey = ""
		p.changes.MarkDirty(FieldVariantPrices)
		p.changes.MarkDirty(FieldAvailableVariantKeys)
		p.changes.MarkDirty(FieldDefaultVariantKey)
	}

	if err := p.repriceAndRecord(p.basePrice); err != nil {
		return err
	}
	p.recordUpdated()
	return nil
}

// SetBasePrice updates the base price. In variant mode a priced canonical
// variant wins over the value passed here.
func (p *Product) SetBasePrice(price Money) error {
	oldBase := p.basePrice
	p.basePrice = price
	p.changes.MarkDirty(FieldBasePrice)
	return p.repriceAndRecord(oldBase)
}

// SetVariantPrices replaces the variant price table. Keys that disappear are
// removed from the available set, newly priced keys are offered, and an
// orphaned default key is cleared.
func (p *Product) SetVariantPrices(prices VariantPrices) error {
	if !p.IsVariantPriced() {
		if len(prices) == 0 {
			return nil
		}
		return ErrNotVariantProduct
	}

	previous := p.variantPrices
	p.variantPrices = prices.Clone()
	p.changes.MarkDirty(FieldVariantPrices)

	available := make([]string, 0, len(p.availableVariantKeys))
	for _, k := range p.availableVariantKeys {
		if p.variantPrices.Has(k) {
			available = append(available, k)
		}
	}
	changed := len(available) != len(p.availableVariantKeys)
	for _, k := range p.variantPrices.Keys() {
		if !previous.Has(k) {
			available = append(available, k)
			changed = true
		}
	}
	if changed {
		p.availableVariantKeys = available
		p.changes.MarkDirty(FieldAvailableVariantKeys)
	}
	p.fixDefaultVariantKey()

	return p.repriceAndRecord(p.basePrice)
}

// SetAvailableVariantKeys sets which priced variants customers may pick.
// Duplicates are dropped, order is kept.
func (p *Product) SetAvailableVariantKeys(keys []string) error {
	if !p.IsVariantPriced() {
		if len(keys) == 0 {
			return nil
		}
		return ErrNotVariantProduct
	}

	seen := make(map[string]bool, len(keys))
	available := make([]string, 0, len(keys))
	for _, k := range keys {
		if !p.variantPrices.Has(k) {
			return ErrUnknownVariantKey
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		available = append(available, k)
	}

	p.availableVariantKeys = available
	p.changes.MarkDirty(FieldAvailableVariantKeys)
	p.fixDefaultVariantKey()
	p.recordUpdated()
	return nil
}

// SetDefaultVariantKey sets the representative variant. Empty clears it.
func (p *Product) SetDefaultVariantKey(key string) error {
	if key != "" && !p.IsVariantAvailable(key) {
		return ErrVariantNotAvailable
	}
	if key == p.defaultVariantKey {
		return nil
	}

	p.defaultVariantKey = key
	p.changes.MarkDirty(FieldDefaultVariantKey)
	p.recordUpdated()
	return nil
}

// SetDiscount sets the discount and re-derives every dependent price.
func (p *Product) SetDiscount(discount DiscountPercent) error {
	previous := p.discount
	p.discount = discount
	p.changes.MarkDirty(FieldDiscount)

	if err := p.repriceAndRecord(p.basePrice); err != nil {
		p.discount = previous
		return err
	}

	now := p.clock.Now()
	if discount.IsZero() {
		if !previous.IsZero() {
			p.recordEvent(&DiscountRemovedEvent{
				ProductID:     p.id,
				ComputedPrice: p.computedPrice,
				RemovedAt:     now,
			})
		}
		return nil
	}

	p.recordEvent(&DiscountAppliedEvent{
		ProductID:               p.id,
		DiscountPercent:         discount.Percentage(),
		ComputedPrice:           p.computedPrice,
		DiscountedVariantPrices: p.discountedVariantPrices.Strings(),
		AppliedAt:               now,
	})
	return nil
}

// RemoveDiscount resets the discount to zero.
func (p *Product) RemoveDiscount() error {
	return p.SetDiscount(NoDiscount)
}

// repriceAndRecord re-derives prices and records a price change event when
// the base price ended up different from oldBase.
func (p *Product) repriceAndRecord(oldBase Money) error {
	if err := p.reprice(); err != nil {
		return err
	}
	if !oldBase.Equals(p.basePrice) {
		p.recordEvent(&PriceChangedEvent{
			ProductID:     p.id,
			OldBasePrice:  oldBase,
			NewBasePrice:  p.basePrice,
			ComputedPrice: p.computedPrice,
			ChangedAt:     p.clock.Now(),
		})
	}
	return nil
}

// reprice derives basePrice (variant mode), computedPrice and
// discountedVariantPrices from the raw inputs. Derived fields are always
// marked dirty so they are written together with their inputs.
func (p *Product) reprice() error {
	if p.IsVariantPriced() {
		derived, err := defaultPricingCalculator.DeriveVariantPricing(p.variantPrices, p.discount)
		if err != nil {
			return err
		}
		if derived.CanonicalBasePrice != nil && !derived.CanonicalBasePrice.Equals(p.basePrice) {
			p.basePrice = *derived.CanonicalBasePrice
			p.changes.MarkDirty(FieldBasePrice)
		}
		p.discountedVariantPrices = derived.DiscountedVariantPrices
	} else {
		p.discountedVariantPrices = VariantPrices{}
	}
	p.changes.MarkDirty(FieldDiscountedVariantPrices)

	simple, err := defaultPricingCalculator.DeriveSimplePricing(p.basePrice, p.discount)
	if err != nil {
		return err
	}
	p.computedPrice = simple.ComputedPrice
	p.changes.MarkDirty(FieldComputedPrice)
	return nil
}

func (p *Product) fixDefaultVariantKey() {
	if p.defaultVariantKey != "" && !p.IsVariantAvailable(p.defaultVariantKey) {
		p.defaultVariantKey = ""
		p.changes.MarkDirty(FieldDefaultVariantKey)
	}
}

func (p *Product) recordUpdated() {
	p.recordEvent(&ProductUpdatedEvent{
		ProductID:            p.id,
		Name:                 p.name,
		Description:          p.description,
		Category:             p.category,
		AvailableVariantKeys: p.AvailableVariantKeys(),
		DefaultVariantKey:    p.defaultVariantKey,
		UpdatedAt:            p.clock.Now(),
	})
}

// recordEvent adds a domain event to the list of events.
func (p *Product) recordEvent(event DomainEvent) {
	p.events = append(p.events, event)
}

// IncrementVersion advances the version once an update for the next stored
// version has been planned.
func (p *Product) IncrementVersion() {
	p.version++
}

// ClearEvents clears all recorded domain events (called after publishing).
func (p *Product) ClearEvents() {
	p.events = make([]DomainEvent, 0)
}
