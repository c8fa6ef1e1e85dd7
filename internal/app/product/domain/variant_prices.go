package domain

import (
	"fmt"
	"sort"
)

const (
	// VariantCategory switches a product into variant pricing mode.
	VariantCategory = "Decants"

	// CanonicalVariantKey is the variant whose price mirrors the product's base price.
	CanonicalVariantKey = "10ml"
)

// VariantPrices maps a variant key (e.g. a volume label) to its price.
// The pricing functions expect an already normalized map; decoding storage
// representations is the repository's job.
type VariantPrices map[string]Money

// NewVariantPrices builds a VariantPrices from raw decimal strings.
func NewVariantPrices(raw map[string]string) (VariantPrices, error) {
	prices := make(VariantPrices, len(raw))
	for key, value := range raw {
		if key == "" {
			return nil, fmt.Errorf("%w: variant key cannot be empty", ErrInvalidArgument)
		}
		m, err := ParseMoney(value)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", key, err)
		}
		prices[key] = m
	}
	return prices, nil
}

// Keys returns the variant keys in sorted order.
func (vp VariantPrices) Keys() []string {
	keys := make([]string, 0, len(vp))
	for k := range vp {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key has a price.
func (vp VariantPrices) Has(key string) bool {
	_, ok := vp[key]
	return ok
}

// Clone returns a copy that never aliases the receiver. A nil map clones to an empty one.
func (vp VariantPrices) Clone() VariantPrices {
	out := make(VariantPrices, len(vp))
	for k, v := range vp {
		out[k] = v
	}
	return out
}

// Equals compares two tables key by key.
func (vp VariantPrices) Equals(other VariantPrices) bool {
	if len(vp) != len(other) {
		return false
	}
	for k, v := range vp {
		o, ok := other[k]
		if !ok || !v.Equals(o) {
			return false
		}
	}
	return true
}

// Strings returns the table as decimal strings, used for events and DTOs.
func (vp VariantPrices) Strings() map[string]string {
	out := make(map[string]string, len(vp))
	for k, v := range vp {
		out[k] = v.String()
	}
	return out
}

// IsVariantCategory reports whether a category uses variant pricing.
func IsVariantCategory(category string) bool {
	return category == VariantCategory
}
