package model

import (
	"time"
)

// MenuItem represents a dish or drink on the menu.
// The category field is a plain label, not a foreign key: categories exist
// only as the distinct set of values referenced by items.
type MenuItem struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	PriceCents  int64       `json:"price_cents"`
	Category    string      `json:"category"`
	ImageURL    string      `json:"image_url,omitempty"`
	IsPromotion bool        `json:"is_promotion"`
	IsPopular   bool        `json:"is_popular"`
	Variations  []Variation `json:"variations,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Variation is a named price option belonging to exactly one MenuItem,
// e.g. size tiers. Its lifetime is bounded by its parent item.
type Variation struct {
	Ref        VariationRef `json:"-"`
	Name       string       `json:"name"`
	PriceCents int64        `json:"price_cents"`
}

// HasVariations reports whether the item carries price variations.
// When true, PriceCents is a fallback base price; the effective display
// range is PriceRange.
func (m *MenuItem) HasVariations() bool {
	return len(m.Variations) > 0
}

// PriceRange returns the minimum and maximum effective price in centavos.
// Without variations both bounds equal PriceCents.
func (m *MenuItem) PriceRange() (min, max int64) {
	if !m.HasVariations() {
		return m.PriceCents, m.PriceCents
	}
	min, max = m.Variations[0].PriceCents, m.Variations[0].PriceCents
	for _, v := range m.Variations[1:] {
		if v.PriceCents < min {
			min = v.PriceCents
		}
		if v.PriceCents > max {
			max = v.PriceCents
		}
	}
	return min, max
}

// VariationRef distinguishes variations that exist in the store from ones
// built in memory and not yet persisted. The zero value is Unsaved.
type VariationRef struct {
	id    string
	saved bool
}

// SavedVariation returns a ref for a persisted variation row.
func SavedVariation(id string) VariationRef {
	return VariationRef{id: id, saved: true}
}

// UnsavedVariation returns a ref for a variation that has no row yet.
func UnsavedVariation() VariationRef {
	return VariationRef{}
}

// ID returns the persisted id and true, or "" and false for unsaved refs.
func (r VariationRef) ID() (string, bool) {
	return r.id, r.saved
}

// Saved reports whether the variation has been persisted.
func (r VariationRef) Saved() bool {
	return r.saved
}
