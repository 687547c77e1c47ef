// Package catalog implements the product catalog: the canonical product
// record, the lenient field normalization used by bulk import, and the
// storage-backed CRUD surface.
package catalog

import (
	"encoding/json"
	"errors"
	"time"
)

// Status enumerates product lifecycle states.
type Status string

const (
	// StatusActive marks a product visible in the storefront.
	StatusActive Status = "active"
	// StatusArchived marks a product hidden from the storefront.
	StatusArchived Status = "archived"
)

// Stock is a tagged union: a flat count XOR per-size quantities, never both.
// A nil BySize map means the flat branch is in effect.
type Stock struct {
	Flat   int
	BySize map[string]int
}

// FlatStock builds the flat branch.
func FlatStock(n int) Stock {
	return Stock{Flat: n}
}

// SizedStock builds the per-size branch.
func SizedStock(bySize map[string]int) Stock {
	return Stock{BySize: bySize}
}

// Sized reports whether the per-size branch is in effect.
func (s Stock) Sized() bool {
	return s.BySize != nil
}

// Total returns the units on hand across the active branch.
func (s Stock) Total() int {
	if !s.Sized() {
		return s.Flat
	}
	total := 0
	for _, qty := range s.BySize {
		total += qty
	}
	return total
}

// MarshalJSON encodes the flat branch as a number and the sized branch as an object.
func (s Stock) MarshalJSON() ([]byte, error) {
	if s.Sized() {
		return json.Marshal(s.BySize)
	}
	return json.Marshal(s.Flat)
}

// UnmarshalJSON accepts either encoding produced by MarshalJSON.
func (s *Stock) UnmarshalJSON(data []byte) error {
	var flat int
	if err := json.Unmarshal(data, &flat); err == nil {
		*s = FlatStock(flat)
		return nil
	}
	var bySize map[string]int
	if err := json.Unmarshal(data, &bySize); err == nil {
		if bySize == nil {
			bySize = map[string]int{}
		}
		*s = SizedStock(bySize)
		return nil
	}
	return errors.New("catalog: stock must be a number or a size map")
}

// Product is the canonical, fully defaulted product record.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	DiscountPrice *float64  `json:"discountPrice,omitempty"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	ImageURL      string    `json:"imageUrl"`
	Images        []string  `json:"images"`
	VideoURL      string    `json:"videoUrl"`
	Stock         Stock     `json:"stock"`
	Status        Status    `json:"status"`
	SalesCount    int       `json:"salesCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ErrNotFound indicates a missing product record.
var ErrNotFound = errors.New("catalog: product not found")
