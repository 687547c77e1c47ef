// Package cart implements the shopping cart: a pure reducer over line items
// and a store that persists a snapshot after every change.
package cart

// Key identifies a line item. Two items with the same product id but
// different selected size are distinct lines.
type Key struct {
	ProductID    string
	SelectedSize string
}

// LineItem is one cart entry. Attributes carries passthrough product fields
// (name, image, ...) that the storefront renders but the cart never inspects.
type LineItem struct {
	ProductID    string         `json:"productId"`
	SelectedSize string         `json:"selectedSize,omitempty"`
	Price        float64        `json:"price"`
	Quantity     int            `json:"quantity"`
	Attributes   map[string]any `json:"attributes,omitempty"`
}

// Key returns the merge/lookup identity of the line item.
func (li LineItem) Key() Key {
	return Key{ProductID: li.ProductID, SelectedSize: li.SelectedSize}
}

// Cart is an insertion-ordered sequence of line items with unique keys.
type Cart []LineItem

func (c Cart) indexOf(key Key) int {
	for i, item := range c {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

// Totals are the derived aggregates recomputed on every change.
type Totals struct {
	Items int     `json:"totalItems"`
	Price float64 `json:"totalPrice"`
}

// Totals sums quantities and price*quantity across all line items.
func (c Cart) Totals() Totals {
	var t Totals
	for _, item := range c {
		t.Items += item.Quantity
		t.Price += item.Price * float64(item.Quantity)
	}
	return t
}
