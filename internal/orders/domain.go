// Package orders implements checkout: turning a cart into a persisted order
// with line items, a sales-count bump per product, and a formatted receipt.
package orders

import (
	"errors"
	"time"
)

// OrderLine is one purchased line item.
type OrderLine struct {
	ProductID    string  `json:"productId"`
	SelectedSize string  `json:"selectedSize,omitempty"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
}

// Order is a completed checkout.
type Order struct {
	ID         string      `json:"id"`
	Code       string      `json:"code"`
	UserID     string      `json:"userId,omitempty"`
	Lines      []OrderLine `json:"lines"`
	TotalItems int         `json:"totalItems"`
	TotalPrice float64     `json:"totalPrice"`
	Receipt    string      `json:"receipt"`
	CreatedAt  time.Time   `json:"createdAt"`
}

var (
	// ErrNotFound indicates a missing order.
	ErrNotFound = errors.New("orders: order not found")
	// ErrEmptyCart rejects checkout of an empty or absent cart.
	ErrEmptyCart = errors.New("orders: cart is empty")
	// ErrDuplicateCode indicates an order code collision.
	ErrDuplicateCode = errors.New("orders: duplicate order code")
)
