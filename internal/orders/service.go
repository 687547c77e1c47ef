package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/verdant-shop/verdant/internal/cart"
)

// Service coordinates checkout and order history.
type Service struct {
	repo      Repository
	snapshots cart.Snapshotter
	logger    *slog.Logger
	printer   *message.Printer
	clock     func() time.Time
}

// NewService builds Service.
func NewService(repo Repository, snapshots cart.Snapshotter, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		snapshots: snapshots,
		logger:    logger,
		printer:   message.NewPrinter(language.English),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Checkout turns the cart behind cartKey into a persisted order. The cart
// mutation (clearing the snapshot) is best-effort after the order commits;
// the order itself is fully transactional.
func (s *Service) Checkout(ctx context.Context, cartKey, userID string) (Order, error) {
	items, err := s.loadCart(ctx, cartKey)
	if err != nil {
		return Order{}, err
	}
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}

	totals := items.Totals()
	id := uuid.NewString()
	order := Order{
		ID:         id,
		Code:       "SO-" + id[:8],
		UserID:     userID,
		TotalItems: totals.Items,
		TotalPrice: totals.Price,
		CreatedAt:  s.clock(),
	}
	for _, item := range items {
		order.Lines = append(order.Lines, OrderLine{
			ProductID:    item.ProductID,
			SelectedSize: item.SelectedSize,
			Price:        item.Price,
			Quantity:     item.Quantity,
		})
	}
	order.Receipt = s.printer.Sprintf("Order %s: %d item(s), total %.2f",
		order.Code, order.TotalItems, order.TotalPrice)

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return Order{}, err
	}

	if err := s.snapshots.Save(ctx, cartKey, "[]"); err != nil {
		s.logger.Warn("clear cart after checkout failed",
			slog.String("cart", cartKey), slog.Any("error", err))
	}
	return order, nil
}

func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string, limit int) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *Service) loadCart(ctx context.Context, cartKey string) (cart.Cart, error) {
	raw, ok, err := s.snapshots.Load(ctx, cartKey)
	if err != nil {
		return nil, fmt.Errorf("orders: load cart: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var items cart.Cart
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("cart snapshot malformed at checkout", slog.String("cart", cartKey))
		return nil, nil
	}
	return items, nil
}
