package orders_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verdant-shop/verdant/internal/app"
	"github.com/verdant-shop/verdant/internal/cart"
	"github.com/verdant-shop/verdant/internal/orders"
)

type memoryRepo struct {
	mu     sync.Mutex
	orders map[string]orders.Order
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{orders: make(map[string]orders.Order)}
}

func (r *memoryRepo) CreateOrder(ctx context.Context, order orders.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	return order, nil
}

func (r *memoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []orders.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			result = append(result, order)
		}
	}
	return result, nil
}

type memorySnapshots struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{data: make(map[string]string)}
}

func (s *memorySnapshots) Load(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	return raw, ok, nil
}

func (s *memorySnapshots) Save(ctx context.Context, key string, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = payload
	return nil
}

func seedCart(t *testing.T, snapshots *memorySnapshots, key string, items cart.Cart) {
	t.Helper()
	raw, err := json.Marshal(items)
	require.NoError(t, err)
	require.NoError(t, snapshots.Save(context.Background(), key, string(raw)))
}

func TestCheckout(t *testing.T) {
	repo := newMemoryRepo()
	snapshots := newMemorySnapshots()
	svc := orders.NewService(repo, snapshots, app.NewLogger(nil))
	ctx := context.Background()

	seedCart(t, snapshots, "c1", cart.Cart{
		{ProductID: "p1", SelectedSize: "M", Price: 100, Quantity: 2},
		{ProductID: "p2", Price: 50, Quantity: 1},
	})

	order, err := svc.Checkout(ctx, "c1", "user-7")
	require.NoError(t, err)
	require.NotEmpty(t, order.ID)
	require.True(t, len(order.Code) > 3 && order.Code[:3] == "SO-")
	require.Equal(t, "user-7", order.UserID)
	require.Equal(t, 3, order.TotalItems)
	require.Equal(t, 250.0, order.TotalPrice)
	require.Len(t, order.Lines, 2)
	require.Contains(t, order.Receipt, order.Code)
	require.Contains(t, order.Receipt, "250.00")

	// The cart snapshot is cleared after a successful checkout.
	raw, ok, err := snapshots.Load(ctx, "c1")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `[]`, raw)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := orders.NewService(newMemoryRepo(), newMemorySnapshots(), app.NewLogger(nil))

	_, err := svc.Checkout(context.Background(), "missing", "user-7")
	require.ErrorIs(t, err, orders.ErrEmptyCart)
}

func TestCheckoutMalformedSnapshotTreatedAsEmpty(t *testing.T) {
	snapshots := newMemorySnapshots()
	require.NoError(t, snapshots.Save(context.Background(), "c1", "{broken"))
	svc := orders.NewService(newMemoryRepo(), snapshots, app.NewLogger(nil))

	_, err := svc.Checkout(context.Background(), "c1", "user-7")
	require.ErrorIs(t, err, orders.ErrEmptyCart)
}

func TestGetAndListByUser(t *testing.T) {
	repo := newMemoryRepo()
	snapshots := newMemorySnapshots()
	svc := orders.NewService(repo, snapshots, app.NewLogger(nil))
	ctx := context.Background()

	seedCart(t, snapshots, "c1", cart.Cart{{ProductID: "p1", Price: 10, Quantity: 1}})
	order, err := svc.Checkout(ctx, "c1", "user-7")
	require.NoError(t, err)

	got, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, order.Code, got.Code)

	mine, err := svc.ListByUser(ctx, "user-7", 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	theirs, err := svc.ListByUser(ctx, "someone-else", 0)
	require.NoError(t, err)
	require.Empty(t, theirs)
}
