package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Snapshotter persists serialized cart snapshots keyed by cart id. Load
// reports ok=false on a missing snapshot; both operations may fail with
// transport errors, which the store treats as non-fatal.
type Snapshotter interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key string, payload string) error
}

const saveTimeout = 5 * time.Second

// Store wraps the reducer with snapshot persistence for one cart. The
// in-memory cart is authoritative for the session: mutations apply
// synchronously, and the snapshot write happens in the background with a
// log-only failure policy and no retry.
type Store struct {
	key       string
	snapshots Snapshotter
	logger    *slog.Logger

	mu   sync.Mutex
	cart Cart

	saves sync.WaitGroup
}

// NewStore builds a store, rehydrating from a persisted snapshot when one
// exists. A missing or malformed snapshot leaves the cart empty; it never
// fails.
func NewStore(ctx context.Context, key string, snapshots Snapshotter, logger *slog.Logger) *Store {
	s := &Store{key: key, snapshots: snapshots, logger: logger}

	raw, ok, err := snapshots.Load(ctx, key)
	if err != nil {
		logger.Warn("cart snapshot load failed", slog.String("cart", key), slog.Any("error", err))
		return s
	}
	if !ok {
		return s
	}
	var persisted Cart
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		logger.Warn("cart snapshot malformed, starting empty", slog.String("cart", key))
		return s
	}
	s.cart = Reduce(nil, Set{Cart: persisted})
	return s
}

// Dispatch applies the action synchronously and returns the new state; the
// snapshot write is issued afterwards and never blocks the caller.
func (s *Store) Dispatch(action Action) Cart {
	s.mu.Lock()
	s.cart = Reduce(s.cart, action)
	next := s.cart
	s.mu.Unlock()

	s.persist(next)
	return next
}

// Cart returns the current state.
func (s *Store) Cart() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Totals returns the derived aggregates for the current state.
func (s *Store) Totals() Totals {
	return s.Cart().Totals()
}

// Flush waits for in-flight snapshot writes; useful in tests and shutdown.
func (s *Store) Flush() {
	s.saves.Wait()
}

func (s *Store) persist(c Cart) {
	payload, err := json.Marshal(c)
	if err != nil {
		s.logger.Error("cart snapshot encode failed", slog.String("cart", s.key), slog.Any("error", err))
		return
	}
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := s.snapshots.Save(ctx, s.key, string(payload)); err != nil {
			// Swallowed on purpose: a failed snapshot write must not
			// interrupt the user-visible cart operation.
			s.logger.Warn("cart snapshot save failed", slog.String("cart", s.key), slog.Any("error", err))
		}
	}()
}
