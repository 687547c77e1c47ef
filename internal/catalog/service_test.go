package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/verdant-shop/verdant/internal/catalog"
)

type memoryRepo struct {
	mu        sync.Mutex
	products  map[string]catalog.Product
	order     []string
	createErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: make(map[string]catalog.Product)}
}

func (r *memoryRepo) List(ctx context.Context, filters catalog.ListFilters) ([]catalog.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []catalog.Product
	for _, id := range r.order {
		p := r.products[id]
		if filters.Category != "" && p.Category != filters.Category {
			continue
		}
		if filters.Status != "" && string(p.Status) != filters.Status {
			continue
		}
		result = append(result, p)
	}
	return result, len(result), nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) Create(ctx context.Context, product catalog.Product) (catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return catalog.Product{}, r.createErr
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.Status == "" {
		product.Status = catalog.StatusActive
	}
	product.CreatedAt = time.Now().UTC()
	r.products[product.ID] = product
	r.order = append(r.order, product.ID)
	return product, nil
}

func (r *memoryRepo) Update(ctx context.Context, id string, update catalog.ProductUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return catalog.ErrNotFound
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.Status != nil {
		p.Status = *update.Status
	}
	r.products[id] = p
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func TestServiceCreateStampsDefaults(t *testing.T) {
	repo := newMemoryRepo()
	svc := catalog.NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, catalog.Product{Name: "Tee", Price: 500, Images: []string{"a.jpg", "b.jpg"}})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, catalog.StatusActive, created.Status)
	require.Equal(t, catalog.DefaultCategory, created.Category)
	require.Equal(t, "a.jpg", created.ImageURL)
	require.Zero(t, created.SalesCount)
}

func TestServiceCreateRejectsInvalid(t *testing.T) {
	svc := catalog.NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, catalog.Product{Name: "  "})
	require.ErrorIs(t, err, catalog.ErrInvalidInput)

	_, err = svc.Create(ctx, catalog.Product{Name: "Tee", Price: -1})
	require.ErrorIs(t, err, catalog.ErrInvalidInput)
}

func TestServiceGetMissing(t *testing.T) {
	svc := catalog.NewService(newMemoryRepo())

	_, err := svc.Get(context.Background(), "nope")
	require.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = svc.Get(context.Background(), " ")
	require.ErrorIs(t, err, catalog.ErrInvalidInput)
}

func TestServiceUpdateValidation(t *testing.T) {
	repo := newMemoryRepo()
	svc := catalog.NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, catalog.Product{Name: "Tee", Price: 500})
	require.NoError(t, err)

	blank := "  "
	require.ErrorIs(t, svc.Update(ctx, created.ID, catalog.ProductUpdate{Name: &blank}), catalog.ErrInvalidInput)

	name := "Better Tee"
	require.NoError(t, svc.Update(ctx, created.ID, catalog.ProductUpdate{Name: &name}))
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Better Tee", got.Name)
}

func TestServiceCreateSurfacesRepoError(t *testing.T) {
	repo := newMemoryRepo()
	repo.createErr = errors.New("transport down")
	svc := catalog.NewService(repo)

	_, err := svc.Create(context.Background(), catalog.Product{Name: "Tee", Price: 1})
	require.ErrorContains(t, err, "transport down")
}
