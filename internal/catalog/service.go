package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Service coordinates catalog operations on top of the repository.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ErrInvalidInput marks caller mistakes the repository would otherwise accept.
var ErrInvalidInput = errors.New("catalog: invalid input")

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	if filters.Limit <= 0 {
		filters.Limit = 20
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	if strings.TrimSpace(id) == "" {
		return Product{}, fmt.Errorf("%w: product id required", ErrInvalidInput)
	}
	return s.repo.Get(ctx, id)
}

// Create persists an admin-authored product. Unlike import rows the record is
// validated, not defaulted: a nameless product is a caller mistake here.
func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return Product{}, fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	if product.Price < 0 {
		return Product{}, fmt.Errorf("%w: price must be >= 0", ErrInvalidInput)
	}
	if product.Category == "" {
		product.Category = DefaultCategory
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if len(product.Images) > 0 {
		product.ImageURL = product.Images[0]
	} else {
		product.ImageURL = ""
	}
	return s.repo.Create(ctx, product)
}

func (s *Service) Update(ctx context.Context, id string, update ProductUpdate) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: product id required", ErrInvalidInput)
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return fmt.Errorf("%w: product name cannot be blank", ErrInvalidInput)
	}
	if update.Price != nil && *update.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidInput)
	}
	return s.repo.Update(ctx, id, update)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: product id required", ErrInvalidInput)
	}
	return s.repo.Delete(ctx, id)
}
