package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListFilters narrows and pages product listings.
type ListFilters struct {
	Category string
	Status   string
	Search   string
	Page     int
	Limit    int
}

// Repository abstracts product persistence for the service and the importer.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id string, update ProductUpdate) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed product repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, price, discount_price, category, description, image_url, images, video_url, stock, status, sales_count, created_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	where := ``
	args := []interface{}{}
	argCount := 0

	if filters.Category != "" {
		argCount++
		where += ` AND category = $` + strconv.Itoa(argCount)
		args = append(args, filters.Category)
	}
	if filters.Status != "" {
		argCount++
		where += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}
	if filters.Search != "" {
		argCount++
		where += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR description ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM products WHERE 1=1` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("catalog: count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1` + where + ` ORDER BY created_at DESC, id`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *repository) Get(ctx context.Context, id string) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return product, nil
}

// Create stamps the generated id, default status, and persistence timestamp.
// There is no natural key: two identical records get two distinct rows.
func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.Status == "" {
		product.Status = StatusActive
	}
	product.CreatedAt = time.Now().UTC()

	images, err := json.Marshal(product.Images)
	if err != nil {
		return Product{}, fmt.Errorf("catalog: encode images: %w", err)
	}
	stock, err := json.Marshal(product.Stock)
	if err != nil {
		return Product{}, fmt.Errorf("catalog: encode stock: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO products (id, name, price, discount_price, category, description, image_url, images, video_url, stock, status, sales_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		product.ID, product.Name, product.Price, product.DiscountPrice, product.Category,
		product.Description, product.ImageURL, images, product.VideoURL, stock,
		string(product.Status), product.SalesCount, product.CreatedAt,
	)
	if err != nil {
		return Product{}, fmt.Errorf("catalog: insert product: %w", err)
	}
	return product, nil
}

// ProductUpdate carries the fields of a partial update. Nil pointers leave the
// column untouched; ClearDiscount removes the discount price entirely.
type ProductUpdate struct {
	Name          *string
	Price         *float64
	DiscountPrice *float64
	ClearDiscount bool
	Category      *string
	Description   *string
	Images        *[]string
	VideoURL      *string
	Stock         *Stock
	Status        *Status
}

func (r *repository) Update(ctx context.Context, id string, update ProductUpdate) error {
	set := ``
	args := []interface{}{}
	argCount := 0

	add := func(column string, value interface{}) {
		argCount++
		if set != "" {
			set += ", "
		}
		set += column + ` = $` + strconv.Itoa(argCount)
		args = append(args, value)
	}

	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Price != nil {
		add("price", *update.Price)
	}
	if update.ClearDiscount {
		add("discount_price", nil)
	} else if update.DiscountPrice != nil {
		add("discount_price", *update.DiscountPrice)
	}
	if update.Category != nil {
		add("category", *update.Category)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.Images != nil {
		images, err := json.Marshal(*update.Images)
		if err != nil {
			return fmt.Errorf("catalog: encode images: %w", err)
		}
		add("images", images)
		imageURL := ""
		if len(*update.Images) > 0 {
			imageURL = (*update.Images)[0]
		}
		add("image_url", imageURL)
	}
	if update.VideoURL != nil {
		add("video_url", *update.VideoURL)
	}
	if update.Stock != nil {
		stock, err := json.Marshal(*update.Stock)
		if err != nil {
			return fmt.Errorf("catalog: encode stock: %w", err)
		}
		add("stock", stock)
	}
	if update.Status != nil {
		add("status", string(*update.Status))
	}

	if set == "" {
		return nil
	}

	argCount++
	args = append(args, id)
	tag, err := r.db.Exec(ctx, `UPDATE products SET `+set+` WHERE id = $`+strconv.Itoa(argCount), args...)
	if err != nil {
		return fmt.Errorf("catalog: update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("catalog: delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		product  Product
		discount *float64
		images   []byte
		stock    []byte
		status   string
	)
	err := row.Scan(
		&product.ID, &product.Name, &product.Price, &discount, &product.Category,
		&product.Description, &product.ImageURL, &images, &product.VideoURL, &stock,
		&status, &product.SalesCount, &product.CreatedAt,
	)
	if err != nil {
		return Product{}, err
	}
	product.DiscountPrice = discount
	product.Status = Status(status)
	if err := json.Unmarshal(images, &product.Images); err != nil {
		return Product{}, fmt.Errorf("catalog: decode images: %w", err)
	}
	if err := json.Unmarshal(stock, &product.Stock); err != nil {
		return Product{}, fmt.Errorf("catalog: decode stock: %w", err)
	}
	return product, nil
}
