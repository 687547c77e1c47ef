package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdant-shop/verdant/internal/platform/db"
)

// Repository abstracts order persistence.
type Repository interface {
	// CreateOrder writes the order, its lines, and the per-product
	// sales-count bumps in one transaction.
	CreateOrder(ctx context.Context, order Order) error
	Get(ctx context.Context, id string) (Order, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Order, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed order repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) CreateOrder(ctx context.Context, order Order) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO orders (id, code, user_id, total_items, total_price, receipt, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			order.ID, order.Code, order.UserID, order.TotalItems, order.TotalPrice,
			order.Receipt, order.CreatedAt,
		)
		if err != nil {
			return err
		}
		for _, line := range order.Lines {
			_, err := tx.Exec(ctx, `
				INSERT INTO order_lines (order_id, product_id, selected_size, price, quantity)
				VALUES ($1, $2, $3, $4, $5)`,
				order.ID, line.ProductID, line.SelectedSize, line.Price, line.Quantity,
			)
			if err != nil {
				return err
			}
			// A line may reference a since-deleted product; the bump is
			// then a no-op rather than a failed checkout.
			_, err = tx.Exec(ctx, `UPDATE products SET sales_count = sales_count + $1 WHERE id = $2`,
				line.Quantity, line.ProductID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.ConstraintName == "uq_orders_code" {
			return ErrDuplicateCode
		}
		return fmt.Errorf("orders: create order: %w", err)
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id string) (Order, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, code, user_id, total_items, total_price, receipt, created_at
		FROM orders WHERE id = $1`, id)

	var order Order
	err := row.Scan(&order.ID, &order.Code, &order.UserID, &order.TotalItems,
		&order.TotalPrice, &order.Receipt, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("orders: get order: %w", err)
	}

	lines, err := r.lines(ctx, order.ID)
	if err != nil {
		return Order{}, err
	}
	order.Lines = lines
	return order, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string, limit int) ([]Order, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, user_id, total_items, total_price, receipt, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("orders: list orders: %w", err)
	}
	defer rows.Close()

	var result []Order
	for rows.Next() {
		var order Order
		if err := rows.Scan(&order.ID, &order.Code, &order.UserID, &order.TotalItems,
			&order.TotalPrice, &order.Receipt, &order.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		lines, err := r.lines(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Lines = lines
	}
	return result, nil
}

func (r *repository) lines(ctx context.Context, orderID string) ([]OrderLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT product_id, selected_size, price, quantity
		FROM order_lines WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("orders: get lines: %w", err)
	}
	defer rows.Close()

	var lines []OrderLine
	for rows.Next() {
		var line OrderLine
		if err := rows.Scan(&line.ProductID, &line.SelectedSize, &line.Price, &line.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
