package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tolvstad/ordersync/internal/orders/domain"
	"github.com/tolvstad/ordersync/internal/orders/ports"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save inserts a new order when ID is zero, otherwise upserts by ID. Upsert
// keeps the queue-driven processing path safe to replay.
func (r *Repository) Save(ctx context.Context, order domain.Order) (domain.Order, error) {
	if order.ID == 0 {
		query := `
			INSERT INTO orders (product, quantity, amount, total, processed)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`

		err := r.pool.QueryRow(ctx, query,
			order.Product,
			order.Quantity,
			order.Amount,
			order.Total,
			order.Processed,
		).Scan(&order.ID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("insert order: %w", err)
		}

		return order, nil
	}

	query := `
		INSERT INTO orders (id, product, quantity, amount, total, processed)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET product = EXCLUDED.product,
			quantity = EXCLUDED.quantity,
			amount = EXCLUDED.amount,
			total = EXCLUDED.total,
			processed = EXCLUDED.processed
	`

	_, err := r.pool.Exec(ctx, query,
		order.ID,
		order.Product,
		order.Quantity,
		order.Amount,
		order.Total,
		order.Processed,
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("upsert order: %w", err)
	}

	return order, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT id, product, quantity, amount, total, processed
		FROM orders
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.Product,
			&order.Quantity,
			&order.Amount,
			&order.Total,
			&order.Processed,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `
		SELECT id, product, quantity, amount, total, processed
		FROM orders
		WHERE id = $1
	`

	var order domain.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.Product,
		&order.Quantity,
		&order.Amount,
		&order.Total,
		&order.Processed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	return &order, nil
}
