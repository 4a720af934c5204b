package ports

import (
	"context"
	"errors"

	"github.com/tolvstad/ordersync/internal/orders/domain"
)

// OrderRepository exposes persistence operations required by the application
// layer and the processing pipeline.
type OrderRepository interface {
	// Save inserts the order when its ID is zero, otherwise upserts by ID.
	// The returned order carries the store-assigned identity.
	Save(ctx context.Context, order domain.Order) (domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
}

var (
	// ErrNotFound is returned when the requested order does not exist.
	ErrNotFound = errors.New("order not found")
)
