package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tolvstad/ordersync/internal/orders/domain"
	"github.com/tolvstad/ordersync/internal/orders/ports"
)

// Repository provides an in-memory store useful for local development and tests.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]domain.Order
	nextID int64
}

// NewRepository constructs a new in-memory repository.
func NewRepository() *Repository {
	return &Repository{orders: make(map[int64]domain.Order), nextID: 1}
}

// Save assigns an ID to new orders and upserts existing ones.
func (r *Repository) Save(_ context.Context, order domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == 0 {
		order.ID = r.nextID
		r.nextID++
	} else if order.ID >= r.nextID {
		r.nextID = order.ID + 1
	}

	r.orders[order.ID] = order
	return order, nil
}

// FindAll returns all orders sorted by ID.
func (r *Repository) FindAll(_ context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		result = append(result, order)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// FindByID fetches a single order by identifier.
func (r *Repository) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := order
	return &copy, nil
}
