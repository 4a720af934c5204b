package queries

import (
	"context"

	"github.com/tolvstad/ordersync/internal/orders/domain"
	"github.com/tolvstad/ordersync/internal/orders/ports"
)

// ListOrdersQueryHandler returns every stored order.
type ListOrdersQueryHandler struct {
	repo ports.OrderRepository
}

// NewListOrdersQueryHandler constructs a ListOrdersQueryHandler.
func NewListOrdersQueryHandler(repo ports.OrderRepository) *ListOrdersQueryHandler {
	return &ListOrdersQueryHandler{repo: repo}
}

// Handle executes the query.
func (h *ListOrdersQueryHandler) Handle(ctx context.Context) ([]domain.Order, error) {
	return h.repo.FindAll(ctx)
}
