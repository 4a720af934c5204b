package app

import (
	"context"
	"log/slog"

	"github.com/tolvstad/ordersync/internal/orders/app/commands"
	"github.com/tolvstad/ordersync/internal/orders/app/queries"
	"github.com/tolvstad/ordersync/internal/orders/domain"
	"github.com/tolvstad/ordersync/internal/orders/ports"
)

// DrainTrigger nudges the queue drain worker without blocking.
type DrainTrigger interface {
	Trigger()
}

// Service bundles use cases for handling orders via the API.
type Service struct {
	createHandler commands.CreateOrderHandler
	updateHandler commands.UpdateOrderHandler
	getHandler    *queries.GetOrderQueryHandler
	listHandler   *queries.ListOrdersQueryHandler
	drain         DrainTrigger
}

// NewService wires required dependencies.
func NewService(
	repo ports.OrderRepository,
	publisher ports.EventPublisher,
	drain DrainTrigger,
	logger *slog.Logger,
) *Service {
	return &Service{
		createHandler: commands.NewCreateOrderCommandHandler(repo, publisher, logger),
		updateHandler: commands.NewUpdateOrderCommandHandler(repo, publisher, logger),
		getHandler:    queries.NewGetOrderQueryHandler(repo),
		listHandler:   queries.NewListOrdersQueryHandler(repo),
		drain:         drain,
	}
}

// CreateOrderInput captures payload for creating an order.
type CreateOrderInput struct {
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Amount   float64 `json:"amount"`
}

// CreateOrder orchestrates order creation and event emission.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	cmd := commands.CreateOrderCommand{
		Product:  input.Product,
		Quantity: input.Quantity,
		Amount:   input.Amount,
	}
	return s.createHandler.Handle(ctx, cmd)
}

// UpdateOrderInput captures payload for updating an order.
type UpdateOrderInput struct {
	Product   string  `json:"product"`
	Quantity  int     `json:"quantity"`
	Amount    float64 `json:"amount"`
	Processed bool    `json:"processed"`
}

// UpdateOrder orchestrates an order update and event emission.
func (s *Service) UpdateOrder(ctx context.Context, id int64, input UpdateOrderInput) (*domain.Order, error) {
	cmd := commands.UpdateOrderCommand{
		ID:        id,
		Product:   input.Product,
		Quantity:  input.Quantity,
		Amount:    input.Amount,
		Processed: input.Processed,
	}
	return s.updateHandler.Handle(ctx, cmd)
}

// GetOrder retrieves an order by ID.
func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.getHandler.Handle(ctx, queries.GetOrderQuery{OrderID: id})
}

// ListOrders returns all orders and nudges the drain worker, so pending queue
// messages get folded in shortly after a read.
func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.listHandler.Handle(ctx)
	if err != nil {
		return nil, err
	}

	s.drain.Trigger()

	return orders, nil
}
