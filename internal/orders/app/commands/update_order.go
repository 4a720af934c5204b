package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tolvstad/ordersync/internal/orders/domain"
	"github.com/tolvstad/ordersync/internal/orders/ports"
)

type UpdateOrderCommand struct {
	ID        int64
	Product   string
	Quantity  int
	Amount    float64
	Processed bool
}

func (c UpdateOrderCommand) Validate() error {
	if c.ID <= 0 {
		return errors.New("id is required")
	}
	if strings.TrimSpace(c.Product) == "" {
		return errors.New("product is required")
	}
	if c.Quantity < 0 {
		return errors.New("quantity must be non-negative")
	}
	if c.Amount < 0 {
		return errors.New("amount must be non-negative")
	}
	return nil
}

type UpdateOrderHandler interface {
	Handle(ctx context.Context, cmd UpdateOrderCommand) (*domain.Order, error)
}

type UpdateOrderCommandHandler struct {
	repo      ports.OrderRepository
	publisher ports.EventPublisher
	logger    *slog.Logger
}

func NewUpdateOrderCommandHandler(
	repo ports.OrderRepository,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) *UpdateOrderCommandHandler {
	return &UpdateOrderCommandHandler{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle replaces the mutable fields of an existing order. The total is not
// recomputed here; that is the processor's job when the change notification
// comes back through the queue.
func (h *UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	order, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	order.Product = cmd.Product
	order.Quantity = cmd.Quantity
	order.Amount = cmd.Amount
	order.Processed = cmd.Processed

	saved, err := h.repo.Save(ctx, *order)
	if err != nil {
		return nil, err
	}

	if err := h.publisher.Publish(ctx, saved); err != nil {
		h.logger.ErrorContext(ctx, "order saved but event publish failed",
			"order_id", saved.ID,
			"error", err,
		)
	}

	return &saved, nil
}
