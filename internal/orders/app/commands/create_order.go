package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tolvstad/ordersync/internal/orders/domain"
	"github.com/tolvstad/ordersync/internal/orders/ports"
)

type CreateOrderCommand struct {
	Product  string
	Quantity int
	Amount   float64
}

func (c CreateOrderCommand) Validate() error {
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

type CreateOrderHandler interface {
	Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
}

type CreateOrderCommandHandler struct {
	repo      ports.OrderRepository
	publisher ports.EventPublisher
	logger    *slog.Logger
}

func NewCreateOrderCommandHandler(
	repo ports.OrderRepository,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) *CreateOrderCommandHandler {
	return &CreateOrderCommandHandler{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	order := domain.Order{
		Product:   cmd.Product,
		Quantity:  cmd.Quantity,
		Amount:    cmd.Amount,
		Processed: false,
	}

	saved, err := h.repo.Save(ctx, order)
	if err != nil {
		return nil, err
	}

	// Best effort: the store write stands regardless of publish outcome, and
	// the HTTP caller only ever sees store-layer results.
	if err := h.publisher.Publish(ctx, saved); err != nil {
		h.logger.ErrorContext(ctx, "order saved but event publish failed",
			"order_id", saved.ID,
			"error", err,
		)
	}

	return &saved, nil
}
