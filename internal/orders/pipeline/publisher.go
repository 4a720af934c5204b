package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tolvstad/ordersync/internal/orders/domain"
	"github.com/tolvstad/ordersync/internal/orders/ports"
)

const (
	// EventSource identifies this service on outbound bus entries.
	EventSource = "order.service"

	// DetailTypeOrderCreated is the detail type stamped on every order
	// mutation event, matching what downstream rules filter on.
	DetailTypeOrderCreated = "OrderCreated"
)

// Publisher serializes an order once and dual-writes it: the raw payload to
// the fan-out topic and a structured entry to the event bus. The two sends are
// independent and best effort; there is no transaction spanning them or the
// preceding store write, so order state and notification state can diverge.
type Publisher struct {
	topic   ports.TopicPublisher
	bus     ports.EventBus
	busName string
	logger  *slog.Logger
}

// NewPublisher wires the two outbound channels.
func NewPublisher(topic ports.TopicPublisher, bus ports.EventBus, busName string, logger *slog.Logger) *Publisher {
	return &Publisher{
		topic:   topic,
		bus:     bus,
		busName: busName,
		logger:  logger,
	}
}

// Publish attempts both sends even if one fails. A serialization failure
// aborts both. The returned error wraps ErrPublishFailure when either channel
// rejected the event; callers on the mutation path log it and move on.
func (p *Publisher) Publish(ctx context.Context, order domain.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	var failures []error

	if err := p.topic.Publish(ctx, payload); err != nil {
		p.logger.ErrorContext(ctx, "topic publish failed",
			"order_id", order.ID,
			"error", err,
		)
		failures = append(failures, fmt.Errorf("topic: %w", err))
	}

	entry := ports.BusEntry{
		Source:     EventSource,
		DetailType: DetailTypeOrderCreated,
		Detail:     payload,
		Bus:        p.busName,
	}
	if err := p.bus.PutEvent(ctx, entry); err != nil {
		p.logger.ErrorContext(ctx, "event bus publish failed",
			"order_id", order.ID,
			"error", err,
		)
		failures = append(failures, fmt.Errorf("bus: %w", err))
	}

	if len(failures) > 0 {
		return fmt.Errorf("%w: %v", ErrPublishFailure, errors.Join(failures...))
	}

	return nil
}
