package kafkabus

import (
	"context"
	"log/slog"

	"github.com/tolvstad/ordersync/internal/orders/ports"
)

// NoopEventBus logs entries without sending them to Kafka. Useful for local
// dev before a broker is available.
type NoopEventBus struct{}

// NewNoopEventBus returns a new no-op event bus.
func NewNoopEventBus() *NoopEventBus {
	return &NoopEventBus{}
}

func (n *NoopEventBus) PutEvent(_ context.Context, entry ports.BusEntry) error {
	slog.Debug("event::bus_entry",
		"source", entry.Source,
		"detail_type", entry.DetailType,
		"bus", entry.Bus,
	)
	return nil
}
