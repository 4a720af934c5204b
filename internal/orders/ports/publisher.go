package ports

import (
	"context"

	"github.com/tolvstad/ordersync/internal/orders/domain"
)

// TopicPublisher fans a serialized order out to subscribers of a topic.
type TopicPublisher interface {
	Publish(ctx context.Context, payload []byte) error
}

// BusEntry is one structured event submitted to the event bus.
type BusEntry struct {
	Source     string
	DetailType string
	Detail     []byte
	Bus        string
}

// EventBus accepts structured order lifecycle events.
type EventBus interface {
	PutEvent(ctx context.Context, entry BusEntry) error
}

// EventPublisher announces an order mutation to downstream consumers through
// both channels. Best effort: a failure never undoes the store write.
type EventPublisher interface {
	Publish(ctx context.Context, order domain.Order) error
}
