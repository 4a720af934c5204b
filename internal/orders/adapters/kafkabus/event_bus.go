// Package kafkabus adapts a Kafka topic to the event bus port. Each bus entry
// becomes one JSON-encoded record keyed by source, so entries from the same
// producer land on the same partition.
package kafkabus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/tolvstad/ordersync/internal/orders/ports"
)

// messageWriter is the part of kafka.Writer the bus needs; tests substitute it.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// busRecord is the wire form of one event bus entry.
type busRecord struct {
	ID         string          `json:"id"`
	Source     string          `json:"source"`
	DetailType string          `json:"detail-type"`
	Detail     json.RawMessage `json:"detail"`
	Bus        string          `json:"bus"`
	Time       time.Time       `json:"time"`
}

type EventBus struct {
	writer messageWriter
	now    func() time.Time
}

// New constructs an EventBus writing to the given topic.
func New(brokers []string, topic string) *EventBus {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		MaxAttempts:            5,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
	}
	return &EventBus{writer: writer, now: time.Now}
}

// PutEvent submits one structured entry to the bus.
func (b *EventBus) PutEvent(ctx context.Context, entry ports.BusEntry) error {
	record := busRecord{
		ID:         uuid.NewString(),
		Source:     entry.Source,
		DetailType: entry.DetailType,
		Detail:     json.RawMessage(entry.Detail),
		Bus:        entry.Bus,
		Time:       b.now().UTC(),
	}

	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal bus record: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(entry.Source),
		Value: value,
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write bus record: %w", err)
	}

	return nil
}

// Close releases the underlying writer.
func (b *EventBus) Close() error {
	if closer, ok := b.writer.(*kafka.Writer); ok {
		return closer.Close()
	}
	return nil
}
