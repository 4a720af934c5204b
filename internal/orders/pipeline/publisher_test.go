package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/tolvstad/ordersync/internal/orders/domain"
	"github.com/tolvstad/ordersync/internal/orders/pipeline"
	"github.com/tolvstad/ordersync/internal/orders/ports"
)

func TestPublisherPublish(t *testing.T) {
	order := domain.Order{ID: 1, Product: "Widget", Quantity: 3, Amount: 2.50, Total: 7.50, Processed: true}

	t.Run("sends exactly one topic message and one bus entry", func(t *testing.T) {
		topic := &mockTopic{}
		bus := &mockBus{}
		publisher := pipeline.NewPublisher(topic, bus, "order-event-bus", newTestLogger())

		err := publisher.Publish(context.Background(), order)

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		if len(topic.payloads) != 1 {
			t.Fatalf("expected 1 topic message, got %d", len(topic.payloads))
		}
		if len(bus.entries) != 1 {
			t.Fatalf("expected 1 bus entry, got %d", len(bus.entries))
		}

		want, _ := json.Marshal(order)
		if string(topic.payloads[0]) != string(want) {
			t.Errorf("expected topic payload %s, got %s", want, topic.payloads[0])
		}

		entry := bus.entries[0]
		if entry.Source != "order.service" {
			t.Errorf("expected source order.service, got %q", entry.Source)
		}
		if entry.DetailType != "OrderCreated" {
			t.Errorf("expected detail type OrderCreated, got %q", entry.DetailType)
		}
		if string(entry.Detail) != string(want) {
			t.Errorf("expected detail %s, got %s", want, entry.Detail)
		}
		if entry.Bus != "order-event-bus" {
			t.Errorf("expected bus order-event-bus, got %q", entry.Bus)
		}
	})

	t.Run("still writes to the bus when the topic fails", func(t *testing.T) {
		topic := &mockTopic{
			publishFn: func(_ context.Context, _ []byte) error {
				return errors.New("topic down")
			},
		}
		bus := &mockBus{}
		publisher := pipeline.NewPublisher(topic, bus, "order-event-bus", newTestLogger())

		err := publisher.Publish(context.Background(), order)

		if !errors.Is(err, pipeline.ErrPublishFailure) {
			t.Errorf("expected ErrPublishFailure, got %v", err)
		}
		if len(bus.entries) != 1 {
			t.Errorf("expected the bus write to still happen, got %d entries", len(bus.entries))
		}
	})

	t.Run("still writes to the topic when the bus fails", func(t *testing.T) {
		topic := &mockTopic{}
		bus := &mockBus{
			putEventFn: func(_ context.Context, _ ports.BusEntry) error {
				return errors.New("bus down")
			},
		}
		publisher := pipeline.NewPublisher(topic, bus, "order-event-bus", newTestLogger())

		err := publisher.Publish(context.Background(), order)

		if !errors.Is(err, pipeline.ErrPublishFailure) {
			t.Errorf("expected ErrPublishFailure, got %v", err)
		}
		if len(topic.payloads) != 1 {
			t.Errorf("expected the topic write to still happen, got %d payloads", len(topic.payloads))
		}
	})

	t.Run("reports failure when both channels fail", func(t *testing.T) {
		topic := &mockTopic{
			publishFn: func(_ context.Context, _ []byte) error { return errors.New("topic down") },
		}
		bus := &mockBus{
			putEventFn: func(_ context.Context, _ ports.BusEntry) error { return errors.New("bus down") },
		}
		publisher := pipeline.NewPublisher(topic, bus, "order-event-bus", newTestLogger())

		err := publisher.Publish(context.Background(), order)

		if !errors.Is(err, pipeline.ErrPublishFailure) {
			t.Errorf("expected ErrPublishFailure, got %v", err)
		}
	})
}
