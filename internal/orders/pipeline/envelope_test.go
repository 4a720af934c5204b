package pipeline_test

import (
	"errors"
	"testing"

	"github.com/tolvstad/ordersync/internal/orders/pipeline"
)

func TestDecodeEnvelope(t *testing.T) {
	t.Run("decodes a wrapped order", func(t *testing.T) {
		raw := []byte(`{
			"Type": "Notification",
			"MessageId": "d1b2c3",
			"Message": "{\"id\":1,\"product\":\"Widget\",\"quantity\":3,\"amount\":2.50,\"processed\":false}"
		}`)

		order, err := pipeline.DecodeEnvelope(raw)

		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if order.ID != 1 {
			t.Errorf("expected id 1, got %d", order.ID)
		}
		if order.Product != "Widget" {
			t.Errorf("expected product Widget, got %q", order.Product)
		}
		if order.Quantity != 3 {
			t.Errorf("expected quantity 3, got %d", order.Quantity)
		}
		if order.Amount != 2.50 {
			t.Errorf("expected amount 2.50, got %v", order.Amount)
		}
		if order.Processed {
			t.Error("expected processed to be false")
		}
	})

	t.Run("fails with malformed envelope when body is not JSON", func(t *testing.T) {
		_, err := pipeline.DecodeEnvelope([]byte("not json at all"))

		if !errors.Is(err, pipeline.ErrMalformedEnvelope) {
			t.Errorf("expected ErrMalformedEnvelope, got %v", err)
		}
	})

	t.Run("fails with malformed envelope when Message field is absent", func(t *testing.T) {
		_, err := pipeline.DecodeEnvelope([]byte(`{"Type":"Notification","MessageId":"d1b2c3"}`))

		if !errors.Is(err, pipeline.ErrMalformedEnvelope) {
			t.Errorf("expected ErrMalformedEnvelope, got %v", err)
		}
	})

	t.Run("fails with malformed order when inner payload is not JSON", func(t *testing.T) {
		_, err := pipeline.DecodeEnvelope([]byte(`{"Message":"not an order"}`))

		if !errors.Is(err, pipeline.ErrMalformedOrder) {
			t.Errorf("expected ErrMalformedOrder, got %v", err)
		}
	})

	t.Run("fails with malformed order when quantity is not numeric", func(t *testing.T) {
		raw := []byte(`{"Message":"{\"id\":1,\"product\":\"Widget\",\"quantity\":\"three\",\"amount\":2.50}"}`)

		_, err := pipeline.DecodeEnvelope(raw)

		if !errors.Is(err, pipeline.ErrMalformedOrder) {
			t.Errorf("expected ErrMalformedOrder, got %v", err)
		}
	})

	t.Run("fails with malformed order when quantity is negative", func(t *testing.T) {
		raw := []byte(`{"Message":"{\"id\":1,\"product\":\"Widget\",\"quantity\":-3,\"amount\":2.50}"}`)

		_, err := pipeline.DecodeEnvelope(raw)

		if !errors.Is(err, pipeline.ErrMalformedOrder) {
			t.Errorf("expected ErrMalformedOrder, got %v", err)
		}
	})

	t.Run("fails with malformed order when product is absent", func(t *testing.T) {
		raw := []byte(`{"Message":"{\"id\":1,\"quantity\":3,\"amount\":2.50}"}`)

		_, err := pipeline.DecodeEnvelope(raw)

		if !errors.Is(err, pipeline.ErrMalformedOrder) {
			t.Errorf("expected ErrMalformedOrder, got %v", err)
		}
	})
}
