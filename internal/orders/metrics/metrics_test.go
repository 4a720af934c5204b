package metrics

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMeter(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := mp.Meter("test")

	metrics, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}

	return metrics, reader
}

func collectMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) (metricdata.Metrics, bool) {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func TestInitializeMetrics(t *testing.T) {
	t.Run("initializes all metric instruments successfully", func(t *testing.T) {
		metrics, _ := newTestMeter(t)

		if metrics.messagesReceived == nil {
			t.Error("messagesReceived is nil")
		}

		if metrics.messagesAcknowledged == nil {
			t.Error("messagesAcknowledged is nil")
		}

		if metrics.messageFailures == nil {
			t.Error("messageFailures is nil")
		}

		if metrics.ordersProcessed == nil {
			t.Error("ordersProcessed is nil")
		}

		if metrics.processDuration == nil {
			t.Error("processDuration is nil")
		}

		if metrics.publishLatency == nil {
			t.Error("publishLatency is nil")
		}
	})
}

func TestRecordQueueCounters(t *testing.T) {
	t.Run("accumulates received and acknowledged counts", func(t *testing.T) {
		metrics, reader := newTestMeter(t)
		ctx := context.Background()

		metrics.RecordMessagesReceived(ctx, 3)
		metrics.RecordMessagesReceived(ctx, 2)
		metrics.RecordMessageAcknowledged(ctx)

		received, found := collectMetric(t, reader, "queue_messages_received_total")
		if !found {
			t.Fatal("queue_messages_received_total metric not found")
		}

		sum, ok := received.Data.(metricdata.Sum[int64])
		if !ok {
			t.Fatal("Expected Sum[int64] data type")
		}
		if len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 5 {
			t.Errorf("Expected a single data point with value 5, got %+v", sum.DataPoints)
		}
	})

	t.Run("records failures with a stage label per stage", func(t *testing.T) {
		metrics, reader := newTestMeter(t)
		ctx := context.Background()

		metrics.RecordMessageFailure(ctx, "decode")
		metrics.RecordMessageFailure(ctx, "process")
		metrics.RecordMessageFailure(ctx, "acknowledge")

		failures, found := collectMetric(t, reader, "queue_message_failures_total")
		if !found {
			t.Fatal("queue_message_failures_total metric not found")
		}

		sum, ok := failures.Data.(metricdata.Sum[int64])
		if !ok {
			t.Fatal("Expected Sum[int64] data type")
		}
		if len(sum.DataPoints) != 3 {
			t.Errorf("Expected 3 data points (one per stage), got %d", len(sum.DataPoints))
		}
	})
}

func TestRecordOrderProcessed(t *testing.T) {
	t.Run("records processing count per status", func(t *testing.T) {
		metrics, reader := newTestMeter(t)
		ctx := context.Background()

		metrics.RecordOrderProcessed(ctx, true)
		metrics.RecordOrderProcessed(ctx, false)

		processed, found := collectMetric(t, reader, "orders_processed_total")
		if !found {
			t.Fatal("orders_processed_total metric not found")
		}

		sum, ok := processed.Data.(metricdata.Sum[int64])
		if !ok {
			t.Fatal("Expected Sum[int64] data type")
		}
		if len(sum.DataPoints) != 2 {
			t.Errorf("Expected 2 data points, got %d", len(sum.DataPoints))
		}
	})
}

func TestRecordDurations(t *testing.T) {
	t.Run("records processing duration histogram", func(t *testing.T) {
		metrics, reader := newTestMeter(t)
		ctx := context.Background()

		metrics.RecordProcessDuration(ctx, 0.02)
		metrics.RecordProcessDuration(ctx, 0.05)

		duration, found := collectMetric(t, reader, "order_process_duration_seconds")
		if !found {
			t.Fatal("order_process_duration_seconds metric not found")
		}

		histogram, ok := duration.Data.(metricdata.Histogram[float64])
		if !ok {
			t.Fatal("Expected Histogram[float64] data type")
		}
		if len(histogram.DataPoints) != 1 || histogram.DataPoints[0].Count != 2 {
			t.Errorf("Expected a single data point with count 2, got %+v", histogram.DataPoints)
		}
	})

	t.Run("records publish latency per status", func(t *testing.T) {
		metrics, reader := newTestMeter(t)
		ctx := context.Background()

		metrics.RecordPublish(ctx, 0.01, true)
		metrics.RecordPublish(ctx, 0.2, false)

		latency, found := collectMetric(t, reader, "event_publish_latency_seconds")
		if !found {
			t.Fatal("event_publish_latency_seconds metric not found")
		}

		histogram, ok := latency.Data.(metricdata.Histogram[float64])
		if !ok {
			t.Fatal("Expected Histogram[float64] data type")
		}
		if len(histogram.DataPoints) != 2 {
			t.Errorf("Expected 2 data points, got %d", len(histogram.DataPoints))
		}
	})
}
