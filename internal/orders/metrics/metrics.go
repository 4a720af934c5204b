package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the pipeline instruments: queue consumption counters, the
// processing histogram and the outbound publish histogram.
type Metrics struct {
	messagesReceived     metric.Int64Counter
	messagesAcknowledged metric.Int64Counter
	messageFailures      metric.Int64Counter
	ordersProcessed      metric.Int64Counter
	processDuration      metric.Float64Histogram
	publishLatency       metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.messagesReceived, err = meter.Int64Counter(
		"queue_messages_received_total",
		metric.WithDescription("Total messages received from the inbound queue"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create queue_messages_received_total counter: %w", err)
	}

	m.messagesAcknowledged, err = meter.Int64Counter(
		"queue_messages_acknowledged_total",
		metric.WithDescription("Total messages acknowledged after successful processing"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create queue_messages_acknowledged_total counter: %w", err)
	}

	m.messageFailures, err = meter.Int64Counter(
		"queue_message_failures_total",
		metric.WithDescription("Messages that failed decode, processing or acknowledgment"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create queue_message_failures_total counter: %w", err)
	}

	m.ordersProcessed, err = meter.Int64Counter(
		"orders_processed_total",
		metric.WithDescription("Total orders run through the processor"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders_processed_total counter: %w", err)
	}

	m.processDuration, err = meter.Float64Histogram(
		"order_process_duration_seconds",
		metric.WithDescription("Duration of order processing including the store write"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_process_duration histogram: %w", err)
	}

	m.publishLatency, err = meter.Float64Histogram(
		"event_publish_latency_seconds",
		metric.WithDescription("Latency of the dual-write to topic and event bus"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create event_publish_latency histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordMessagesReceived(ctx context.Context, count int) {
	m.messagesReceived.Add(ctx, int64(count))
}

func (m *Metrics) RecordMessageAcknowledged(ctx context.Context) {
	m.messagesAcknowledged.Add(ctx, 1)
}

// RecordMessageFailure tracks a per-message failure by stage: decode, process
// or acknowledge.
func (m *Metrics) RecordMessageFailure(ctx context.Context, stage string) {
	m.messageFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
	))
}

func (m *Metrics) RecordOrderProcessed(ctx context.Context, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.ordersProcessed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}

func (m *Metrics) RecordProcessDuration(ctx context.Context, durationSeconds float64) {
	m.processDuration.Record(ctx, durationSeconds)
}

func (m *Metrics) RecordPublish(ctx context.Context, durationSeconds float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.publishLatency.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("status", status),
	))
}
