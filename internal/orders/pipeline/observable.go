package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/tolvstad/ordersync/internal/orders/domain"
	"github.com/tolvstad/ordersync/internal/orders/metrics"
	"github.com/tolvstad/ordersync/internal/orders/ports"
	"github.com/tolvstad/ordersync/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ObservableProcessor wraps an OrderProcessor with tracing, metrics and
// structured logging at the processing extension point.
type ObservableProcessor struct {
	processor OrderProcessor
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewObservableProcessor(processor OrderProcessor, logger *slog.Logger, metrics *metrics.Metrics) *ObservableProcessor {
	return &ObservableProcessor{
		processor: processor,
		logger:    logger,
		metrics:   metrics,
	}
}

func (o *ObservableProcessor) Process(ctx context.Context, order domain.Order) (domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "Processor.Process")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.Int64("order.id", order.ID),
		attribute.Int("order.quantity", order.Quantity),
	)

	start := time.Now()
	processed, err := o.processor.Process(ctx, order)
	duration := time.Since(start).Seconds()

	o.metrics.RecordProcessDuration(ctx, duration)
	o.metrics.RecordOrderProcessed(ctx, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to process order",
			"order_id", order.ID,
			"error", err,
		)
		return domain.Order{}, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.Float64("order.total", processed.Total),
	)
	telemetry.SetSpanSuccess(span)

	return processed, nil
}

// ObservablePublisher wraps an EventPublisher, recording dual-write latency
// and outcome.
type ObservablePublisher struct {
	publisher ports.EventPublisher
	metrics   *metrics.Metrics
}

func NewObservablePublisher(publisher ports.EventPublisher, metrics *metrics.Metrics) *ObservablePublisher {
	return &ObservablePublisher{
		publisher: publisher,
		metrics:   metrics,
	}
}

func (o *ObservablePublisher) Publish(ctx context.Context, order domain.Order) error {
	ctx, span := telemetry.StartSpan(ctx, "Publisher.Publish")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.Int64("order.id", order.ID),
		attribute.String("event.type", DetailTypeOrderCreated),
	)

	start := time.Now()
	err := o.publisher.Publish(ctx, order)
	duration := time.Since(start).Seconds()

	o.metrics.RecordPublish(ctx, duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
