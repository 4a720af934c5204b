package adapters

import (
	"context"
	"strconv"
	"time"

	"github.com/tolvstad/ordersync/internal/database"
	"github.com/tolvstad/ordersync/internal/orders/domain"
	"github.com/tolvstad/ordersync/internal/orders/ports"
	"github.com/tolvstad/ordersync/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ObservableRepository decorates an order repository with tracing and
// query-duration metrics.
type ObservableRepository struct {
	repo    ports.OrderRepository
	metrics *database.Metrics
}

func NewObservableRepository(repo ports.OrderRepository, metrics *database.Metrics) *ObservableRepository {
	return &ObservableRepository{
		repo:    repo,
		metrics: metrics,
	}
}

func (r *ObservableRepository) Save(ctx context.Context, order domain.Order) (domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.Save")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", strconv.FormatInt(order.ID, 10)),
		attribute.String("operation", "save"),
	)

	start := time.Now()
	saved, err := r.repo.Save(ctx, order)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "save_order", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return domain.Order{}, err
	}

	telemetry.SetSpanSuccess(span)
	return saved, nil
}

func (r *ObservableRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.FindAll")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("operation", "find_all"),
	)

	start := time.Now()
	orders, err := r.repo.FindAll(ctx)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "find_all_orders", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("result.count", len(orders)))
	telemetry.SetSpanSuccess(span)
	return orders, nil
}

func (r *ObservableRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository.FindByID")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", strconv.FormatInt(id, 10)),
		attribute.String("operation", "find_by_id"),
	)

	start := time.Now()
	order, err := r.repo.FindByID(ctx, id)
	duration := time.Since(start).Seconds()

	r.metrics.RecordQuery(ctx, "find_order_by_id", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.SetSpanSuccess(span)
	return order, nil
}
