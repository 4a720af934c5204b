package pipeline_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/tolvstad/ordersync/internal/orders/domain"
	"github.com/tolvstad/ordersync/internal/orders/metrics"
	"github.com/tolvstad/ordersync/internal/orders/ports"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := metrics.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}
	return m
}

type mockRepository struct {
	saveFn     func(ctx context.Context, order domain.Order) (domain.Order, error)
	findAllFn  func(ctx context.Context) ([]domain.Order, error)
	findByIDFn func(ctx context.Context, id int64) (*domain.Order, error)
}

func (m *mockRepository) Save(ctx context.Context, order domain.Order) (domain.Order, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, order)
	}
	return order, nil
}

func (m *mockRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return nil, nil
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, ports.ErrNotFound
}

type mockQueue struct {
	receiveFn func(ctx context.Context, max int, wait time.Duration) ([]ports.Message, error)
	deleteFn  func(ctx context.Context, receipt string) error
}

func (m *mockQueue) Receive(ctx context.Context, max int, wait time.Duration) ([]ports.Message, error) {
	if m.receiveFn != nil {
		return m.receiveFn(ctx, max, wait)
	}
	return nil, nil
}

func (m *mockQueue) Delete(ctx context.Context, receipt string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, receipt)
	}
	return nil
}

type mockTopic struct {
	publishFn func(ctx context.Context, payload []byte) error
	payloads  [][]byte
}

func (m *mockTopic) Publish(ctx context.Context, payload []byte) error {
	if m.publishFn != nil {
		return m.publishFn(ctx, payload)
	}
	m.payloads = append(m.payloads, payload)
	return nil
}

type mockBus struct {
	putEventFn func(ctx context.Context, entry ports.BusEntry) error
	entries    []ports.BusEntry
}

func (m *mockBus) PutEvent(ctx context.Context, entry ports.BusEntry) error {
	if m.putEventFn != nil {
		return m.putEventFn(ctx, entry)
	}
	m.entries = append(m.entries, entry)
	return nil
}
