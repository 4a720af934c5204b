package pipeline

import (
	"context"
	"fmt"

	"github.com/tolvstad/ordersync/internal/orders/domain"
	"github.com/tolvstad/ordersync/internal/orders/ports"
)

// OrderProcessor applies the idempotent processing transformation to an order
// and persists the result.
type OrderProcessor interface {
	Process(ctx context.Context, order domain.Order) (domain.Order, error)
}

// Processor recomputes the derived total, marks the order processed and
// writes it to the store. Reapplying to the same logical order is safe, which
// is what makes at-least-once delivery from the queue tolerable.
type Processor struct {
	repo ports.OrderRepository
}

// NewProcessor constructs a Processor.
func NewProcessor(repo ports.OrderRepository) *Processor {
	return &Processor{repo: repo}
}

// Process returns the persisted order with total = quantity * amount and
// processed = true. The only failure mode is the store write.
func (p *Processor) Process(ctx context.Context, order domain.Order) (domain.Order, error) {
	order.MarkProcessed()

	saved, err := p.repo.Save(ctx, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return saved, nil
}
