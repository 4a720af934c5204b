package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tolvstad/ordersync/internal/orders/metrics"
	"github.com/tolvstad/ordersync/internal/orders/ports"
)

const (
	// DefaultBatchSize bounds how many messages one poll may return.
	DefaultBatchSize = 10

	// DefaultReceiveWait bounds how long one poll may block.
	DefaultReceiveWait = 10 * time.Second
)

// DrainResult summarizes one full pass over the inbound queue.
type DrainResult struct {
	Received     int
	Processed    int
	Acknowledged int
	Failed       int
}

// Consumer drives the drain loop: poll, decode, process, acknowledge. Each
// message succeeds or fails on its own; a bad message is logged, left
// unacknowledged for redelivery and never aborts the batch.
type Consumer struct {
	queue     ports.InboundQueue
	processor OrderProcessor
	logger    *slog.Logger
	metrics   *metrics.Metrics
	batchSize int
	wait      time.Duration
}

// ConsumerOption overrides a batch bound.
type ConsumerOption func(*Consumer)

// WithBatchSize caps how many messages one poll may return.
func WithBatchSize(n int) ConsumerOption {
	return func(c *Consumer) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithReceiveWait caps how long one poll may block.
func WithReceiveWait(d time.Duration) ConsumerOption {
	return func(c *Consumer) {
		if d > 0 {
			c.wait = d
		}
	}
}

// NewConsumer constructs a Consumer with the default batch bounds.
func NewConsumer(queue ports.InboundQueue, processor OrderProcessor, logger *slog.Logger, metrics *metrics.Metrics, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		queue:     queue,
		processor: processor,
		logger:    logger,
		metrics:   metrics,
		batchSize: DefaultBatchSize,
		wait:      DefaultReceiveWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Drain polls the queue until a poll returns zero messages, then stops. That
// only means the queue was empty at that poll, not that it stays empty.
// Acknowledgment happens after a successful store write, so delivery is
// at-least-once: an ack failure leaves an already-processed message
// redeliverable, which the processor's idempotence absorbs.
func (c *Consumer) Drain(ctx context.Context) (DrainResult, error) {
	var result DrainResult

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		messages, err := c.queue.Receive(ctx, c.batchSize, c.wait)
		if err != nil {
			return result, fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
		}

		c.logger.DebugContext(ctx, "received messages from the queue", "count", len(messages))

		if len(messages) == 0 {
			return result, nil
		}
		result.Received += len(messages)
		c.metrics.RecordMessagesReceived(ctx, len(messages))

		for _, msg := range messages {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			order, err := DecodeEnvelope(msg.Body)
			if err != nil {
				c.logger.WarnContext(ctx, "dropping message for redelivery",
					"error", err,
				)
				c.metrics.RecordMessageFailure(ctx, "decode")
				result.Failed++
				continue
			}

			processed, err := c.processor.Process(ctx, order)
			if err != nil {
				c.logger.ErrorContext(ctx, "order processing failed",
					"order_id", order.ID,
					"error", err,
				)
				c.metrics.RecordMessageFailure(ctx, "process")
				result.Failed++
				continue
			}
			result.Processed++

			if err := c.queue.Delete(ctx, msg.Receipt); err != nil {
				// The store write already happened; the message will come
				// back and be reprocessed.
				c.logger.ErrorContext(ctx, "acknowledge failed, message will be redelivered",
					"order_id", processed.ID,
					"error", err,
				)
				c.metrics.RecordMessageFailure(ctx, "acknowledge")
				result.Failed++
				continue
			}
			result.Acknowledged++
			c.metrics.RecordMessageAcknowledged(ctx)

			c.logger.InfoContext(ctx, "order processed",
				"order_id", processed.ID,
				"total", processed.Total,
			)
		}
	}
}
