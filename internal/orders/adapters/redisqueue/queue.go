// Package redisqueue adapts a Redis list pair to the inbound queue port using
// the reliable queue pattern: Receive moves elements from the pending list to
// a processing list, Delete removes them from the processing list. Elements
// left on the processing list belong to crashed or stalled consumers and can
// be returned to pending with Redrive.
package redisqueue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tolvstad/ordersync/internal/orders/ports"
)

type Queue struct {
	client     *redis.Client
	pending    string
	processing string
}

// New constructs a Queue over the named pending list. The processing list is
// derived by suffix.
func New(client *redis.Client, name string) *Queue {
	return &Queue{
		client:     client,
		pending:    name,
		processing: name + ":processing",
	}
}

// Receive blocks up to wait for the first message, then collects up to max
// without further waiting. A nil slice means the queue was empty for the
// whole wait.
func (q *Queue) Receive(ctx context.Context, max int, wait time.Duration) ([]ports.Message, error) {
	first, err := q.client.BLMove(ctx, q.pending, q.processing, "LEFT", "RIGHT", wait).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("receive from %s: %w", q.pending, err)
	}

	messages := []ports.Message{{Receipt: first, Body: []byte(first)}}

	for len(messages) < max {
		next, err := q.client.LMove(ctx, q.pending, q.processing, "LEFT", "RIGHT").Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				break
			}
			return messages, fmt.Errorf("receive from %s: %w", q.pending, err)
		}
		messages = append(messages, ports.Message{Receipt: next, Body: []byte(next)})
	}

	return messages, nil
}

// Delete acknowledges a received message by removing its element from the
// processing list. A receipt that is no longer there means the message was
// already redriven, which counts as an acknowledgment failure.
func (q *Queue) Delete(ctx context.Context, receipt string) error {
	removed, err := q.client.LRem(ctx, q.processing, 1, receipt).Result()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", q.processing, err)
	}
	if removed == 0 {
		return fmt.Errorf("delete from %s: receipt not found", q.processing)
	}
	return nil
}

// Redrive returns every element on the processing list to the pending list
// and reports how many moved. Maintenance operation; the drain loop never
// calls it.
func (q *Queue) Redrive(ctx context.Context) (int, error) {
	moved := 0
	for {
		_, err := q.client.LMove(ctx, q.processing, q.pending, "LEFT", "RIGHT").Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return moved, nil
			}
			return moved, fmt.Errorf("redrive %s: %w", q.processing, err)
		}
		moved++
	}
}
