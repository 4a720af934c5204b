package ports

import (
	"context"
	"time"
)

// Message is a single inbound queue delivery awaiting acknowledgment. The
// receipt handle is only valid between receipt and acknowledgment; the queue
// redelivers unacknowledged messages after its visibility timeout.
type Message struct {
	Receipt string
	Body    []byte
}

// InboundQueue is the durable queue the drain loop consumes from.
type InboundQueue interface {
	// Receive returns up to max messages, blocking up to wait for the first
	// one. An empty result means the queue was empty at poll time.
	Receive(ctx context.Context, max int, wait time.Duration) ([]Message, error)

	// Delete acknowledges a message, removing it from the queue.
	Delete(ctx context.Context, receipt string) error
}
