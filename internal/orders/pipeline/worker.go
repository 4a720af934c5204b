package pipeline

import (
	"context"
	"errors"
	"log/slog"
)

// Drainer runs one full pass over the inbound queue.
type Drainer interface {
	Drain(ctx context.Context) (DrainResult, error)
}

// Worker owns the drain loop lifecycle. It is started once at process startup
// and guarantees at most one drain runs at a time; HTTP handlers only nudge it
// via Trigger. The single-slot trigger channel coalesces nudges that arrive
// while a drain is in flight.
type Worker struct {
	drainer Drainer
	logger  *slog.Logger
	trigger chan struct{}
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWorker constructs a stopped Worker.
func NewWorker(drainer Drainer, logger *slog.Logger) *Worker {
	return &Worker{
		drainer: drainer,
		logger:  logger,
		trigger: make(chan struct{}, 1),
	}
}

// Start launches the supervising goroutine. Cancellation of ctx stops it
// between polls and between messages.
func (w *Worker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.run(ctx)
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	w.logger.InfoContext(ctx, "drain worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "drain worker stopped")
			return
		case <-w.trigger:
			result, err := w.drainer.Drain(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				w.logger.ErrorContext(ctx, "drain aborted", "error", err)
				continue
			}
			w.logger.InfoContext(ctx, "drain complete",
				"received", result.Received,
				"processed", result.Processed,
				"acknowledged", result.Acknowledged,
				"failed", result.Failed,
			)
		}
	}
}

// Trigger requests a drain without blocking. Requests arriving while a drain
// is already pending or running collapse into one.
func (w *Worker) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Stop cancels the worker and waits for the current drain to finish, bounded
// by ctx.
func (w *Worker) Stop(ctx context.Context) error {
	if w.cancel == nil {
		return nil
	}
	w.cancel()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
