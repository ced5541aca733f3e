// Package worker drains buffered audit events into the store. The async
// publisher runs one over its inbox; batch jobs that own a channel can run
// their own.
package worker

import (
	"context"
	"log/slog"
	"time"

	audit "innoport/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them. Append
// failures are logged, never fatal: one bad row must not stop the drain.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run consumes until ctx is cancelled, then flushes whatever is already
// buffered before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.flush()
			return ctx.Err()
		case event := <-w.inbox:
			w.append(event)
		}
	}
}

func (w *Worker) flush() {
	for {
		select {
		case event := <-w.inbox:
			w.append(event)
		default:
			return
		}
	}
}

func (w *Worker) append(event audit.Event) {
	// Appends get their own deadline; the request context that produced
	// the event may already be gone.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.store.Append(ctx, event); err != nil && w.logger != nil {
		w.logger.Error("audit append failed",
			"action", event.Action,
			"error", err,
		)
	}
}
