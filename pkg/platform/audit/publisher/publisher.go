// Package publisher emits audit events to a store, either synchronously or
// through a buffered channel drained by a background worker so domain
// services never block on the audit write.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	id "innoport/pkg/domain"
	audit "innoport/pkg/platform/audit"
	"innoport/pkg/platform/audit/worker"
	"innoport/pkg/platform/middleware/metadata"
	"innoport/pkg/requestcontext"
)

// Publisher fans audit events out to its store.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	inbox  chan audit.Event
	cancel context.CancelFunc
	closed sync.Once
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to async mode with the given
// channel capacity. When the buffer is full Emit falls back to a synchronous
// append rather than dropping the event.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, size)
	}
}

// WithLogger attaches a logger for background append failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		ctx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel
		w := worker.NewWorker(p.store, p.inbox, p.logger)
		go func() { _ = w.Run(ctx) }()
	}
	return p
}

// Emit records an audit event. The category is derived from the action when
// the caller did not set one.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = metadata.GetClientIP(ctx)
	}
	if event.UserAgent == "" {
		event.UserAgent = metadata.GetUserAgent(ctx)
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		return p.store.Append(ctx, event)
	}
}

// List exposes the store's per-user listing for handlers and tests.
func (p *Publisher) List(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	return p.store.ListByUser(ctx, userID)
}

// Close stops the background worker, which flushes the buffer before
// exiting. Safe to call twice.
func (p *Publisher) Close() {
	p.closed.Do(func() {
		if p.cancel != nil {
			p.cancel()
		}
	})
}
