package audit

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const defaultBuffer = 256

// Publisher queues audit events for a Worker so request paths never wait on a
// sink. When the queue is full the event is dropped and counted.
type Publisher struct {
	inbox   chan Event
	logger  *slog.Logger
	dropped atomic.Int64
}

type PublisherOption func(*Publisher)

func WithBuffer(n int) PublisherOption {
	return func(p *Publisher) {
		if n > 0 {
			p.inbox = make(chan Event, n)
		}
	}
}

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{inbox: make(chan Event, defaultBuffer)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit stamps the event and enqueues it without blocking.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		p.dropped.Add(1)
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit queue full, event dropped",
				"action", string(event.Action),
				"country_id", event.CountryID,
			)
		}
	}
	return nil
}

// Dropped returns how many events were discarded because the queue was full.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

// Inbox exposes the queue for a Worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}
