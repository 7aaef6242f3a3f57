package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Emitter is the port write paths publish through. A nil-safe no-op
// implementation is available via Discard for callers that don't care.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Discard is an Emitter that drops every event.
var Discard Emitter = discard{}

type discard struct{}

func (discard) Emit(context.Context, Event) error { return nil }

// Broker fans events out to subscriber channels. Publishing never blocks:
// when a subscriber's buffer is full the event is dropped for that
// subscriber, counted and logged. Consumers needing guaranteed delivery
// belong on a durable queue, not on this in-process broker.
type Broker struct {
	log     *slog.Logger
	bufSize int

	mu          sync.RWMutex
	subscribers []chan Event
	closed      bool

	dropped atomic.Int64
}

// BrokerOption configures a Broker.
type BrokerOption func(*Broker)

// WithBufferSize sets the per-subscriber channel buffer (default 64).
func WithBufferSize(n int) BrokerOption {
	return func(b *Broker) {
		if n > 0 {
			b.bufSize = n
		}
	}
}

// WithBrokerLogger routes drop warnings to the given logger.
func WithBrokerLogger(log *slog.Logger) BrokerOption {
	return func(b *Broker) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBroker creates an in-process event broker.
func NewBroker(opts ...BrokerOption) *Broker {
	b := &Broker{
		log:     slog.Default(),
		bufSize: 64,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a new subscriber and returns its receive channel.
// The channel is closed when the broker closes.
func (b *Broker) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.bufSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Emit publishes the event to every subscriber without blocking.
func (b *Broker) Emit(ctx context.Context, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBrokerClosed
	}

	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
			b.log.WarnContext(ctx, "event dropped, subscriber buffer full",
				"kind", string(event.Kind()), "event_id", event.EventID())
		}
	}
	return nil
}

// Dropped reports how many events were dropped due to full buffers.
func (b *Broker) Dropped() int64 {
	return b.dropped.Load()
}

// Close closes every subscriber channel. Emit after Close returns
// ErrBrokerClosed.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
	return nil
}
