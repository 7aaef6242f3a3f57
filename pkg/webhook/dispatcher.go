package webhook

import (
	"context"
	"log/slog"
	"sync"

	"github.com/flagmate/flagmate/pkg/events"
)

// Endpoint is one webhook destination with its signing secret.
type Endpoint struct {
	URL     string
	Secret  string
	Enabled bool
}

// Dispatcher consumes domain events from a broker subscription and
// delivers them to the configured endpoints. Delivery failures are logged
// and do not stop the dispatch loop; a broken endpoint never blocks the
// event stream for the others.
type Dispatcher struct {
	sender    *Sender
	endpoints func() []Endpoint
	log       *slog.Logger

	wg sync.WaitGroup
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger routes delivery logs to the given logger.
func WithDispatcherLogger(log *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDispatcher creates a dispatcher. The endpoints func is consulted per
// event so endpoint configuration changes apply without a restart.
func NewDispatcher(sender *Sender, endpoints func() []Endpoint, opts ...DispatcherOption) (*Dispatcher, error) {
	if sender == nil {
		return nil, ErrSenderRequired
	}
	if endpoints == nil {
		return nil, ErrEndpointsRequired
	}
	d := &Dispatcher{
		sender:    sender,
		endpoints: endpoints,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Run consumes events until the subscription channel closes or the context
// is canceled. Call in its own goroutine; Wait blocks until in-flight
// deliveries finish.
func (d *Dispatcher) Run(ctx context.Context, sub <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub:
			if !ok {
				return
			}
			d.dispatch(ctx, event)
		}
	}
}

// Wait blocks until all in-flight deliveries have completed.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(ctx context.Context, event events.Event) {
	for _, endpoint := range d.endpoints() {
		if !endpoint.Enabled {
			continue
		}
		d.wg.Add(1)
		go func(endpoint Endpoint) {
			defer d.wg.Done()
			if err := d.sender.Send(ctx, endpoint.URL, endpoint.Secret, event); err != nil {
				d.log.WarnContext(ctx, "webhook delivery failed",
					"url", endpoint.URL, "kind", string(event.Kind()), "error", err)
			}
		}(endpoint)
	}
}
