package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/ports"
)

var ErrAsyncClosed = errors.New("notify: async notifier is closed")

// Driver is a synchronous notifier that owns a connection.
type Driver interface {
	ports.Notifier
	Close() error
}

// AsyncConfig tunes the delivery worker.
type AsyncConfig struct {
	Buffer  int
	Timeout time.Duration
}

// Async hands events to a single worker goroutine, so Notify never waits on
// the broker and events keep their commit order. A full buffer drops the
// event; failures are logged and counted.
type Async struct {
	driver  Driver
	events  chan ports.OrderEvent
	timeout time.Duration
	logger  *slog.Logger
	metrics *Metrics

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewAsync(driver Driver, cfg AsyncConfig, metrics *Metrics, logger *slog.Logger) *Async {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 256
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	a := &Async{
		driver:  driver,
		events:  make(chan ports.OrderEvent, cfg.Buffer),
		timeout: cfg.Timeout,
		logger:  logger.With("component", "notifier"),
		metrics: metrics,
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

// Notify enqueues the event. It only fails after Close.
func (a *Async) Notify(_ context.Context, event ports.OrderEvent) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrAsyncClosed
	}

	select {
	case a.events <- event:
	default:
		a.metrics.dropped.Inc()
		a.logger.Warn("notification buffer full, event dropped",
			slog.String("type", string(event.Type)),
			slog.String("order_id", event.OrderID.String()),
		)
	}
	return nil
}

func (a *Async) run() {
	defer close(a.done)
	for event := range a.events {
		a.deliver(event)
	}
}

func (a *Async) deliver(event ports.OrderEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if err := a.driver.Notify(ctx, event); err != nil {
		a.metrics.failed.WithLabelValues(string(event.Type)).Inc()
		a.logger.ErrorContext(ctx, "failed to deliver order event",
			slog.String("type", string(event.Type)),
			slog.String("order_id", event.OrderID.String()),
			slog.Any("error", err),
		)
		return
	}
	a.metrics.delivered.WithLabelValues(string(event.Type)).Inc()
}

// Close stops accepting events, drains the buffer and closes the driver. It
// gives up waiting for the drain when ctx ends.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.events)
	a.mu.Unlock()

	select {
	case <-a.done:
	case <-ctx.Done():
		return errors.Join(ctx.Err(), a.driver.Close())
	}
	return a.driver.Close()
}
