package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultBufferSize  = 256
	DefaultSendTimeout = 5 * time.Second
)

// Dispatcher hands events to a sink from a single background goroutine.
// Publish never blocks: when the buffer is full the event is dropped and logged.
type Dispatcher struct {
	sink        Sink
	queue       chan Event
	sendTimeout time.Duration
	done        chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sink Sink, bufferSize int, sendTimeout time.Duration) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}
	return &Dispatcher{
		sink:        sink,
		queue:       make(chan Event, bufferSize),
		sendTimeout: sendTimeout,
		done:        make(chan struct{}),
	}
}

func (d *Dispatcher) Start() {
	go d.run()
}

// Publish enqueues e and reports whether it was accepted.
func (d *Dispatcher) Publish(e Event) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		slog.Warn("dispatcher closed, dropping event", "event_type", e.Type, "key", e.Key)
		return false
	}

	select {
	case d.queue <- e:
		return true
	default:
		slog.Warn("event queue full, dropping event", "event_type", e.Type, "key", e.Key)
		return false
	}
}

// Shutdown stops accepting events and waits until the queued ones are delivered
// or ctx expires. The sink is closed once the queue is drained.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return d.sink.Close()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for e := range d.queue {
		d.deliver(e)
	}
}

func (d *Dispatcher) deliver(e Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	if err := d.sink.Send(ctx, e); err != nil {
		slog.Error("failed to deliver event", "event_type", e.Type, "key", e.Key, "error", err)
		return
	}
	slog.Debug("event delivered", "event_type", e.Type, "key", e.Key)
}
