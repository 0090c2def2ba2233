package events

import (
	"context"
	"errors"
	"sync"
)

var errSinkDown = errors.New("sink down")

type mockSink struct {
	mu      sync.Mutex
	sent    []Event
	calls   int
	err     error
	block   chan struct{}
	closed  bool
	arrived chan Event
}

func newMockSink() *mockSink {
	return &mockSink{arrived: make(chan Event, 100)}
}

func (m *mockSink) Send(ctx context.Context, e Event) error {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	m.calls++
	err := m.err
	if err == nil {
		m.sent = append(m.sent, e)
	}
	m.mu.Unlock()

	if err == nil {
		m.arrived <- e
	}
	return err
}

func (m *mockSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockSink) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockSink) Sent() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.sent...)
}
