package events

import (
	"context"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerSink_TripsAfterConsecutiveFailures(t *testing.T) {
	sink := newMockSink()
	sink.err = errSinkDown
	b := NewBreakerSink("test", sink, 3, time.Minute)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Send(ctx, testEvent(i)), errSinkDown)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	err := b.Send(ctx, testEvent(4))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, sink.Calls(), "open breaker must not reach the sink")
}

func TestBreakerSink_RecoversAfterTimeout(t *testing.T) {
	sink := newMockSink()
	sink.err = errSinkDown
	b := NewBreakerSink("test", sink, 1, 50*time.Millisecond)

	ctx := context.Background()
	require.Error(t, b.Send(ctx, testEvent(1)))
	assert.Equal(t, gobreaker.StateOpen, b.State())

	sink.mu.Lock()
	sink.err = nil
	sink.mu.Unlock()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, b.Send(ctx, testEvent(2)))
	assert.Equal(t, gobreaker.StateClosed, b.State())
}
