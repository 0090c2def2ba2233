package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerSink short-circuits a sink after consecutive failures so a dead broker
// does not cost every event a full send timeout.
type BreakerSink struct {
	next Sink
	cb   *gobreaker.CircuitBreaker[struct{}]
}

func NewBreakerSink(name string, next Sink, failureThreshold uint32, openTimeout time.Duration) *BreakerSink {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &BreakerSink{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

func (b *BreakerSink) Send(ctx context.Context, e Event) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.Send(ctx, e)
	})
	return err
}

func (b *BreakerSink) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerSink) Close() error {
	return b.next.Close()
}
