package events

import (
	"context"
	"log/slog"
)

// LogSink writes events to the structured log. Used when no broker is configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (l *LogSink) Send(ctx context.Context, e Event) error {
	l.logger.InfoContext(ctx, "event published",
		"event_type", e.Type,
		"key", e.Key,
		"payload", string(e.Payload),
	)
	return nil
}

func (l *LogSink) Close() error { return nil }
