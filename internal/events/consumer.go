package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

type OrderCreatedHandler func(ctx context.Context, e OrderCreated) error

// Consumer reads order_created events from Kafka and passes them to a handler.
type Consumer struct {
	reader *kafka.Reader
	handle OrderCreatedHandler
}

func NewConsumer(topic, groupID string, handle OrderCreatedHandler, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader, handle: handle}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		slog.Error("error closing kafka reader", "error", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.Error("error reading message", "error", err)
		return
	}

	if t := headerValue(m.Headers, "event_type"); t != "" && t != OrderCreatedType {
		slog.Debug("skipping event", "event_type", t, "offset", m.Offset)
		return
	}

	var event OrderCreated
	if err := json.Unmarshal(m.Value, &event); err != nil {
		slog.Error("error parsing message", "error", err, "offset", m.Offset)
		return
	}

	if err := c.handle(ctx, event); err != nil {
		slog.Error("order_created handler failed", "order_id", event.OrderID, "error", err)
	}
}

func headerValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
