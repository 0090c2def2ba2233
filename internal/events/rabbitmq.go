package events

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "storefront"
	exchangeType    = "topic"
)

type RabbitMQSink struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewRabbitMQSink dials the broker, retrying while it starts up, and declares
// a durable topic exchange.
func NewRabbitMQSink(url, exchange string) (*RabbitMQSink, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		slog.Warn("failed to connect to rabbitmq", "attempt", i+1, "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("could not connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,     // name
		exchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("could not declare exchange: %w", err)
	}

	return &RabbitMQSink{conn: conn, ch: ch, exchange: exchange}, nil
}

// routingKey maps an event type to a topic routing key, order_created -> order.created.
func routingKey(eventType string) string {
	return strings.ReplaceAll(eventType, "_", ".")
}

func (r *RabbitMQSink) Send(ctx context.Context, e Event) error {
	return r.ch.PublishWithContext(ctx,
		r.exchange,
		routingKey(e.Type),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    e.Key,
			Type:         e.Type,
			Timestamp:    time.Now(),
			Body:         e.Payload,
		},
	)
}

func (r *RabbitMQSink) Close() error {
	if err := r.ch.Close(); err != nil {
		slog.Warn("error closing rabbitmq channel", "error", err)
	}
	return r.conn.Close()
}
