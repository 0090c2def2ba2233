package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/fjod/storefront/internal/domain"
)

const OrderCreatedType = "order_created"

// Event is what travels through the dispatcher to a sink. Key is used for
// partitioning so all events of one order stay ordered.
type Event struct {
	Type    string
	Key     string
	Payload []byte
}

type OrderCreated struct {
	OrderID    int64     `json:"order_id"`
	CustomerID int64     `json:"customer_id"`
	PlacedAt   time.Time `json:"placed_at"`
	ItemCount  int       `json:"item_count"`
	Total      string    `json:"total"`
}

func NewOrderCreated(order *domain.Order) (Event, error) {
	payload, err := json.Marshal(OrderCreated{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		PlacedAt:   order.PlacedAt,
		ItemCount:  len(order.Items),
		Total:      order.Total().StringFixed(2),
	})
	if err != nil {
		return Event{}, fmt.Errorf("marshal order_created: %w", err)
	}
	return Event{
		Type:    OrderCreatedType,
		Key:     strconv.FormatInt(order.ID, 10),
		Payload: payload,
	}, nil
}

// Sink delivers a single event to an external system.
type Sink interface {
	Send(ctx context.Context, e Event) error
	Close() error
}
