package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "P"
	PaymentStatusComplete PaymentStatus = "C"
	PaymentStatusFailed   PaymentStatus = "F"
)

var IllegalTransitionError = errors.New("illegal transition of payment status")

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusComplete || s == PaymentStatusFailed
}

func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusPending || s.IsTerminal()
}

// Label is the human readable name of the status (for logging)
func (s PaymentStatus) Label() string {
	switch s {
	case PaymentStatusPending:
		return "Pending"
	case PaymentStatusComplete:
		return "Complete"
	case PaymentStatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// CanTransitionTo reports whether an order may move from one payment status to another.
// Pending is the only non-terminal status.
func CanTransitionTo(from, to PaymentStatus) bool {
	return from == PaymentStatusPending && to.IsTerminal()
}

type Order struct {
	ID            int64
	CustomerID    int64
	PlacedAt      time.Time
	PaymentStatus PaymentStatus
	Items         []OrderItem
}

// OrderItem keeps the unit price the product had when the order was placed.
type OrderItem struct {
	ID        int64
	OrderID   int64
	Product   ProductRef
	Quantity  int
	UnitPrice decimal.Decimal
}

func NewOrder(customerID int64) *Order {
	return &Order{
		CustomerID:    customerID,
		PaymentStatus: PaymentStatusPending,
	}
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}
