package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        uuid.UUID  `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []CartItem `json:"items"`
}

type CartItem struct {
	ID       int64      `json:"id"`
	CartID   uuid.UUID  `json:"cart_id"`
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
}

// ProductRef is the short form of a product embedded in carts and orders.
// Price is the current catalog price at the time the ref was read.
type ProductRef struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

func (i CartItem) TotalPrice() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
