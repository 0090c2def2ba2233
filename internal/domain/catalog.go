package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var taxRate = decimal.RequireFromString("1.1")

type Collection struct {
	ID                int64
	Title             string
	FeaturedProductID *int64
	ProductsCount     int
}

type Product struct {
	ID           int64
	Title        string
	Slug         string
	Description  string
	Inventory    int
	Price        decimal.Decimal
	LastUpdate   time.Time
	CollectionID int64
	PromotionIDs []int64
}

// PriceWithTax is the unit price including the flat 10% tax, rounded to cents.
func (p Product) PriceWithTax() decimal.Decimal {
	return p.Price.Mul(taxRate).Round(2)
}

func (p Product) Ref() ProductRef {
	return ProductRef{ID: p.ID, Title: p.Title, Price: p.Price}
}

type Promotion struct {
	ID          int64
	Description string
	Discount    float64
}

type Review struct {
	ID          int64
	ProductID   int64
	Name        string
	Description string
	ReviewedAt  time.Time
}

// ProductImage is a stored image path attached to a product.
type ProductImage struct {
	ID        int64
	ProductID int64
	Image     string
}
