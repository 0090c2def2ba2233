package http

import (
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// money renders a decimal amount with exactly two places.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type SimpleProductDTO struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Price string `json:"price"`
}

func toSimpleProductDTO(p domain.ProductRef) SimpleProductDTO {
	return SimpleProductDTO{ID: p.ID, Title: p.Title, Price: money(p.Price)}
}

// Carts

type CartItemDTO struct {
	ID         int64            `json:"id"`
	Product    SimpleProductDTO `json:"product"`
	Quantity   int              `json:"quantity"`
	TotalPrice string           `json:"total_price"`
}

type CartDTO struct {
	ID         uuid.UUID     `json:"id"`
	Items      []CartItemDTO `json:"items"`
	TotalPrice string        `json:"total_price"`
}

type AddCartItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateCartItemRequestDTO struct {
	Quantity int `json:"quantity"`
}

func toCartItemDTO(item domain.CartItem) CartItemDTO {
	return CartItemDTO{
		ID:         item.ID,
		Product:    toSimpleProductDTO(item.Product),
		Quantity:   item.Quantity,
		TotalPrice: money(item.TotalPrice()),
	}
}

func toCartItemDTOs(items []domain.CartItem) []CartItemDTO {
	out := make([]CartItemDTO, len(items))
	for i, item := range items {
		out[i] = toCartItemDTO(item)
	}
	return out
}

func toCartDTO(c *domain.Cart) CartDTO {
	return CartDTO{
		ID:         c.ID,
		Items:      toCartItemDTOs(c.Items),
		TotalPrice: money(c.TotalPrice()),
	}
}

// Orders

type OrderItemDTO struct {
	ID        int64            `json:"id"`
	Quantity  int              `json:"quantity"`
	UnitPrice string           `json:"unit_price"`
	Product   SimpleProductDTO `json:"product"`
}

type OrderDTO struct {
	ID            int64          `json:"id"`
	Customer      int64          `json:"customer"`
	PlacedAt      time.Time      `json:"placed_at"`
	PaymentStatus string         `json:"payment_status"`
	Items         []OrderItemDTO `json:"items"`
}

type CreateOrderRequestDTO struct {
	CartID string `json:"cart_id"`
}

type UpdateOrderRequestDTO struct {
	PaymentStatus string `json:"payment_status"`
}

func toOrderDTO(o *domain.Order) OrderDTO {
	items := make([]OrderItemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemDTO{
			ID:        item.ID,
			Quantity:  item.Quantity,
			UnitPrice: money(item.UnitPrice),
			Product:   toSimpleProductDTO(item.Product),
		}
	}
	return OrderDTO{
		ID:            o.ID,
		Customer:      o.CustomerID,
		PlacedAt:      o.PlacedAt,
		PaymentStatus: string(o.PaymentStatus),
		Items:         items,
	}
}

// Catalog

type CollectionDTO struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	FeaturedProduct *int64 `json:"featured_product"`
	ProductsCount   int    `json:"products_count"`
}

type CollectionRequestDTO struct {
	Title           string `json:"title"`
	FeaturedProduct *int64 `json:"featured_product"`
}

func toCollectionDTO(c domain.Collection) CollectionDTO {
	return CollectionDTO{
		ID:              c.ID,
		Title:           c.Title,
		FeaturedProduct: c.FeaturedProductID,
		ProductsCount:   c.ProductsCount,
	}
}

type ProductDTO struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Price        string    `json:"price"`
	PriceWithTax string    `json:"price_with_tax"`
	Collection   int64     `json:"collection"`
	Inventory    int       `json:"inventory"`
	Promotions   []int64   `json:"promotions"`
	LastUpdate   time.Time `json:"last_update"`
}

type ProductRequestDTO struct {
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Collection  int64           `json:"collection"`
	Inventory   int             `json:"inventory"`
	Promotions  []int64         `json:"promotions"`
}

func (req ProductRequestDTO) toDomain(id int64) *domain.Product {
	return &domain.Product{
		ID:           id,
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		Price:        req.Price,
		CollectionID: req.Collection,
		Inventory:    req.Inventory,
		PromotionIDs: req.Promotions,
	}
}

func toProductDTO(p domain.Product) ProductDTO {
	promotions := p.PromotionIDs
	if promotions == nil {
		promotions = []int64{}
	}
	return ProductDTO{
		ID:           p.ID,
		Title:        p.Title,
		Slug:         p.Slug,
		Description:  p.Description,
		Price:        money(p.Price),
		PriceWithTax: money(p.PriceWithTax()),
		Collection:   p.CollectionID,
		Inventory:    p.Inventory,
		Promotions:   promotions,
		LastUpdate:   p.LastUpdate,
	}
}

type PromotionDTO struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Discount    float64 `json:"discount"`
}

type ReviewDTO struct {
	ID          int64  `json:"id"`
	ReviewedAt  string `json:"reviewed_at"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ReviewRequestDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toReviewDTO(rv domain.Review) ReviewDTO {
	return ReviewDTO{
		ID:          rv.ID,
		ReviewedAt:  rv.ReviewedAt.Format(time.DateOnly),
		Name:        rv.Name,
		Description: rv.Description,
	}
}

type ProductImageDTO struct {
	ID    int64  `json:"id"`
	Image string `json:"image"`
}

type ProductImageRequestDTO struct {
	Image string `json:"image"`
}

func toProductImageDTO(img domain.ProductImage) ProductImageDTO {
	return ProductImageDTO{ID: img.ID, Image: img.Image}
}

// Customers

type CustomerDTO struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"user_id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	BirthDate  *string `json:"birth_date"`
	Membership string  `json:"membership"`
}

type CustomerRequestDTO struct {
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	BirthDate  *string `json:"birth_date"`
	Membership string  `json:"membership"`
}

func (req CustomerRequestDTO) toDomain() (*domain.Customer, error) {
	c := &domain.Customer{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Membership: domain.Membership(req.Membership),
	}
	if req.BirthDate != nil && *req.BirthDate != "" {
		d, err := time.Parse(time.DateOnly, *req.BirthDate)
		if err != nil {
			return nil, &domain.ValidationError{Field: "birth_date", Message: "date has wrong format, use YYYY-MM-DD"}
		}
		c.BirthDate = &d
	}
	return c, nil
}

func toCustomerDTO(c *domain.Customer) CustomerDTO {
	dto := CustomerDTO{
		ID:         c.ID,
		UserID:     c.UserID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		Phone:      c.Phone,
		Membership: string(c.Membership),
	}
	if c.BirthDate != nil {
		s := c.BirthDate.Format(time.DateOnly)
		dto.BirthDate = &s
	}
	return dto
}
