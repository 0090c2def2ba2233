package service

import (
	"context"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/events"
	"github.com/fjod/storefront/internal/repository"
	"github.com/google/uuid"
)

type Transactor interface {
	RunInTx(ctx context.Context, fn func(tx repository.CheckoutTx) error) error
}

type EventPublisher interface {
	Publish(e events.Event) bool
}

type CartRepository interface {
	CreateCart(ctx context.Context) (*domain.Cart, error)
	GetCart(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error)
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
	GetCartItem(ctx context.Context, cartID uuid.UUID, itemID int64) (*domain.CartItem, error)
	AddCartItem(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) (*domain.CartItem, error)
	UpdateCartItem(ctx context.Context, cartID uuid.UUID, itemID int64, quantity int) (*domain.CartItem, error)
	DeleteCartItem(ctx context.Context, cartID uuid.UUID, itemID int64) error
}

type CatalogRepository interface {
	ListCollections(ctx context.Context) ([]domain.Collection, error)
	GetCollection(ctx context.Context, id int64) (*domain.Collection, error)
	CreateCollection(ctx context.Context, c *domain.Collection) error
	UpdateCollection(ctx context.Context, c *domain.Collection) error
	DeleteCollection(ctx context.Context, id int64) error

	ListProducts(ctx context.Context, collectionID *int64) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error

	ListPromotions(ctx context.Context) ([]domain.Promotion, error)
	CreatePromotion(ctx context.Context, p *domain.Promotion) error

	ListReviews(ctx context.Context, productID int64) ([]domain.Review, error)
	CreateReview(ctx context.Context, r *domain.Review) error

	ListProductImages(ctx context.Context, productID int64) ([]domain.ProductImage, error)
	GetProductImage(ctx context.Context, productID, id int64) (*domain.ProductImage, error)
	CreateProductImage(ctx context.Context, img *domain.ProductImage) error
	UpdateProductImage(ctx context.Context, img *domain.ProductImage) error
	DeleteProductImage(ctx context.Context, productID, id int64) error
}

type CustomerRepository interface {
	GetCustomerByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetCustomerByUserID(ctx context.Context, userID int64) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
	UpsertCustomer(ctx context.Context, c *domain.Customer) error
}

type OrderRepository interface {
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, customerID *int64) ([]*domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, id int64, from, to domain.PaymentStatus) error
	DeleteOrder(ctx context.Context, id int64) error
}
