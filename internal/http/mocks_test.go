package http

import (
	"context"

	"github.com/fjod/storefront/internal/domain"
	"github.com/google/uuid"
)

type mockCartService struct {
	cart   *domain.Cart
	item   *domain.CartItem
	items  []domain.CartItem
	err    error
	calls  int
	gotQty int
}

func (m *mockCartService) CreateCart(ctx context.Context) (*domain.Cart, error) {
	m.calls++
	return m.cart, m.err
}

func (m *mockCartService) GetCart(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error) {
	m.calls++
	return m.cart, m.err
}

func (m *mockCartService) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	m.calls++
	return m.err
}

func (m *mockCartService) ListItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	m.calls++
	return m.items, m.err
}

func (m *mockCartService) GetItem(ctx context.Context, cartID uuid.UUID, itemID int64) (*domain.CartItem, error) {
	m.calls++
	return m.item, m.err
}

func (m *mockCartService) AddItem(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) (*domain.CartItem, error) {
	m.calls++
	m.gotQty = quantity
	return m.item, m.err
}

func (m *mockCartService) UpdateItem(ctx context.Context, cartID uuid.UUID, itemID int64, quantity int) (*domain.CartItem, error) {
	m.calls++
	m.gotQty = quantity
	return m.item, m.err
}

func (m *mockCartService) RemoveItem(ctx context.Context, cartID uuid.UUID, itemID int64) error {
	m.calls++
	return m.err
}

type mockCheckouter struct {
	order     *domain.Order
	err       error
	calls     int
	gotCartID uuid.UUID
	gotUserID int64
}

func (m *mockCheckouter) CheckoutForUser(ctx context.Context, cartID uuid.UUID, userID int64) (*domain.Order, error) {
	m.calls++
	m.gotCartID = cartID
	m.gotUserID = userID
	return m.order, m.err
}

type mockOrderService struct {
	orders    []*domain.Order
	order     *domain.Order
	err       error
	gotScope  *int64
	gotStatus domain.PaymentStatus
	deleted   int64
}

func (m *mockOrderService) ListOrders(ctx context.Context, customerID *int64) ([]*domain.Order, error) {
	m.gotScope = customerID
	return m.orders, m.err
}

func (m *mockOrderService) GetOrder(ctx context.Context, id int64, customerID *int64) (*domain.Order, error) {
	m.gotScope = customerID
	return m.order, m.err
}

func (m *mockOrderService) UpdatePaymentStatus(ctx context.Context, id int64, to domain.PaymentStatus) (*domain.Order, error) {
	m.gotStatus = to
	return m.order, m.err
}

func (m *mockOrderService) DeleteOrder(ctx context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = id
	return nil
}

type mockCustomerService struct {
	customer  *domain.Customer
	customers []*domain.Customer
	err       error
	updateErr error
	updated   *domain.Customer
}

func (m *mockCustomerService) Me(ctx context.Context, userID int64) (*domain.Customer, error) {
	return m.customer, m.err
}

func (m *mockCustomerService) UpdateMe(ctx context.Context, userID int64, c *domain.Customer) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	c.ID = 1
	c.UserID = userID
	m.updated = c
	return nil
}

func (m *mockCustomerService) List(ctx context.Context) ([]*domain.Customer, error) {
	return m.customers, m.err
}

func (m *mockCustomerService) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return m.customer, m.err
}

type mockCatalogService struct {
	collections []domain.Collection
	collection  *domain.Collection
	products    []domain.Product
	product     *domain.Product
	promotions  []domain.Promotion
	reviews     []domain.Review
	images      []domain.ProductImage
	err         error

	gotCollectionFilter *int64
	gotImage            *domain.ProductImage
}

func (m *mockCatalogService) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	return m.collections, m.err
}

func (m *mockCatalogService) GetCollection(ctx context.Context, id int64) (*domain.Collection, error) {
	return m.collection, m.err
}

func (m *mockCatalogService) CreateCollection(ctx context.Context, c *domain.Collection) error {
	if m.err != nil {
		return m.err
	}
	c.ID = 1
	return nil
}

func (m *mockCatalogService) UpdateCollection(ctx context.Context, c *domain.Collection) error {
	return m.err
}

func (m *mockCatalogService) DeleteCollection(ctx context.Context, id int64) error {
	return m.err
}

func (m *mockCatalogService) ListProducts(ctx context.Context, collectionID *int64) ([]domain.Product, error) {
	m.gotCollectionFilter = collectionID
	return m.products, m.err
}

func (m *mockCatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return m.product, m.err
}

func (m *mockCatalogService) CreateProduct(ctx context.Context, p *domain.Product) error {
	if m.err != nil {
		return m.err
	}
	p.ID = 1
	return nil
}

func (m *mockCatalogService) UpdateProduct(ctx context.Context, p *domain.Product) error {
	return m.err
}

func (m *mockCatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return m.err
}

func (m *mockCatalogService) ListPromotions(ctx context.Context) ([]domain.Promotion, error) {
	return m.promotions, m.err
}

func (m *mockCatalogService) CreatePromotion(ctx context.Context, p *domain.Promotion) error {
	if m.err != nil {
		return m.err
	}
	p.ID = 1
	return nil
}

func (m *mockCatalogService) ListReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	return m.reviews, m.err
}

func (m *mockCatalogService) CreateReview(ctx context.Context, r *domain.Review) error {
	if m.err != nil {
		return m.err
	}
	r.ID = 1
	return nil
}

func (m *mockCatalogService) ListProductImages(ctx context.Context, productID int64) ([]domain.ProductImage, error) {
	return m.images, m.err
}

func (m *mockCatalogService) GetProductImage(ctx context.Context, productID, id int64) (*domain.ProductImage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ProductImage{ID: id, ProductID: productID, Image: "store/images/a.jpg"}, nil
}

func (m *mockCatalogService) CreateProductImage(ctx context.Context, img *domain.ProductImage) error {
	m.gotImage = img
	if m.err != nil {
		return m.err
	}
	img.ID = 1
	return nil
}

func (m *mockCatalogService) UpdateProductImage(ctx context.Context, img *domain.ProductImage) error {
	m.gotImage = img
	return m.err
}

func (m *mockCatalogService) DeleteProductImage(ctx context.Context, productID, id int64) error {
	return m.err
}

type mockHealth struct {
	err error
}

func (m mockHealth) Ping(ctx context.Context) error {
	return m.err
}
