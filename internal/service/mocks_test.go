package service

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/storefront/internal/cache"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/events"
	"github.com/fjod/storefront/internal/repository"
	"github.com/google/uuid"
)

// memStore is an in-memory Transactor. Each RunInTx works on a copy of the state
// and only publishes it when fn succeeds, so failed checkouts leave no trace.
type memStore struct {
	mu sync.Mutex

	carts     map[uuid.UUID][]domain.CartItem
	customers map[int64]*domain.Customer
	orders    []*domain.Order
	nextID    int64

	// failAt makes the named transaction step fail with failErr
	failAt  string
	failErr error
}

func newMemStore() *memStore {
	return &memStore{
		carts:     make(map[uuid.UUID][]domain.CartItem),
		customers: make(map[int64]*domain.Customer),
	}
}

func (m *memStore) RunInTx(ctx context.Context, fn func(tx repository.CheckoutTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{store: m, carts: make(map[uuid.UUID][]domain.CartItem), nextID: m.nextID}
	for k, v := range m.carts {
		tx.carts[k] = append([]domain.CartItem(nil), v...)
	}

	if err := fn(tx); err != nil {
		return err
	}

	m.carts = tx.carts
	m.orders = append(m.orders, tx.orders...)
	m.nextID = tx.nextID
	return nil
}

type memTx struct {
	store  *memStore
	carts  map[uuid.UUID][]domain.CartItem
	orders []*domain.Order
	nextID int64
}

func (t *memTx) fail(step string) error {
	if t.store.failAt == step {
		return t.store.failErr
	}
	return nil
}

func (t *memTx) LockCart(_ context.Context, cartID uuid.UUID) error {
	if err := t.fail("lock"); err != nil {
		return err
	}
	if _, ok := t.carts[cartID]; !ok {
		return repository.ErrCartNotFound
	}
	return nil
}

func (t *memTx) CartLines(_ context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	return append([]domain.CartItem(nil), t.carts[cartID]...), nil
}

func (t *memTx) CustomerByID(_ context.Context, id int64) (*domain.Customer, error) {
	c, ok := t.store.customers[id]
	if !ok {
		return nil, repository.ErrCustomerNotFound
	}
	return c, nil
}

func (t *memTx) CustomerByUserID(_ context.Context, userID int64) (*domain.Customer, error) {
	for _, c := range t.store.customers {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, repository.ErrCustomerNotFound
}

func (t *memTx) InsertOrder(_ context.Context, order *domain.Order) error {
	if err := t.fail("insert_order"); err != nil {
		return err
	}
	t.nextID++
	order.ID = t.nextID
	order.PlacedAt = time.Now()
	t.orders = append(t.orders, order)
	return nil
}

func (t *memTx) InsertOrderItems(_ context.Context, orderID int64, items []domain.OrderItem) error {
	if err := t.fail("insert_items"); err != nil {
		return err
	}
	for i := range items {
		t.nextID++
		items[i].ID = t.nextID
		items[i].OrderID = orderID
	}
	return nil
}

func (t *memTx) DeleteCart(_ context.Context, cartID uuid.UUID) error {
	if err := t.fail("delete_cart"); err != nil {
		return err
	}
	delete(t.carts, cartID)
	return nil
}

// mockCache implements cache.CartCache
type mockCache struct {
	mu      sync.Mutex
	carts   map[uuid.UUID]*domain.Cart
	getErr  error
	deletes int
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{carts: make(map[uuid.UUID]*domain.Cart)}
}

func (m *mockCache) Get(_ context.Context, cartID uuid.UUID) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	c, ok := m.carts[cartID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return c, nil
}

func (m *mockCache) Set(_ context.Context, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.carts[cart.ID] = cart
	return nil
}

func (m *mockCache) Delete(_ context.Context, cartID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.carts, cartID)
	return nil
}

func (m *mockCache) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

// mockPublisher implements EventPublisher
type mockPublisher struct {
	events []events.Event
	reject bool
}

func (m *mockPublisher) Publish(e events.Event) bool {
	if m.reject {
		return false
	}
	m.events = append(m.events, e)
	return true
}

// mockCartRepo implements CartRepository
type mockCartRepo struct {
	mu       sync.Mutex
	cart     *domain.Cart
	getCalls int
	getDelay time.Duration
	item     *domain.CartItem
	err      error

	addedProduct  int64
	addedQuantity int
}

func (m *mockCartRepo) CreateCart(_ context.Context) (*domain.Cart, error) {
	return &domain.Cart{ID: uuid.New(), CreatedAt: time.Now(), Items: []domain.CartItem{}}, m.err
}

func (m *mockCartRepo) GetCart(_ context.Context, _ uuid.UUID) (*domain.Cart, error) {
	m.mu.Lock()
	m.getCalls++
	m.mu.Unlock()
	if m.getDelay > 0 {
		time.Sleep(m.getDelay)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *mockCartRepo) GetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getCalls
}

func (m *mockCartRepo) DeleteCart(_ context.Context, _ uuid.UUID) error {
	return m.err
}

func (m *mockCartRepo) GetCartItem(_ context.Context, _ uuid.UUID, _ int64) (*domain.CartItem, error) {
	return m.item, m.err
}

func (m *mockCartRepo) AddCartItem(_ context.Context, _ uuid.UUID, productID int64, quantity int) (*domain.CartItem, error) {
	m.addedProduct = productID
	m.addedQuantity = quantity
	return m.item, m.err
}

func (m *mockCartRepo) UpdateCartItem(_ context.Context, _ uuid.UUID, _ int64, _ int) (*domain.CartItem, error) {
	return m.item, m.err
}

func (m *mockCartRepo) DeleteCartItem(_ context.Context, _ uuid.UUID, _ int64) error {
	return m.err
}

// mockCatalogRepo implements CatalogRepository
type mockCatalogRepo struct {
	collection *domain.Collection
	product    *domain.Product
	reviews    []domain.Review
	images     []domain.ProductImage
	err        error
	writeErr   error
	writes     int
}

func (m *mockCatalogRepo) ListCollections(_ context.Context) ([]domain.Collection, error) {
	if m.collection == nil {
		return nil, m.err
	}
	return []domain.Collection{*m.collection}, m.err
}

func (m *mockCatalogRepo) GetCollection(_ context.Context, _ int64) (*domain.Collection, error) {
	return m.collection, m.err
}

func (m *mockCatalogRepo) CreateCollection(_ context.Context, c *domain.Collection) error {
	m.writes++
	c.ID = 1
	return m.writeErr
}

func (m *mockCatalogRepo) UpdateCollection(_ context.Context, _ *domain.Collection) error {
	m.writes++
	return m.writeErr
}

func (m *mockCatalogRepo) DeleteCollection(_ context.Context, _ int64) error {
	m.writes++
	return m.writeErr
}

func (m *mockCatalogRepo) ListProducts(_ context.Context, _ *int64) ([]domain.Product, error) {
	if m.product == nil {
		return nil, m.err
	}
	return []domain.Product{*m.product}, m.err
}

func (m *mockCatalogRepo) GetProduct(_ context.Context, _ int64) (*domain.Product, error) {
	return m.product, m.err
}

func (m *mockCatalogRepo) CreateProduct(_ context.Context, p *domain.Product) error {
	m.writes++
	p.ID = 1
	return m.writeErr
}

func (m *mockCatalogRepo) UpdateProduct(_ context.Context, _ *domain.Product) error {
	m.writes++
	return m.writeErr
}

func (m *mockCatalogRepo) DeleteProduct(_ context.Context, _ int64) error {
	m.writes++
	return m.writeErr
}

func (m *mockCatalogRepo) ListPromotions(_ context.Context) ([]domain.Promotion, error) {
	return nil, m.err
}

func (m *mockCatalogRepo) CreatePromotion(_ context.Context, _ *domain.Promotion) error {
	m.writes++
	return m.writeErr
}

func (m *mockCatalogRepo) ListReviews(_ context.Context, _ int64) ([]domain.Review, error) {
	return m.reviews, m.err
}

func (m *mockCatalogRepo) CreateReview(_ context.Context, _ *domain.Review) error {
	m.writes++
	return m.writeErr
}

func (m *mockCatalogRepo) ListProductImages(_ context.Context, _ int64) ([]domain.ProductImage, error) {
	return m.images, m.err
}

func (m *mockCatalogRepo) GetProductImage(_ context.Context, _, _ int64) (*domain.ProductImage, error) {
	if m.err != nil || len(m.images) == 0 {
		return nil, m.err
	}
	return &m.images[0], nil
}

func (m *mockCatalogRepo) CreateProductImage(_ context.Context, img *domain.ProductImage) error {
	m.writes++
	img.ID = 1
	return m.writeErr
}

func (m *mockCatalogRepo) UpdateProductImage(_ context.Context, _ *domain.ProductImage) error {
	m.writes++
	return m.writeErr
}

func (m *mockCatalogRepo) DeleteProductImage(_ context.Context, _, _ int64) error {
	m.writes++
	return m.writeErr
}

// mockCustomerRepo implements CustomerRepository
type mockCustomerRepo struct {
	customer  *domain.Customer
	err       error
	upsertErr error
	upserted  *domain.Customer
}

func (m *mockCustomerRepo) GetCustomerByID(_ context.Context, _ int64) (*domain.Customer, error) {
	return m.customer, m.err
}

func (m *mockCustomerRepo) GetCustomerByUserID(_ context.Context, _ int64) (*domain.Customer, error) {
	return m.customer, m.err
}

func (m *mockCustomerRepo) ListCustomers(_ context.Context) ([]*domain.Customer, error) {
	if m.customer == nil {
		return nil, m.err
	}
	return []*domain.Customer{m.customer}, m.err
}

func (m *mockCustomerRepo) UpsertCustomer(_ context.Context, c *domain.Customer) error {
	m.upserted = c
	if m.upsertErr == nil {
		c.ID = 1
	}
	return m.upsertErr
}

// mockOrderRepo implements OrderRepository
type mockOrderRepo struct {
	order     *domain.Order
	err       error
	updateErr error
	deleteErr error
	updates   int
	deletes   int
}

func (m *mockOrderRepo) GetOrder(_ context.Context, _ int64) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	o := *m.order
	return &o, nil
}

func (m *mockOrderRepo) ListOrders(_ context.Context, customerID *int64) ([]*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	if customerID != nil && m.order.CustomerID != *customerID {
		return []*domain.Order{}, nil
	}
	return []*domain.Order{m.order}, nil
}

func (m *mockOrderRepo) UpdatePaymentStatus(_ context.Context, _ int64, _, _ domain.PaymentStatus) error {
	m.updates++
	return m.updateErr
}

func (m *mockOrderRepo) DeleteOrder(_ context.Context, _ int64) error {
	m.deletes++
	return m.deleteErr
}
