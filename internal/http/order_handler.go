package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
	"github.com/google/uuid"
)

// Checkouter places an order for the customer profile of an authenticated user.
type Checkouter interface {
	CheckoutForUser(ctx context.Context, cartID uuid.UUID, userID int64) (*domain.Order, error)
}

type OrderService interface {
	ListOrders(ctx context.Context, customerID *int64) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id int64, customerID *int64) (*domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, id int64, to domain.PaymentStatus) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

// CustomerLookup resolves the customer profile of an authenticated user.
type CustomerLookup interface {
	Me(ctx context.Context, userID int64) (*domain.Customer, error)
}

type OrderHandler struct {
	checkout  Checkouter
	orders    OrderService
	customers CustomerLookup
	timeout   time.Duration
}

func NewOrderHandler(checkout Checkouter, orders OrderService, customers CustomerLookup, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		checkout:  checkout,
		orders:    orders,
		customers: customers,
		timeout:   timeout,
	}
}

// scope returns nil for staff, who see every order, and the caller's customer id otherwise.
func (h *OrderHandler) scope(ctx context.Context, user User) (*int64, error) {
	if user.IsStaff {
		return nil, nil
	}
	customer, err := h.customers.Me(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &customer.ID, nil
}

// GET /store/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, _ := userFromContext(r.Context())
	customerID, err := h.scope(ctx, user)
	if errors.Is(err, repository.ErrCustomerNotFound) {
		respondJSON(w, http.StatusOK, []OrderDTO{})
		return
	}
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	orders, err := h.orders.ListOrders(ctx, customerID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	out := make([]OrderDTO, len(orders))
	for i, o := range orders {
		out[i] = toOrderDTO(o)
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /store/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	user, _ := userFromContext(r.Context())
	customerID, err := h.scope(ctx, user)
	if errors.Is(err, repository.ErrCustomerNotFound) {
		err = repository.ErrOrderNotFound
	}
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	order, err := h.orders.GetOrder(ctx, id, customerID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderDTO(order))
}

// POST /store/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, _ := userFromContext(r.Context())

	var req CreateOrderRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	cartID, err := uuid.Parse(req.CartID)
	if err != nil {
		respondFieldError(w, http.StatusBadRequest, "validation_error", "cart_id", "must be a valid UUID")
		return
	}

	order, err := h.checkout.CheckoutForUser(ctx, cartID, user.ID)
	switch {
	case errors.Is(err, repository.ErrCartNotFound):
		respondFieldError(w, http.StatusBadRequest, "not_found", "cart_id", "no cart was found for the given id")
		return
	case errors.Is(err, repository.ErrCustomerNotFound):
		respondFieldError(w, http.StatusBadRequest, "not_found", "customer", "no customer profile exists for this user")
		return
	case err != nil:
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toOrderDTO(order))
}

// PATCH /store/orders/{id}
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	var req UpdateOrderRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.orders.UpdatePaymentStatus(ctx, id, domain.PaymentStatus(req.PaymentStatus))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderDTO(order))
}

// DELETE /store/orders/{id}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	if err := h.orders.DeleteOrder(ctx, id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
