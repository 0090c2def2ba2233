package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/storefront/internal/domain"
)

type CustomerService interface {
	Me(ctx context.Context, userID int64) (*domain.Customer, error)
	UpdateMe(ctx context.Context, userID int64, c *domain.Customer) error
	List(ctx context.Context) ([]*domain.Customer, error)
	Get(ctx context.Context, id int64) (*domain.Customer, error)
}

type CustomerHandler struct {
	customers CustomerService
	timeout   time.Duration
}

func NewCustomerHandler(customers CustomerService, timeout time.Duration) *CustomerHandler {
	return &CustomerHandler{
		customers: customers,
		timeout:   timeout,
	}
}

// GET /store/customers/me
func (h *CustomerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, _ := userFromContext(r.Context())
	c, err := h.customers.Me(ctx, user.ID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCustomerDTO(c))
}

// PUT /store/customers/me
func (h *CustomerHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, _ := userFromContext(r.Context())

	var req CustomerRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := req.toDomain()
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.customers.UpdateMe(ctx, user.ID, c); err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCustomerDTO(c))
}

// GET /store/customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	customers, err := h.customers.List(ctx)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	out := make([]CustomerDTO, len(customers))
	for i, c := range customers {
		out[i] = toCustomerDTO(c)
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /store/customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	c, err := h.customers.Get(ctx, id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCustomerDTO(c))
}
