package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CartService interface {
	CreateCart(ctx context.Context) (*domain.Cart, error)
	GetCart(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error)
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
	ListItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error)
	GetItem(ctx context.Context, cartID uuid.UUID, itemID int64) (*domain.CartItem, error)
	AddItem(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) (*domain.CartItem, error)
	UpdateItem(ctx context.Context, cartID uuid.UUID, itemID int64, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, cartID uuid.UUID, itemID int64) error
}

type CartHandler struct {
	carts   CartService
	timeout time.Duration
}

func NewCartHandler(carts CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

func cartIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	cartID, err := uuid.Parse(chi.URLParam(r, "cart_id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "cart_id must be a valid UUID")
		return uuid.Nil, false
	}
	return cartID, true
}

// POST /store/carts
func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, err := h.carts.CreateCart(ctx)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toCartDTO(cart))
}

// GET /store/carts/{cart_id}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.GetCart(ctx, cartID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(cart))
}

// DELETE /store/carts/{cart_id}
func (h *CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}

	if err := h.carts.DeleteCart(ctx, cartID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /store/carts/{cart_id}/items
func (h *CartHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}

	items, err := h.carts.ListItems(ctx, cartID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartItemDTOs(items))
}

// GET /store/carts/{cart_id}/items/{item_id}
func (h *CartHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}
	itemID, ok := int64Param(w, r, "item_id")
	if !ok {
		return
	}

	item, err := h.carts.GetItem(ctx, cartID, itemID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartItemDTO(*item))
}

// POST /store/carts/{cart_id}/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}

	var req AddCartItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.ProductID <= 0 {
		respondFieldError(w, http.StatusBadRequest, "validation_error", "product_id", "product_id must be positive")
		return
	}

	item, err := h.carts.AddItem(ctx, cartID, req.ProductID, req.Quantity)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toCartItemDTO(*item))
}

// PATCH /store/carts/{cart_id}/items/{item_id}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}
	itemID, ok := int64Param(w, r, "item_id")
	if !ok {
		return
	}

	var req UpdateCartItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.carts.UpdateItem(ctx, cartID, itemID, req.Quantity)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartItemDTO(*item))
}

// DELETE /store/carts/{cart_id}/items/{item_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}
	itemID, ok := int64Param(w, r, "item_id")
	if !ok {
		return
	}

	if err := h.carts.RemoveItem(ctx, cartID, itemID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
