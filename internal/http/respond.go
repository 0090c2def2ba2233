package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
	"github.com/fjod/storefront/internal/service"
	"github.com/go-chi/chi/v5"
)

const maxRequestBodySize = 1 << 20 // 1MB

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func respondFieldError(w http.ResponseWriter, status int, code, field, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
		Field: field,
	})
}

// handleServiceError maps service and repository errors onto HTTP responses.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondFieldError(w, http.StatusBadRequest, "validation_error", vErr.Field, vErr.Message)
	case errors.Is(err, service.ErrEmptyCart):
		respondFieldError(w, http.StatusBadRequest, "empty_cart", "cart_id", "the cart is empty")
	case errors.Is(err, domain.IllegalTransitionError):
		respondFieldError(w, http.StatusBadRequest, "illegal_transition", "payment_status", err.Error())
	case errors.Is(err, repository.ErrConflict):
		respondError(w, http.StatusConflict, "conflict", "the resource was modified concurrently, retry the request")
	case errors.Is(err, repository.ErrProductInUse):
		respondError(w, http.StatusMethodNotAllowed, "product_in_use",
			"product cannot be deleted because it is associated with an order item")
	case errors.Is(err, repository.ErrCollectionInUse):
		respondError(w, http.StatusMethodNotAllowed, "collection_in_use",
			"collection cannot be deleted because it includes one or more products")
	case errors.Is(err, repository.ErrOrderInUse):
		respondError(w, http.StatusMethodNotAllowed, "order_in_use",
			"order cannot be deleted because it has one or more items")
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "request timed out")
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", getRequestID(r.Context()),
			"error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

// int64Param parses a positive integer path parameter, writing a 404 when it is malformed.
func int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusNotFound, "not_found", name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
