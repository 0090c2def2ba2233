package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	JWTSecret      []byte
	RequestTimeout time.Duration

	Carts     *CartHandler
	Orders    *OrderHandler
	Catalog   *CatalogHandler
	Customers *CustomerHandler
	Health    HealthChecker
}

// NewRouter mounts the store API under /store.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(AuthMiddleware(cfg.JWTSecret))

	r.Get("/health", healthHandler(cfg.Health))

	r.Route("/store", func(r chi.Router) {
		r.Route("/carts", func(r chi.Router) {
			r.Post("/", cfg.Carts.CreateCart)
			r.Route("/{cart_id}", func(r chi.Router) {
				r.Get("/", cfg.Carts.GetCart)
				r.Delete("/", cfg.Carts.DeleteCart)
				r.Get("/items", cfg.Carts.ListItems)
				r.Post("/items", cfg.Carts.AddItem)
				r.Get("/items/{item_id}", cfg.Carts.GetItem)
				r.Patch("/items/{item_id}", cfg.Carts.UpdateItem)
				r.Delete("/items/{item_id}", cfg.Carts.RemoveItem)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(RequireUser)
			r.Get("/", cfg.Orders.ListOrders)
			r.Post("/", cfg.Orders.CreateOrder)
			r.Get("/{id}", cfg.Orders.GetOrder)
			r.With(RequireStaff).Patch("/{id}", cfg.Orders.UpdateOrder)
			r.With(RequireStaff).Delete("/{id}", cfg.Orders.DeleteOrder)
		})

		r.Group(func(r chi.Router) {
			r.Use(StaffOrReadOnly)

			r.Get("/collections", cfg.Catalog.ListCollections)
			r.Post("/collections", cfg.Catalog.CreateCollection)
			r.Get("/collections/{id}", cfg.Catalog.GetCollection)
			r.Put("/collections/{id}", cfg.Catalog.UpdateCollection)
			r.Delete("/collections/{id}", cfg.Catalog.DeleteCollection)

			r.Get("/products", cfg.Catalog.ListProducts)
			r.Post("/products", cfg.Catalog.CreateProduct)
			r.Get("/products/{id}", cfg.Catalog.GetProduct)
			r.Put("/products/{id}", cfg.Catalog.UpdateProduct)
			r.Delete("/products/{id}", cfg.Catalog.DeleteProduct)

			r.Get("/products/{id}/images", cfg.Catalog.ListProductImages)
			r.Post("/products/{id}/images", cfg.Catalog.CreateProductImage)
			r.Get("/products/{id}/images/{image_id}", cfg.Catalog.GetProductImage)
			r.Put("/products/{id}/images/{image_id}", cfg.Catalog.UpdateProductImage)
			r.Delete("/products/{id}/images/{image_id}", cfg.Catalog.DeleteProductImage)

			r.Get("/promotions", cfg.Catalog.ListPromotions)
			r.Post("/promotions", cfg.Catalog.CreatePromotion)
		})

		// Anyone may read or post reviews.
		r.Get("/products/{id}/reviews", cfg.Catalog.ListReviews)
		r.Post("/products/{id}/reviews", cfg.Catalog.CreateReview)

		r.Route("/customers", func(r chi.Router) {
			r.With(RequireUser).Get("/me", cfg.Customers.GetMe)
			r.With(RequireUser).Put("/me", cfg.Customers.UpdateMe)
			r.With(RequireStaff).Get("/", cfg.Customers.ListCustomers)
			r.With(RequireStaff).Get("/{id}", cfg.Customers.GetCustomer)
		})
	})

	return r
}

func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := checker.Ping(ctx); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
