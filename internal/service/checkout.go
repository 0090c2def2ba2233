package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/fjod/storefront/internal/cache"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/events"
	"github.com/fjod/storefront/internal/repository"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type CheckoutService struct {
	store     Transactor
	cache     cache.CartCache
	publisher EventPublisher
	tracer    trace.Tracer
}

// NewCheckoutService builds the checkout workflow. cache and publisher may be nil.
func NewCheckoutService(store Transactor, cartCache cache.CartCache, publisher EventPublisher) *CheckoutService {
	return &CheckoutService{
		store:     store,
		cache:     cartCache,
		publisher: publisher,
		tracer:    otel.Tracer("storefront/service"),
	}
}

// Checkout turns the cart into a pending order owned by the customer and deletes the cart.
// Order creation and cart deletion happen in one transaction. The order_created event is
// published after commit and its failure never fails the checkout.
func (s *CheckoutService) Checkout(ctx context.Context, cartID uuid.UUID, customerID int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "checkout", trace.WithAttributes(
		attribute.String("cart.id", cartID.String()),
		attribute.Int64("customer.id", customerID),
	))
	defer span.End()

	return s.checkout(ctx, span, cartID, func(tx repository.CheckoutTx) (*domain.Customer, error) {
		return tx.CustomerByID(ctx, customerID)
	})
}

// CheckoutForUser checks out on behalf of the customer profile of userID. The
// profile is resolved inside the transaction, after the cart checks.
func (s *CheckoutService) CheckoutForUser(ctx context.Context, cartID uuid.UUID, userID int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "checkout", trace.WithAttributes(
		attribute.String("cart.id", cartID.String()),
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	return s.checkout(ctx, span, cartID, func(tx repository.CheckoutTx) (*domain.Customer, error) {
		return tx.CustomerByUserID(ctx, userID)
	})
}

// checkout runs the workflow. Preconditions fail in order: cart exists, cart is
// not empty, customer exists.
func (s *CheckoutService) checkout(
	ctx context.Context,
	span trace.Span,
	cartID uuid.UUID,
	customerOf func(tx repository.CheckoutTx) (*domain.Customer, error),
) (*domain.Order, error) {
	var order *domain.Order
	err := s.store.RunInTx(ctx, func(tx repository.CheckoutTx) error {
		if err := tx.LockCart(ctx, cartID); err != nil {
			return err
		}

		lines, err := tx.CartLines(ctx, cartID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		customer, err := customerOf(tx)
		if err != nil {
			return err
		}

		o := domain.NewOrder(customer.ID)
		if err := tx.InsertOrder(ctx, o); err != nil {
			return err
		}

		o.Items = snapshotItems(lines)
		if err := tx.InsertOrderItems(ctx, o.ID, o.Items); err != nil {
			return err
		}

		if err := tx.DeleteCart(ctx, cartID); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("order.id", order.ID),
		attribute.Int64("customer.id", order.CustomerID),
	)
	slog.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"customer_id", order.CustomerID,
		"items", len(order.Items),
		"total", order.Total().StringFixed(2))

	s.invalidateCart(cartID)
	s.notifyOrderCreated(ctx, order)
	return order, nil
}

// snapshotItems copies the current product price of every line into the order item.
func snapshotItems(lines []domain.CartItem) []domain.OrderItem {
	items := make([]domain.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = domain.OrderItem{
			Product:   line.Product,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price,
		}
	}
	return items
}

func (s *CheckoutService) invalidateCart(cartID uuid.UUID) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, cartID); err != nil {
		slog.Warn("cache invalidate error", "cart_id", cartID, "error", err)
	}
}

func (s *CheckoutService) notifyOrderCreated(ctx context.Context, order *domain.Order) {
	if s.publisher == nil {
		return
	}
	e, err := events.NewOrderCreated(order)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build order_created event", "order_id", order.ID, "error", err)
		return
	}
	if !s.publisher.Publish(e) {
		slog.WarnContext(ctx, "order_created event not queued", "order_id", order.ID)
	}
}
