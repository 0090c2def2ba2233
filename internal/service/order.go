package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
)

type OrderService struct {
	repo OrderRepository
}

func NewOrderService(repo OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// ListOrders lists the orders of one customer, or every order when customerID is nil.
func (s *OrderService) ListOrders(ctx context.Context, customerID *int64) ([]*domain.Order, error) {
	return s.repo.ListOrders(ctx, customerID)
}

// GetOrder hides orders of other customers behind ErrOrderNotFound when customerID is set.
func (s *OrderService) GetOrder(ctx context.Context, id int64, customerID *int64) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if customerID != nil && order.CustomerID != *customerID {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

// UpdatePaymentStatus applies a Pending -> Complete or Pending -> Failed transition.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id int64, to domain.PaymentStatus) (*domain.Order, error) {
	if !to.IsValid() {
		return nil, &domain.ValidationError{Field: "payment_status", Message: fmt.Sprintf("%q is not a valid choice", to)}
	}

	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	from := order.PaymentStatus
	if !domain.CanTransitionTo(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.IllegalTransitionError, from.Label(), to.Label())
	}

	if err := s.repo.UpdatePaymentStatus(ctx, id, from, to); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "payment status updated", "order_id", id, "from", from.Label(), "to", to.Label())
	order.PaymentStatus = to
	return order, nil
}

// DeleteOrder fails with repository.ErrOrderInUse while the order still has items.
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "order deleted", "order_id", id)
	return nil
}
