package service

import (
	"context"
	"testing"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingOrder() *domain.Order {
	return &domain.Order{ID: 1, CustomerID: 7, PaymentStatus: domain.PaymentStatusPending}
}

func TestUpdatePaymentStatus_PendingToComplete(t *testing.T) {
	repo := &mockOrderRepo{order: pendingOrder()}
	svc := NewOrderService(repo)

	order, err := svc.UpdatePaymentStatus(context.Background(), 1, domain.PaymentStatusComplete)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusComplete, order.PaymentStatus)
	assert.Equal(t, 1, repo.updates)
}

func TestUpdatePaymentStatus_TerminalIsFinal(t *testing.T) {
	o := pendingOrder()
	o.PaymentStatus = domain.PaymentStatusFailed
	repo := &mockOrderRepo{order: o}
	svc := NewOrderService(repo)

	_, err := svc.UpdatePaymentStatus(context.Background(), 1, domain.PaymentStatusComplete)
	assert.ErrorIs(t, err, domain.IllegalTransitionError)
	assert.Equal(t, 0, repo.updates)
}

func TestUpdatePaymentStatus_BackToPendingRejected(t *testing.T) {
	svc := NewOrderService(&mockOrderRepo{order: pendingOrder()})

	_, err := svc.UpdatePaymentStatus(context.Background(), 1, domain.PaymentStatusPending)
	assert.ErrorIs(t, err, domain.IllegalTransitionError)
}

func TestUpdatePaymentStatus_UnknownStatus(t *testing.T) {
	svc := NewOrderService(&mockOrderRepo{order: pendingOrder()})

	_, err := svc.UpdatePaymentStatus(context.Background(), 1, domain.PaymentStatus("Z"))
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "payment_status", vErr.Field)
}

func TestUpdatePaymentStatus_LostRace(t *testing.T) {
	repo := &mockOrderRepo{order: pendingOrder(), updateErr: domain.IllegalTransitionError}
	svc := NewOrderService(repo)

	_, err := svc.UpdatePaymentStatus(context.Background(), 1, domain.PaymentStatusFailed)
	assert.ErrorIs(t, err, domain.IllegalTransitionError)
}

func TestGetOrder_ScopedToCustomer(t *testing.T) {
	svc := NewOrderService(&mockOrderRepo{order: pendingOrder()})

	own := int64(7)
	order, err := svc.GetOrder(context.Background(), 1, &own)
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.ID)

	other := int64(8)
	_, err = svc.GetOrder(context.Background(), 1, &other)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)

	// staff
	_, err = svc.GetOrder(context.Background(), 1, nil)
	require.NoError(t, err)
}

func TestListOrders(t *testing.T) {
	svc := NewOrderService(&mockOrderRepo{order: pendingOrder()})

	other := int64(8)
	orders, err := svc.ListOrders(context.Background(), &other)
	require.NoError(t, err)
	assert.Empty(t, orders)

	orders, err = svc.ListOrders(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestDeleteOrder(t *testing.T) {
	repo := &mockOrderRepo{order: pendingOrder()}
	svc := NewOrderService(repo)

	require.NoError(t, svc.DeleteOrder(context.Background(), 1))
	assert.Equal(t, 1, repo.deletes)

	repo.deleteErr = repository.ErrOrderInUse
	assert.ErrorIs(t, svc.DeleteOrder(context.Background(), 1), repository.ErrOrderInUse)
}
