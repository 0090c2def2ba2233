package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/storefront/internal/domain"
	"github.com/lib/pq"
)

func (r *Repository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := r.db.QueryRowContext(ctx,
		`SELECT id, customer_id, placed_at, payment_status FROM orders WHERE id = $1`, id).
		Scan(&order.ID, &order.CustomerID, &order.PlacedAt, &order.PaymentStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	orders := []*domain.Order{&order}
	if err := r.loadOrderItems(ctx, orders); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns orders newest first. A nil customerID lists every order.
func (r *Repository) ListOrders(ctx context.Context, customerID *int64) ([]*domain.Order, error) {
	query := `SELECT id, customer_id, placed_at, payment_status
	          FROM orders
	          WHERE ($1::bigint IS NULL OR customer_id = $1)
	          ORDER BY placed_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.PlacedAt, &order.PaymentStatus); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if err := r.loadOrderItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *Repository) loadOrderItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Order, len(orders))
	ids := make([]int64, len(orders))
	for i, o := range orders {
		o.Items = []domain.OrderItem{}
		byID[o.ID] = o
		ids[i] = o.ID
	}

	query := `SELECT oi.id, oi.order_id, oi.quantity, oi.unit_price, p.id, p.title, p.unit_price
	          FROM order_items oi
	          JOIN products p ON p.id = oi.product_id
	          WHERE oi.order_id = ANY($1)
	          ORDER BY oi.id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.Quantity,
			&item.UnitPrice,
			&item.Product.ID,
			&item.Product.Title,
			&item.Product.Price,
		); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		o := byID[item.OrderID]
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}

// UpdatePaymentStatus moves the order from one status to another. It fails with
// IllegalTransitionError when the stored status is no longer from.
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id int64, from, to domain.PaymentStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_status = $3 WHERE id = $1 AND payment_status = $2`,
		id, from, to)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	return expectOne(res, domain.IllegalTransitionError)
}

// DeleteOrder removes an order that has no items. Orders with items fail with ErrOrderInUse.
func (r *Repository) DeleteOrder(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return ErrOrderInUse
		}
		return fmt.Errorf("delete order: %w", err)
	}
	return expectOne(res, ErrOrderNotFound)
}
