package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CheckoutTx is the set of operations a checkout performs on a single transaction.
type CheckoutTx interface {
	LockCart(ctx context.Context, cartID uuid.UUID) error
	CartLines(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error)
	CustomerByID(ctx context.Context, id int64) (*domain.Customer, error)
	CustomerByUserID(ctx context.Context, userID int64) (*domain.Customer, error)
	InsertOrder(ctx context.Context, order *domain.Order) error
	InsertOrderItems(ctx context.Context, orderID int64, items []domain.OrderItem) error
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
}

type checkoutTx struct {
	tx *sql.Tx
}

// RunInTx runs fn inside one transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func (r *Repository) RunInTx(ctx context.Context, fn func(tx CheckoutTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if r.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("set lock timeout: %w", err)
		}
	}

	if err := fn(&checkoutTx{tx: tx}); err != nil {
		return classify(err)
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

func (c *checkoutTx) LockCart(ctx context.Context, cartID uuid.UUID) error {
	var id uuid.UUID
	err := c.tx.QueryRowContext(ctx, `SELECT id FROM carts WHERE id = $1 FOR UPDATE`, cartID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCartNotFound
	}
	if err != nil {
		return fmt.Errorf("lock cart: %w", err)
	}
	return nil
}

func (c *checkoutTx) CartLines(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	return listCartItems(ctx, c.tx, cartID)
}

func (c *checkoutTx) CustomerByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return getCustomer(ctx, c.tx, "id", id)
}

func (c *checkoutTx) CustomerByUserID(ctx context.Context, userID int64) (*domain.Customer, error) {
	return getCustomer(ctx, c.tx, "user_id", userID)
}

func (c *checkoutTx) InsertOrder(ctx context.Context, order *domain.Order) error {
	query := `INSERT INTO orders (customer_id, payment_status)
	          VALUES ($1, $2)
	          RETURNING id, placed_at`

	err := c.tx.QueryRowContext(ctx, query, order.CustomerID, order.PaymentStatus).
		Scan(&order.ID, &order.PlacedAt)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// InsertOrderItems writes all items with one statement and fills in their ids.
// Product ids are unique within an order so the returned rows are matched back by product.
func (c *checkoutTx) InsertOrderItems(ctx context.Context, orderID int64, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	productIDs := make([]int64, len(items))
	quantities := make([]int64, len(items))
	prices := make([]string, len(items))
	for i, item := range items {
		productIDs[i] = item.Product.ID
		quantities[i] = int64(item.Quantity)
		prices[i] = item.UnitPrice.StringFixed(2)
	}

	query := `INSERT INTO order_items (order_id, product_id, quantity, unit_price)
	          SELECT $1, u.product_id, u.quantity, u.unit_price
	          FROM unnest($2::bigint[], $3::smallint[], $4::numeric[]) AS u(product_id, quantity, unit_price)
	          RETURNING id, product_id`

	rows, err := c.tx.QueryContext(ctx, query, orderID, pq.Array(productIDs), pq.Array(quantities), pq.Array(prices))
	if err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]int64, len(items))
	for rows.Next() {
		var id, productID int64
		if err := rows.Scan(&id, &productID); err != nil {
			return fmt.Errorf("scan order item id: %w", err)
		}
		ids[productID] = id
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}

	for i := range items {
		items[i].ID = ids[items[i].Product.ID]
		items[i].OrderID = orderID
	}
	return nil
}

func (c *checkoutTx) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	return deleteCart(ctx, c.tx, cartID)
}
