package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/storefront/internal/domain"
	"github.com/google/uuid"
)

const cartItemColumns = `ci.id, ci.cart_id, ci.quantity, p.id, p.title, p.unit_price`

func scanCartItem(row interface{ Scan(...any) error }) (domain.CartItem, error) {
	var item domain.CartItem
	err := row.Scan(
		&item.ID,
		&item.CartID,
		&item.Quantity,
		&item.Product.ID,
		&item.Product.Title,
		&item.Product.Price,
	)
	return item, err
}

func listCartItems(ctx context.Context, q querier, cartID uuid.UUID) ([]domain.CartItem, error) {
	query := `SELECT ` + cartItemColumns + `
	          FROM cart_items ci
	          JOIN products p ON p.id = ci.product_id
	          WHERE ci.cart_id = $1
	          ORDER BY ci.id`

	rows, err := q.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

func deleteCart(ctx context.Context, q querier, cartID uuid.UUID) error {
	res, err := q.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	if n == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (r *Repository) CreateCart(ctx context.Context) (*domain.Cart, error) {
	cart := &domain.Cart{ID: uuid.New(), Items: []domain.CartItem{}}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO carts (id) VALUES ($1) RETURNING created_at`, cart.ID).
		Scan(&cart.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert cart: %w", err)
	}
	return cart, nil
}

func (r *Repository) GetCart(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error) {
	cart := &domain.Cart{ID: cartID}
	err := r.db.QueryRowContext(ctx, `SELECT created_at FROM carts WHERE id = $1`, cartID).
		Scan(&cart.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}

	cart.Items, err = listCartItems(ctx, r.db, cartID)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *Repository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	return deleteCart(ctx, r.db, cartID)
}

func (r *Repository) GetCartItem(ctx context.Context, cartID uuid.UUID, itemID int64) (*domain.CartItem, error) {
	query := `SELECT ` + cartItemColumns + `
	          FROM cart_items ci
	          JOIN products p ON p.id = ci.product_id
	          WHERE ci.cart_id = $1 AND ci.id = $2`

	item, err := scanCartItem(r.db.QueryRowContext(ctx, query, cartID, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cart item: %w", err)
	}
	return &item, nil
}

// AddCartItem inserts a line or, when the product is already in the cart,
// increments the existing line's quantity.
func (r *Repository) AddCartItem(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) (*domain.CartItem, error) {
	query := `INSERT INTO cart_items (cart_id, product_id, quantity)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (cart_id, product_id)
	          DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	          RETURNING id`

	var itemID int64
	err := r.db.QueryRowContext(ctx, query, cartID, productID, quantity).Scan(&itemID)
	if err != nil {
		switch pqCode(err) {
		case pqForeignKeyViolation:
			if pqConstraint(err) == "cart_items_cart_id_fkey" {
				return nil, ErrCartNotFound
			}
			return nil, ErrProductNotFound
		case pqNumericOutOfRange, pqCheckViolation:
			return nil, &domain.ValidationError{Field: "quantity", Message: "resulting quantity is out of range"}
		}
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}

	return r.GetCartItem(ctx, cartID, itemID)
}

func (r *Repository) UpdateCartItem(ctx context.Context, cartID uuid.UUID, itemID int64, quantity int) (*domain.CartItem, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND id = $2`,
		cartID, itemID, quantity)
	if err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	if n == 0 {
		return nil, ErrCartItemNotFound
	}
	return r.GetCartItem(ctx, cartID, itemID)
}

func (r *Repository) DeleteCartItem(ctx context.Context, cartID uuid.UUID, itemID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND id = $2`, cartID, itemID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if n == 0 {
		return ErrCartItemNotFound
	}
	return nil
}
