package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/storefront/internal/domain"
)

const customerColumns = `id, user_id, first_name, last_name, email, phone, birth_date, membership`

func scanCustomer(row interface{ Scan(...any) error }) (*domain.Customer, error) {
	var c domain.Customer
	var birthDate sql.NullTime
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&birthDate,
		&c.Membership,
	)
	if err != nil {
		return nil, err
	}
	if birthDate.Valid {
		c.BirthDate = &birthDate.Time
	}
	return &c, nil
}

// getCustomer looks a customer up by a unique column, either "id" or "user_id".
func getCustomer(ctx context.Context, q querier, column string, value int64) (*domain.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE %s = $1`, customerColumns, column)
	c, err := scanCustomer(q.QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query customer: %w", err)
	}
	return c, nil
}

func (r *Repository) GetCustomerByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return getCustomer(ctx, r.db, "id", id)
}

func (r *Repository) GetCustomerByUserID(ctx context.Context, userID int64) (*domain.Customer, error) {
	return getCustomer(ctx, r.db, "user_id", userID)
}

func (r *Repository) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]*domain.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return customers, nil
}

// UpsertCustomer creates the profile of c.UserID or overwrites the existing one, filling c.ID.
func (r *Repository) UpsertCustomer(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (user_id, first_name, last_name, email, phone, birth_date, membership)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (user_id) DO UPDATE SET
	              first_name = EXCLUDED.first_name,
	              last_name  = EXCLUDED.last_name,
	              email      = EXCLUDED.email,
	              phone      = EXCLUDED.phone,
	              birth_date = EXCLUDED.birth_date,
	              membership = EXCLUDED.membership
	          RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		c.UserID, c.FirstName, c.LastName, c.Email, c.Phone, c.BirthDate, c.Membership).
		Scan(&c.ID)
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}
