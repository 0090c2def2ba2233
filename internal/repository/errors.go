package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrCartNotFound       = fmt.Errorf("cart %w", ErrNotFound)
	ErrCartItemNotFound   = fmt.Errorf("cart item %w", ErrNotFound)
	ErrCustomerNotFound   = fmt.Errorf("customer %w", ErrNotFound)
	ErrProductNotFound    = fmt.Errorf("product %w", ErrNotFound)
	ErrCollectionNotFound = fmt.Errorf("collection %w", ErrNotFound)
	ErrOrderNotFound      = fmt.Errorf("order %w", ErrNotFound)
	ErrImageNotFound      = fmt.Errorf("product image %w", ErrNotFound)

	// ErrConflict is returned when a transaction lost a lock race. The caller may retry.
	ErrConflict = errors.New("concurrent update conflict")

	ErrProductInUse    = errors.New("product is referenced by an order item")
	ErrCollectionInUse = errors.New("collection includes one or more products")
	ErrOrderInUse      = errors.New("order has one or more items")
	ErrDuplicateEmail  = errors.New("customer with this email already exists")
)

const (
	pqUniqueViolation      = "23505"
	pqForeignKeyViolation  = "23503"
	pqCheckViolation       = "23514"
	pqNumericOutOfRange    = "22003"
	pqLockNotAvailable     = "55P03"
	pqDeadlockDetected     = "40P01"
	pqSerializationFailure = "40001"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func pqConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

// classify turns lock timeouts, deadlocks and serialization failures into ErrConflict.
func classify(err error) error {
	switch pqCode(err) {
	case pqLockNotAvailable, pqDeadlockDetected, pqSerializationFailure:
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
