package cache

import (
	"context"
	"errors"

	"github.com/fjod/storefront/internal/domain"
	"github.com/google/uuid"
)

type CartCache interface {
	Get(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error)
	Set(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, cartID uuid.UUID) error
}

var ErrCacheMiss = errors.New("cache miss")
