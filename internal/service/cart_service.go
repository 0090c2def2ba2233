package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fjod/storefront/internal/cache"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type CartService struct {
	repo  CartRepository
	cache cache.CartCache
	sfg   singleflight.Group // Prevents cache stampede
}

// NewCartService builds the cart service. cartCache may be nil, in which case
// every read goes to the repository.
func NewCartService(repo CartRepository, cartCache cache.CartCache) *CartService {
	return &CartService{
		repo:  repo,
		cache: cartCache,
	}
}

func (s *CartService) CreateCart(ctx context.Context) (*domain.Cart, error) {
	return s.repo.CreateCart(ctx)
}

func (s *CartService) GetCart(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(cartID.String(), func() (interface{}, error) {
		if s.cache != nil {
			cart, err := s.cache.Get(ctx, cartID)
			if err == nil {
				return cart, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				slog.Warn("cache get error", "cart_id", cartID, "error", err)
			}
		}

		cart, err := s.repo.GetCart(ctx, cartID)
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			go s.writeBack(cart)
		}
		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

func (s *CartService) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	if err := s.repo.DeleteCart(ctx, cartID); err != nil {
		return err
	}
	s.invalidateCache(cartID)
	return nil
}

func (s *CartService) ListItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return cart.Items, nil
}

func (s *CartService) GetItem(ctx context.Context, cartID uuid.UUID, itemID int64) (*domain.CartItem, error) {
	return s.repo.GetCartItem(ctx, cartID, itemID)
}

// AddItem adds quantity of a product to the cart. Adding a product that is already
// in the cart increments the existing line.
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, productID int64, quantity int) (*domain.CartItem, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	item, err := s.repo.AddCartItem(ctx, cartID, productID, quantity)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, &domain.ValidationError{Field: "product_id", Message: "no product with the given id was found"}
	}
	if err != nil {
		return nil, err
	}

	s.invalidateCache(cartID)
	return item, nil
}

func (s *CartService) UpdateItem(ctx context.Context, cartID uuid.UUID, itemID int64, quantity int) (*domain.CartItem, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	item, err := s.repo.UpdateCartItem(ctx, cartID, itemID, quantity)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(cartID)
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, cartID uuid.UUID, itemID int64) error {
	if err := s.repo.DeleteCartItem(ctx, cartID, itemID); err != nil {
		return err
	}
	s.invalidateCache(cartID)
	return nil
}

// writeBack caches a cart read from the repository. The cache refuses the write
// while a recent invalidation of the same cart is still in effect.
func (s *CartService) writeBack(cart *domain.Cart) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, cart); err != nil {
		slog.Warn("cache set error", "cart_id", cart.ID, "error", err)
	}
}

func (s *CartService) invalidateCache(cartID uuid.UUID) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, cartID); err != nil {
		slog.Warn("cache invalidate error", "cart_id", cartID, "error", err)
	}
}
