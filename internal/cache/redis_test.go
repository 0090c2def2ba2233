package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return NewRedisCache(client), mr, cleanup
}

func testCart() *domain.Cart {
	id := uuid.New()
	return &domain.Cart{
		ID:        id,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Items: []domain.CartItem{
			{
				ID:       1,
				CartID:   id,
				Quantity: 2,
				Product:  domain.ProductRef{ID: 10, Title: "Mug", Price: decimal.RequireFromString("7.50")},
			},
		},
	}
}

func TestGet_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cart := testCart()
	data, err := json.Marshal(cart)
	require.NoError(t, err)
	require.NoError(t, mr.Set(cacheKey(cart.ID), string(data)))

	result, err := cache.Get(context.Background(), cart.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, result.ID)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Mug", result.Items[0].Product.Title)
	assert.True(t, result.Items[0].Product.Price.Equal(decimal.RequireFromString("7.5")))
	assert.Equal(t, "15.00", result.TotalPrice().StringFixed(2))
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := cache.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	id := uuid.New()
	require.NoError(t, mr.Set(cacheKey(id), `{"id":`))

	_, err := cache.Get(context.Background(), id)
	require.ErrorContains(t, err, "unmarshal cart failed")
}

func TestSet_WithTTL(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cart := testCart()
	require.NoError(t, cache.Set(context.Background(), cart))

	assert.True(t, mr.Exists(cacheKey(cart.ID)))
	ttl := mr.TTL(cacheKey(cart.ID))
	assert.GreaterOrEqual(t, ttl, defaultTTL, "TTL should be at least base TTL")
	assert.LessOrEqual(t, ttl, defaultTTL+5*time.Minute, "TTL should be base + max jitter")
}

func TestSet_RedisDown(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Close()
	err := cache.Set(context.Background(), testCart())
	require.ErrorContains(t, err, "redis set failed")
}

func TestDelete(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cart := testCart()
	require.NoError(t, cache.Set(context.Background(), cart))

	require.NoError(t, cache.Delete(context.Background(), cart.ID))
	assert.False(t, mr.Exists(cacheKey(cart.ID)))

	// deleting a missing key is not an error
	assert.NoError(t, cache.Delete(context.Background(), uuid.New()))
}

func TestCacheKey_Format(t *testing.T) {
	id := uuid.MustParse("5f1b8a9e-3c2d-4e6f-8a7b-9c0d1e2f3a4b")
	assert.Equal(t, "cart:5f1b8a9e-3c2d-4e6f-8a7b-9c0d1e2f3a4b", cacheKey(id))
}

func TestSet_SkippedAfterDelete(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	cart := testCart()
	require.NoError(t, cache.Set(ctx, cart))
	require.NoError(t, cache.Delete(ctx, cart.ID))
	assert.True(t, mr.Exists(tombstoneKey(cart.ID)))

	// a write-back of a cart read before the delete must not resurrect it
	require.NoError(t, cache.Set(ctx, cart))
	_, err := cache.Get(ctx, cart.ID)
	assert.ErrorIs(t, err, ErrCacheMiss)

	mr.FastForward(tombstoneTTL + time.Second)
	require.NoError(t, cache.Set(ctx, cart))
	got, err := cache.Get(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, got.ID)
}
