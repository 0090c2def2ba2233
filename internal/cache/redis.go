package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL = 15 * time.Minute
	// tombstoneTTL covers the window between a repository read and its cache write-back.
	tombstoneTTL = 5 * time.Second
)

// setUnlessInvalidated writes KEYS[1] only when the tombstone KEYS[2] is absent.
var setUnlessInvalidated = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: defaultTTL,
	}
}

// RedisCache stores cart views as JSON. Each entry gets up to five minutes of
// extra TTL so entries written together do not expire together.
//
// Delete leaves a short-lived tombstone and Set is a no-op while it exists, so a
// read that raced an invalidation cannot put the old cart back.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cacheKey(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &cart, nil
}

func (r *RedisCache) Set(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	keys := []string{cacheKey(cart.ID), tombstoneKey(cart.ID)}
	ttl := (r.baseTTL + jitter).Milliseconds()
	if err := setUnlessInvalidated.Run(ctx, r.client, keys, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, cartID uuid.UUID) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, cacheKey(cartID))
	pipe.Set(ctx, tombstoneKey(cartID), 1, tombstoneTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(cartID uuid.UUID) string {
	return fmt.Sprintf("cart:%s", cartID)
}

func tombstoneKey(cartID uuid.UUID) string {
	return fmt.Sprintf("cart:%s:invalidated", cartID)
}
