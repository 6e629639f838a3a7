package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopora/go-shop-backend/internal/app/config"
	"go.uber.org/zap"
)

const (
	KeyAllProducts = "products:all"

	defaultTTL = 5 * time.Minute
)

func ShopKey(shopID string) string {
	return fmt.Sprintf("shop:%s", shopID)
}

// Cache is a read-through cache for hot catalog reads. A nil *Cache is a
// no-op, so the cache stays optional.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(config config.Config) (*Cache, error) {
	if len(config.RedisAddr) == 0 {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: config.RedisAddr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("error while connecting to redis: %w", err)
	}

	return &Cache{
		client: client,
		ttl:    defaultTTL,
	}, nil
}

func (c *Cache) Get(ctx context.Context, key string, value any) bool {
	if c == nil {
		return false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}

	if err := json.Unmarshal(raw, value); err != nil {
		zap.L().Warn("error while unmarshalling cached value", zap.String("key", key), zap.Error(err))
		return false
	}

	return true
}

func (c *Cache) Set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		zap.L().Warn("error while marshalling value for cache", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		zap.L().Warn("error while writing to cache", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		zap.L().Warn("error while invalidating cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}

	return c.client.Close()
}
