package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Keys of the public read models.
const (
	KeyPublicCategories = "public:categories"
	KeyRestaurant       = "public:restaurant"
)

// ReadCache stores JSON snapshots of public read models in Redis. Concurrent misses for the
// same key share one load. A nil or unreachable Redis degrades to loading every time.
type ReadCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
	group  singleflight.Group
}

// NewReadCache builds a cache; client may be nil.
func NewReadCache(client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *ReadCache {
	return &ReadCache{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

// Fetch returns the cached value for key or loads, stores and returns it.
func Fetch[T any](ctx context.Context, c *ReadCache, key string, load func(context.Context) (T, error)) (T, error) {
	var out T
	if c.client != nil {
		raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
		switch {
		case err == nil:
			if jsonErr := json.Unmarshal(raw, &out); jsonErr == nil {
				return out, nil
			}
			c.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
		case !errors.Is(err, redis.Nil):
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return out, err
	}
	return v.(T), nil
}

// Invalidate drops the given keys.
func (c *ReadCache) Invalidate(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, c.prefix+k)
	}
	return c.client.Del(ctx, full...).Err()
}

func (c *ReadCache) store(ctx context.Context, key string, value any) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
