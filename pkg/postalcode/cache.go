package postalcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/tournevent/rates/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Cache stores resolved addresses keyed by normalized code.
type Cache interface {
	Get(ctx context.Context, digits string) (shipper.PostalAddress, bool, error)
	Set(ctx context.Context, digits string, addr shipper.PostalAddress) error
}

// CachedResolver is a read-through cache in front of another Resolver.
// Only successful resolutions are cached; cache failures fall back to a
// direct lookup.
type CachedResolver struct {
	next   Resolver
	cache  Cache
	logger *otelzap.Logger
}

// NewCachedResolver wraps next with cache.
func NewCachedResolver(next Resolver, cache Cache, logger *otelzap.Logger) *CachedResolver {
	return &CachedResolver{next: next, cache: cache, logger: logger}
}

// Resolve validates code, then consults the cache before the directory.
func (r *CachedResolver) Resolve(ctx context.Context, code string) (shipper.PostalAddress, error) {
	digits, err := Normalize(code)
	if err != nil {
		return shipper.PostalAddress{}, err
	}

	addr, ok, err := r.cache.Get(ctx, digits)
	if err != nil {
		r.logger.Ctx(ctx).Warn("Postal code cache read failed", zap.String("postal_code", digits), zap.Error(err))
	} else if ok {
		return addr, nil
	}

	addr, err = r.next.Resolve(ctx, digits)
	if err != nil {
		return shipper.PostalAddress{}, err
	}

	if err := r.cache.Set(ctx, digits, addr); err != nil {
		r.logger.Ctx(ctx).Warn("Postal code cache write failed", zap.String("postal_code", digits), zap.Error(err))
	}
	return addr, nil
}

var _ Resolver = (*CachedResolver)(nil)

// RedisCache is a Cache backed by Redis string keys with a TTL.
type RedisCache struct {
	rdb    *goredis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache connects to addr and verifies the connection.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisCacheWithClient(rdb, ttl), nil
}

// NewRedisCacheWithClient wraps an existing Redis client.
func NewRedisCacheWithClient(rdb *goredis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisCache{rdb: rdb, ttl: ttl, prefix: "postalcode:"}
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, digits string) (shipper.PostalAddress, bool, error) {
	raw, err := c.rdb.Get(ctx, c.prefix+digits).Bytes()
	if errors.Is(err, goredis.Nil) {
		return shipper.PostalAddress{}, false, nil
	}
	if err != nil {
		return shipper.PostalAddress{}, false, err
	}

	var addr shipper.PostalAddress
	if err := json.Unmarshal(raw, &addr); err != nil {
		return shipper.PostalAddress{}, false, fmt.Errorf("decode cached address: %w", err)
	}
	return addr, true, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, digits string, addr shipper.PostalAddress) error {
	raw, err := json.Marshal(addr)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.prefix+digits, raw, c.ttl).Err()
}

// Close closes the underlying Redis client.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

var _ Cache = (*RedisCache)(nil)
