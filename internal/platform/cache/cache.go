package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/schoolatlas/schoolatlas-backend/internal/platform/envutil"
	"github.com/schoolatlas/schoolatlas-backend/internal/platform/logger"
)

// Cache fronts the rendered public directory pages. Aggregation and merge
// operations invalidate; the read path caches whole response payloads with a
// TTL so a missed invalidation still converges.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	InvalidateSchool(ctx context.Context, slug string) error
	InvalidateCity(ctx context.Context, cityID string) error
	Close() error
}

const keyPrefix = "atlas:page:"

// SchoolKey and CityKey are the cache keys for the public read endpoints.
func SchoolKey(slug string) string { return keyPrefix + "school:" + slug }
func CityKey(cityID string) string { return keyPrefix + "city:" + cityID }

type redisCache struct {
	log        *logger.Logger
	rdb        *goredis.Client
	defaultTTL time.Duration
}

func NewRedisCache(log *logger.Logger) (Cache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(envutil.String("REDIS_ADDR", ""))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    envutil.String("REDIS_PASSWORD", ""),
		DB:          envutil.Int("REDIS_DB", 0),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	ttl := time.Duration(envutil.Int("CACHE_TTL_SECONDS", 300)) * time.Second

	return &redisCache{
		log:        log.With("service", "RedisCache"),
		rdb:        rdb,
		defaultTTL: ttl,
	}, nil
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) InvalidateSchool(ctx context.Context, slug string) error {
	if strings.TrimSpace(slug) == "" {
		return nil
	}
	return c.rdb.Del(ctx, SchoolKey(slug)).Err()
}

func (c *redisCache) InvalidateCity(ctx context.Context, cityID string) error {
	if strings.TrimSpace(cityID) == "" {
		return nil
	}
	return c.rdb.Del(ctx, CityKey(cityID)).Err()
}

func (c *redisCache) Close() error {
	return c.rdb.Close()
}

// Noop is used when no REDIS_ADDR is configured; every lookup misses.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}
func (Noop) InvalidateSchool(ctx context.Context, slug string) error { return nil }
func (Noop) InvalidateCity(ctx context.Context, cityID string) error { return nil }
func (Noop) Close() error                                            { return nil }
