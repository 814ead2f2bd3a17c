package data

import (
	"context"
	"encoding/json"
	"time"

	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

const (
	DefaultRouteTTL = 10 * time.Minute
	routeKeyPrefix  = "walkmap:route:"
)

// RouteCache keeps successful route results keyed by RouteRequest.CacheKey.
type RouteCache interface {
	Get(ctx context.Context, key string) (*def.RouteResult, bool, error)
	Set(ctx context.Context, key string, result *def.RouteResult) error
}

type memoryRouteCache struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewMemoryRouteCache(c *cache.Cache, ttl time.Duration) RouteCache {
	if ttl <= 0 {
		ttl = DefaultRouteTTL
	}
	return &memoryRouteCache{c, ttl}
}

func (m *memoryRouteCache) Get(_ context.Context, key string) (*def.RouteResult, bool, error) {
	value, ok := m.cache.Get(routeKeyPrefix + key)
	if !ok {
		return nil, false, nil
	}
	result, ok := value.(*def.RouteResult)
	return result, ok, nil
}

func (m *memoryRouteCache) Set(_ context.Context, key string, result *def.RouteResult) error {
	m.cache.Set(routeKeyPrefix+key, result, m.ttl)
	return nil
}

type redisRouteCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisRouteCache(client redis.Cmdable, ttl time.Duration) RouteCache {
	if ttl <= 0 {
		ttl = DefaultRouteTTL
	}
	return &redisRouteCache{client, ttl}
}

func (r *redisRouteCache) Get(ctx context.Context, key string) (*def.RouteResult, bool, error) {
	bytes, err := r.client.Get(ctx, routeKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "RouteCache.Get")
	}
	var result *def.RouteResult
	if err = json.Unmarshal(bytes, &result); err != nil {
		return nil, false, errors.Wrap(err, "RouteCache.Get")
	}
	return result, result != nil, nil
}

func (r *redisRouteCache) Set(ctx context.Context, key string, result *def.RouteResult) error {
	bytes, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "RouteCache.Set")
	}
	return errors.Wrap(r.client.Set(ctx, routeKeyPrefix+key, bytes, r.ttl).Err(), "RouteCache.Set")
}
