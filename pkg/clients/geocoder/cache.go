package geocoder

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/jakechorley/trainer-directory/pkg/core/model"
	"github.com/jakechorley/trainer-directory/pkg/core/proximity"
	"github.com/jakechorley/trainer-directory/pkg/metrics"
)

const cacheKeyPrefix = "geocode:"

// redisClient is the subset of *redis.Client used by the cache
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Cached wraps a Geocoder with a Redis cache. Cache failures are logged and fall
// through to the wrapped geocoder. Empty results are cached too.
type Cached struct {
	next   proximity.Geocoder
	client redisClient
	ttl    time.Duration
	logger *zap.Logger
}

func NewCached(next proximity.Geocoder, client redisClient, ttl time.Duration, logger *zap.Logger) *Cached {
	return &Cached{next: next, client: client, ttl: ttl, logger: logger}
}

func cacheKey(query string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(query))
}

func (c *Cached) Geocode(ctx context.Context, query string) ([]model.GeoPoint, error) {
	key := cacheKey(query)

	data, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var points []model.GeoPoint
		if err := json.Unmarshal([]byte(data), &points); err == nil {
			metrics.ObserveGeocode("cache", "hit")
			return points, nil
		}
		c.logger.Warn("Ignoring undecodable geocode cache entry", zap.String("key", key))
	case err == redis.Nil:
		metrics.ObserveGeocode("cache", "miss")
	default:
		c.logger.Warn("Geocode cache read failed", zap.String("key", key), zap.Error(err))
	}

	points, err := c.next.Geocode(ctx, query)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []model.GeoPoint{}
	}

	b, err := json.Marshal(points)
	if err != nil {
		return points, nil
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.logger.Warn("Geocode cache write failed", zap.String("key", key), zap.Error(err))
	}

	return points, nil
}
