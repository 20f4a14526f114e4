// README: Read-through Redis cache for geocode results.
package geo

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const geocodeKeyPrefix = "geo:addr:"

// CachedGeocoder caches successful geocode results in Redis. Failed lookups
// are never cached, and cache errors degrade to a live provider call.
// Only address resolution is cached; fare estimates themselves are always
// computed fresh.
type CachedGeocoder struct {
	next  Geocoder
	redis *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedGeocoder(next Geocoder, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedGeocoder {
	return &CachedGeocoder{next: next, redis: rdb, ttl: ttl, log: log}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (ResolvedLocation, error) {
	key := geocodeKeyPrefix + strings.ToLower(strings.TrimSpace(address))

	if raw, err := c.redis.Get(ctx, key).Result(); err == nil {
		var loc ResolvedLocation
		if err := json.Unmarshal([]byte(raw), &loc); err == nil {
			return loc, nil
		}
		// stale or corrupt entry, fall through to the provider
	} else if err != redis.Nil {
		c.log.Debug("geocode cache read failed", zap.Error(err))
	}

	loc, err := c.next.Geocode(ctx, address)
	if err != nil {
		return ResolvedLocation{}, err
	}

	if raw, err := json.Marshal(loc); err == nil {
		if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Debug("geocode cache write failed", zap.Error(err))
		}
	}
	return loc, nil
}
