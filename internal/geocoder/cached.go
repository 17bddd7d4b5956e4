package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"devcamper/internal/cache"

	"go.uber.org/zap"
)

const cacheKeyPrefix = "geocode:"

// Cached remembers successful lookups in a cache.Repository.
// Cache failures are logged and never fail the lookup.
type Cached struct {
	next   Geocoder
	cache  cache.Repository
	ttl    time.Duration
	logger *zap.Logger
}

func NewCached(next Geocoder, repo cache.Repository, ttl time.Duration, logger *zap.Logger) *Cached {
	return &Cached{next: next, cache: repo, ttl: ttl, logger: logger.Named("GeocoderCache")}
}

func (c *Cached) Geocode(ctx context.Context, address string) (*Result, error) {
	key := cacheKeyPrefix + strings.ToLower(strings.TrimSpace(address))

	raw, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var res Result
		if jsonErr := json.Unmarshal(raw, &res); jsonErr == nil {
			return &res, nil
		}
		c.logger.Warn("Discarding undecodable cache entry", zap.String("key", key))
	case !errors.Is(err, cache.ErrNotFound):
		c.logger.Warn("Cache lookup failed", zap.String("key", key), zap.Error(err))
	}

	res, err := c.next.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(res); err == nil {
		if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
			c.logger.Warn("Cache store failed", zap.String("key", key), zap.Error(err))
		}
	}
	return res, nil
}
