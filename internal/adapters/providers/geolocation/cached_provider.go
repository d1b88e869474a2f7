package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/zatekoja/placeviewer/internal/domain/providers"
	"github.com/zatekoja/placeviewer/internal/infrastructure/observability"
)

// DefaultCacheTTL keeps geocoder answers for thirty days.
const DefaultCacheTTL = 60 * 60 * 24 * 30

// CachedProvider fronts a geocoder with a CacheProvider. Identical queries
// in flight at the same time share one upstream request.
type CachedProvider struct {
	next    providers.GeocodingProvider
	cache   providers.CacheProvider
	ttl     int
	metrics *observability.Metrics
	group   singleflight.Group
}

// NewCachedProvider wraps next. A ttl of zero or less uses DefaultCacheTTL;
// metrics may be nil.
func NewCachedProvider(next providers.GeocodingProvider, cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) *CachedProvider {
	if ttlSeconds <= 0 {
		ttlSeconds = DefaultCacheTTL
	}
	return &CachedProvider{
		next:    next,
		cache:   cache,
		ttl:     ttlSeconds,
		metrics: metrics,
	}
}

// Name implements providers.GeocodingProvider.
func (c *CachedProvider) Name() string {
	return c.next.Name()
}

// Search implements providers.GeocodingProvider. Empty answers are not cached.
func (c *CachedProvider) Search(ctx context.Context, query string, limit int) ([]providers.Candidate, error) {
	key := c.cacheKey(query, limit)

	if cached, err := c.cache.Get(ctx, key); err == nil && len(cached) > 0 {
		var candidates []providers.Candidate
		if err := json.Unmarshal(cached, &candidates); err == nil {
			observability.RecordCacheHit(ctx, c.metrics, "geocode")
			return candidates, nil
		}
	} else if err != nil && !errors.Is(err, providers.ErrCacheMiss) {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("provider", c.Name()).Msg("geocode cache read failed")
	}
	observability.RecordCacheMiss(ctx, c.metrics, "geocode")

	result, err, _ := c.group.Do(key, func() (any, error) {
		start := time.Now()
		candidates, err := c.next.Search(ctx, query, limit)
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		observability.RecordGeocodeMetric(ctx, c.metrics, c.Name(), outcome, time.Since(start))
		if err != nil {
			return nil, err
		}

		if len(candidates) > 0 {
			if payload, err := json.Marshal(candidates); err == nil {
				if err := c.cache.Set(ctx, key, payload, c.ttl); err != nil {
					observability.LoggerFromContext(ctx).Warn().Err(err).Str("provider", c.Name()).Msg("geocode cache write failed")
				}
			}
		}
		return candidates, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]providers.Candidate), nil
}

func (c *CachedProvider) cacheKey(query string, limit int) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(query), " "))
	return fmt.Sprintf("geo:v1:%s:%s", strings.ToLower(c.Name()), hashKey(fmt.Sprintf("%s|%d", normalized, limit)))
}
