package collector

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"GoldSentinel/internal/model"
)

// CachedSource wraps a Source and keeps successful responses for a TTL.
type CachedSource struct {
	inner Source
	cache *gocache.Cache
}

// NewCachedSource wraps inner with a cache. A non-positive ttl falls back to 10 minutes.
func NewCachedSource(inner Source, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedSource{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *CachedSource) Name() string { return c.inner.Name() + "+cache" }

func (c *CachedSource) FetchHistory(ctx context.Context, symbol string, lookbackDays int) ([]model.PriceSample, error) {
	key := fmt.Sprintf("history:%s:%d", symbol, lookbackDays)
	if v, ok := c.cache.Get(key); ok {
		return v.([]model.PriceSample), nil
	}
	samples, err := c.inner.FetchHistory(ctx, symbol, lookbackDays)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, samples)
	return samples, nil
}

func (c *CachedSource) FetchLatestRate(ctx context.Context, pair string) (model.RateSnapshot, error) {
	key := "rate:" + pair
	if v, ok := c.cache.Get(key); ok {
		return v.(model.RateSnapshot), nil
	}
	rate, err := c.inner.FetchLatestRate(ctx, pair)
	if err != nil {
		return model.RateSnapshot{}, err
	}
	c.cache.SetDefault(key, rate)
	return rate, nil
}

// Flush drops all cached responses.
func (c *CachedSource) Flush() { c.cache.Flush() }
