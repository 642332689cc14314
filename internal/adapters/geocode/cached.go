package geocode

import (
	"context"
	"strings"

	"github.com/dylan-caulfield/weather-webhook/internal/domain"
)

// Cached wraps a Geocoder with a read-through coordinate cache. Addresses
// rarely move, so hits skip the provider entirely. Errors from the inner
// geocoder are never cached.
type Cached struct {
	inner  domain.Geocoder
	cache  domain.Cache
	ttlSec int
}

func WithCache(inner domain.Geocoder, cache domain.Cache, ttlSec int) *Cached {
	return &Cached{inner: inner, cache: cache, ttlSec: ttlSec}
}

func (c *Cached) Resolve(ctx context.Context, address string) (domain.Coordinates, error) {
	key := "geo:" + strings.ToLower(strings.TrimSpace(address))
	var loc domain.Coordinates
	if ok, _ := c.cache.Get(ctx, key, &loc); ok {
		return loc, nil
	}
	loc, err := c.inner.Resolve(ctx, address)
	if err != nil {
		return domain.Coordinates{}, err
	}
	_ = c.cache.Set(ctx, key, loc, c.ttlSec)
	return loc, nil
}
