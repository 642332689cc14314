package domain

import "context"

// Geocoder resolves a free-form address string to coordinates. Implementations
// issue at most one lookup per call; ambiguity and provider errors surface as
// ordinary errors for the caller to treat as a fallback signal.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (Coordinates, error)
}

// ForecastSource fetches a raw multi-day forecast for a coordinate pair.
// Entries are left as decoded JSON objects; the normalizer owns interpreting
// them, since providers disagree on both shape and field names.
type ForecastSource interface {
	Fetch(ctx context.Context, loc Coordinates, units string) ([]map[string]any, error)
	// HorizonDays is the provider's maximum forecast horizon in days.
	HorizonDays() int
	Name() string
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
