package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dylan-caulfield/weather-webhook/internal/adapters/observability"
	"github.com/dylan-caulfield/weather-webhook/internal/domain"
)

var (
	ErrNoResults    = errors.New("geocode: no results")
	ErrUnauthorized = errors.New("geocode: unauthorized")
)

// Client talks to a Google-geocoding-shaped API: address in, status plus a
// list of candidate results out. One lookup per Resolve call, no retries; a
// failed lookup is a normal outcome the pipeline turns into a fallback.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type geoResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (c *Client) Resolve(ctx context.Context, address string) (domain.Coordinates, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return domain.Coordinates{}, err
	}

	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.key)
	u := fmt.Sprintf("%s/json?%s", c.base, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Coordinates{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "weather-webhook/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("geocode", "geocode", 0, time.Since(start))
		return domain.Coordinates{}, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("geocode", "geocode", resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.Coordinates{}, ErrUnauthorized
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.Coordinates{}, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Coordinates{}, err
	}
	if out.Status != "OK" || len(out.Results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("%w (status %q)", ErrNoResults, out.Status)
	}
	loc := out.Results[0].Geometry.Location
	return domain.Coordinates{Lat: loc.Lat, Lon: loc.Lng}, nil
}
