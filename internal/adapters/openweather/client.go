package openweather

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

// The 5-day/3-hour endpoint never forecasts further than this.
const horizonDays = 5

var ErrUnauthorized = errors.New("openweather: unauthorized")

// Client fetches the OpenWeather 5-day forecast: a flat list of 3-hour
// buckets that the normalizer groups into calendar days. Single attempt per
// Fetch; failures are fallback signals, not retryable conditions.
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

func (c *Client) Name() string     { return "openweather" }
func (c *Client) HorizonDays() int { return horizonDays }

func (c *Client) Fetch(ctx context.Context, loc domain.Coordinates, units string) ([]map[string]any, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", loc.Lat))
	q.Set("lon", fmt.Sprintf("%f", loc.Lon))
	q.Set("units", units)
	q.Set("appid", c.key)
	u := fmt.Sprintf("%s/forecast?%s", c.base, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "weather-webhook/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("openweather", "forecast", 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("openweather", "forecast", resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out struct {
		List []map[string]any `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.List) == 0 {
		return nil, errors.New("openweather: empty forecast list")
	}
	return out.List, nil
}
