package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dylan-caulfield/weather-webhook/internal/adapters/observability"
	"github.com/dylan-caulfield/weather-webhook/internal/domain"
)

const horizonDays = 7

var ErrUnauthorized = errors.New("weatherapi: unauthorized")

// Client fetches WeatherAPI's forecast endpoint, which returns one
// pre-aggregated record per day under forecast.forecastday. Temperatures come
// in both unit systems; the normalizer reads the Fahrenheit fields, so the
// units token is accepted for interface parity but not sent on the wire.
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

func (c *Client) Name() string     { return "weatherapi" }
func (c *Client) HorizonDays() int { return horizonDays }

func (c *Client) Fetch(ctx context.Context, loc domain.Coordinates, units string) ([]map[string]any, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", fmt.Sprintf("%f,%f", loc.Lat, loc.Lon))
	q.Set("days", strconv.Itoa(horizonDays))
	q.Set("key", c.key)
	u := fmt.Sprintf("%s/forecast.json?%s", c.base, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "weather-webhook/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("weatherapi", "forecast", 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("weatherapi", "forecast", resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out struct {
		Forecast struct {
			ForecastDay []map[string]any `json:"forecastday"`
		} `json:"forecast"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Forecast.ForecastDay) == 0 {
		return nil, errors.New("weatherapi: empty forecast list")
	}
	return out.Forecast.ForecastDay, nil
}
