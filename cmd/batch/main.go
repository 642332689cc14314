package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/dylan-caulfield/weather-webhook/internal/adapters/geocode"
	"github.com/dylan-caulfield/weather-webhook/internal/adapters/observability"
	"github.com/dylan-caulfield/weather-webhook/internal/adapters/openweather"
	"github.com/dylan-caulfield/weather-webhook/internal/adapters/rediscache"
	"github.com/dylan-caulfield/weather-webhook/internal/adapters/weatherapi"
	"github.com/dylan-caulfield/weather-webhook/internal/app"
	"github.com/dylan-caulfield/weather-webhook/internal/domain"
	"github.com/dylan-caulfield/weather-webhook/internal/shared"
)

// batch reads a JSON array of trip requests and emits one report per line on
// stdout, for feeding the email pipeline outside the webhook path. A trip
// whose forecast cannot be built still produces a (fallback) line.
func main() {
	tripsPath := flag.String("f", "trips.json", "path to JSON array of trip requests")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	raw, err := os.ReadFile(*tripsPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *tripsPath).Msg("read trips file failed")
	}
	var trips []domain.TripRequest
	if err := json.Unmarshal(raw, &trips); err != nil {
		log.Fatal().Err(err).Msg("trips file is not a JSON array of trip requests")
	}

	var src domain.ForecastSource
	if cfg.WeatherKey != "" {
		switch cfg.ForecastProvider {
		case "weatherapi":
			src, err = weatherapi.New(cfg.WeatherAPIBase, cfg.WeatherKey, 5)
		default:
			src, err = openweather.New(cfg.OpenWeatherBase, cfg.WeatherKey, 5)
		}
		if err != nil {
			log.Fatal().Err(err).Msg("forecast client init failed")
		}
	}
	var geo domain.Geocoder
	if cfg.GeocodeKey != "" {
		g, gerr := geocode.New(cfg.GeocodeBase, cfg.GeocodeKey, 5)
		if gerr != nil {
			log.Fatal().Err(gerr).Msg("geocode client init failed")
		}
		geo = g
		if cfg.RedisAddr != "" {
			geo = geocode.WithCache(geo, rediscache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB), int(cfg.CacheTTL.Seconds()))
		}
	}
	p := app.NewPipeline(geo, src, app.Options{Units: cfg.Units, MaxDays: cfg.MaxForecastDays})

	log.Info().Int("trips", len(trips)).Int("workers", cfg.BatchWorkers).Msg("batch starting")

	sem := semaphore.NewWeighted(int64(cfg.BatchWorkers))
	var wg sync.WaitGroup
	results := make([]json.RawMessage, len(trips))

	for i, trip := range trips {
		i, trip := i, trip

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			rep := p.BuildReport(ctx, trip)
			b, err := json.Marshal(rep)
			if err != nil {
				log.Error().Err(err).Int("trip", i).Msg("marshal report failed")
				return
			}
			results[i] = b
		}()
	}
	wg.Wait()

	out := json.NewEncoder(os.Stdout)
	for _, r := range results {
		if r != nil {
			_ = out.Encode(r)
		}
	}
	log.Info().Msg("batch completed")
}
