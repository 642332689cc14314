package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/dylan-caulfield/weather-webhook/internal/adapters/geocode"
	server "github.com/dylan-caulfield/weather-webhook/internal/adapters/http_server"
	"github.com/dylan-caulfield/weather-webhook/internal/adapters/observability"
	"github.com/dylan-caulfield/weather-webhook/internal/adapters/openweather"
	"github.com/dylan-caulfield/weather-webhook/internal/adapters/rediscache"
	"github.com/dylan-caulfield/weather-webhook/internal/adapters/weatherapi"
	"github.com/dylan-caulfield/weather-webhook/internal/app"
	"github.com/dylan-caulfield/weather-webhook/internal/domain"
	"github.com/dylan-caulfield/weather-webhook/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// deps; missing credentials leave collaborators nil and the pipeline
	// serves fallbacks instead of refusing to start
	var src domain.ForecastSource
	if cfg.WeatherKey == "" {
		log.Error().Msg("WEATHER_API_KEY missing; every request will get the fallback payload")
	} else {
		var err error
		switch cfg.ForecastProvider {
		case "weatherapi":
			src, err = weatherapi.New(cfg.WeatherAPIBase, cfg.WeatherKey, 5)
		default:
			src, err = openweather.New(cfg.OpenWeatherBase, cfg.WeatherKey, 5)
		}
		if err != nil {
			log.Fatal().Err(err).Str("provider", cfg.ForecastProvider).Msg("forecast client init failed")
		}
	}

	var geo domain.Geocoder
	if cfg.GeocodeKey == "" {
		log.Warn().Msg("GEOCODE_API_KEY missing; only requests with coordinates will resolve")
	} else {
		g, err := geocode.New(cfg.GeocodeBase, cfg.GeocodeKey, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("geocode client init failed")
		}
		geo = g
		if cfg.RedisAddr != "" {
			cache := rediscache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
			geo = geocode.WithCache(geo, cache, int(cfg.CacheTTL.Seconds()))
		}
	}

	p := app.NewPipeline(geo, src, app.Options{Units: cfg.Units, MaxDays: cfg.MaxForecastDays})

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{P: p})

	log.Info().Str("addr", cfg.HTTPAddr).Str("provider", cfg.ForecastProvider).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
