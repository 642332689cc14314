package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv           string
	HTTPAddr         string
	MetricsAddr      string
	RedisAddr        string
	RedisDB          int
	RedisPass        string
	GeocodeBase      string
	GeocodeKey       string
	ForecastProvider string
	OpenWeatherBase  string
	WeatherAPIBase   string
	WeatherKey       string
	Units            string
	MaxForecastDays  int
	BatchWorkers     int
	CacheTTL         time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:           env("APP_ENV", "prod"),
		HTTPAddr:         env("HTTP_ADDR", ":8080"),
		MetricsAddr:      env("METRICS_ADDR", ":9100"),
		RedisAddr:        env("REDIS_ADDR", ""),
		RedisPass:        env("REDIS_PASSWORD", ""),
		GeocodeBase:      env("GEOCODE_BASE_URL", "https://maps.googleapis.com/maps/api/geocode"),
		GeocodeKey:       env("GEOCODE_API_KEY", ""),
		ForecastProvider: env("FORECAST_PROVIDER", "openweather"),
		OpenWeatherBase:  env("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		WeatherAPIBase:   env("WEATHERAPI_BASE_URL", "https://api.weatherapi.com/v1"),
		WeatherKey:       env("WEATHER_API_KEY", ""),
		Units:            env("UNITS", "imperial"),
		MaxForecastDays:  atoi("MAX_FORECAST_DAYS", 0), // 0 = provider cap
		BatchWorkers:     atoi("BATCH_WORKERS", 8),
		CacheTTL:         time.Duration(atoi("CACHE_TTL_SECONDS", 86400)) * time.Second,
	}
	if c.WeatherKey == "" {
		log.Warn().Msg("WEATHER_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
