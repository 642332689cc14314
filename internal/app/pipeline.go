package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dylan-caulfield/weather-webhook/internal/adapters/observability"
	"github.com/dylan-caulfield/weather-webhook/internal/domain"
)

const dateLayout = "2006-01-02"

type Options struct {
	// Units is the provider unit-system token (imperial in production).
	Units string
	// MaxDays optionally caps the horizon below the provider's own limit.
	MaxDays int
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// Pipeline is the single-pass forecast derivation: validate, resolve, fetch,
// normalize, summarize, with every failure converging on the fallback report.
// It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	geo  domain.Geocoder
	src  domain.ForecastSource
	opts Options
}

// NewPipeline wires the collaborators in. geo or src may be nil when the
// matching credential was absent at startup; requests then fall back without
// attempting any network call.
func NewPipeline(geo domain.Geocoder, src domain.ForecastSource, opts Options) *Pipeline {
	if opts.Units == "" {
		opts.Units = "imperial"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{geo: geo, src: src, opts: opts}
}

// BuildReport runs the pipeline once. It never returns an error: every failure
// path, including panics in parsing or computation, yields the fallback shape.
func (p *Pipeline) BuildReport(ctx context.Context, req domain.TripRequest) (rep Report) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("forecast pipeline panicked")
			observability.ObservePipeline("fallback", "panic")
			rep = fallbackReport(req)
		}
	}()

	if p.src == nil {
		log.Error().Msg("forecast credential missing; serving fallback")
		observability.ObservePipeline("fallback", "no_credential")
		return fallbackReport(req)
	}

	checkin, err := time.Parse(dateLayout, req.CheckinDate)
	if err != nil {
		log.Warn().Str("checkin", req.CheckinDate).Msg("missing or invalid check-in date")
		observability.ObservePipeline("fallback", "bad_input")
		return fallbackReport(req)
	}
	nights := 1
	if req.CheckoutDate != "" {
		if checkout, err := time.Parse(dateLayout, req.CheckoutDate); err == nil {
			if n := int(day(checkout).Sub(day(checkin)).Hours() / 24); n > 0 {
				nights = n
			}
		}
	}

	loc, ok := p.resolve(ctx, req)
	if !ok {
		observability.ObservePipeline("fallback", "no_location")
		return fallbackReport(req)
	}

	entries, err := p.src.Fetch(ctx, loc, p.opts.Units)
	if err != nil {
		log.Error().Err(err).Str("provider", p.src.Name()).Msg("forecast fetch failed")
		observability.ObservePipeline("fallback", "fetch_failed")
		return fallbackReport(req)
	}

	horizon := nights
	if hc := p.src.HorizonDays(); hc > 0 && horizon > hc {
		horizon = hc
	}
	if p.opts.MaxDays > 0 && horizon > p.opts.MaxDays {
		horizon = p.opts.MaxDays
	}

	days := normalizeDays(entries, checkin, horizon)
	if len(days) == 0 {
		log.Warn().Str("checkin", req.CheckinDate).Int("horizon", horizon).
			Msg("no forecast entries matched the stay window")
		observability.ObservePipeline("fallback", "empty_window")
		return fallbackReport(req)
	}

	sum := summarize(days, req.City, nights)
	observability.ObservePipeline("ok", "ok")

	dayReports := make([]DayReport, len(days))
	for i, d := range days {
		dayReports[i] = dayReport(d)
	}
	return Report{
		Success:          true,
		ShowWeather:      true,
		City:             req.City,
		PropertyName:     req.PropertyName,
		CheckinDate:      req.CheckinDate,
		CheckoutDate:     req.CheckoutDate,
		Nights:           nights,
		DaysUntilCheckin: daysUntil(p.opts.Now(), checkin),
		DailyForecasts:   dayReports,
		Summary:          summaryReport(sum),
	}
}

// resolve returns coordinates, preferring ones supplied by the caller.
// Exactly one geocoding lookup is attempted otherwise; any failure, non-OK
// status, or empty result set reads as "fall back".
func (p *Pipeline) resolve(ctx context.Context, req domain.TripRequest) (domain.Coordinates, bool) {
	if req.Latitude != nil && req.Longitude != nil && (*req.Latitude != 0 || *req.Longitude != 0) {
		return domain.Coordinates{Lat: *req.Latitude, Lon: *req.Longitude}, true
	}
	addr := buildAddress(req)
	if addr == "" {
		log.Warn().Msg("no coordinates and no usable address on request")
		return domain.Coordinates{}, false
	}
	if p.geo == nil {
		log.Error().Msg("geocoding credential missing; serving fallback")
		return domain.Coordinates{}, false
	}
	loc, err := p.geo.Resolve(ctx, addr)
	if err != nil {
		log.Warn().Err(err).Str("address", addr).Msg("geocoding failed")
		return domain.Coordinates{}, false
	}
	return loc, true
}

// buildAddress assembles a geocodable string by priority: full street address,
// then "city, state", then city alone, appending the postal code when it is
// not already part of the text.
func buildAddress(req domain.TripRequest) string {
	var s string
	switch {
	case strings.TrimSpace(req.StreetAddress) != "":
		s = strings.TrimSpace(req.StreetAddress)
	case strings.TrimSpace(req.City) != "" && strings.TrimSpace(req.State) != "":
		s = joinNonEmpty(", ", req.City, req.State)
	case strings.TrimSpace(req.City) != "":
		s = strings.TrimSpace(req.City)
	default:
		return ""
	}
	if zip := strings.TrimSpace(req.ZipCode); zip != "" && !strings.Contains(s, zip) {
		s += " " + zip
	}
	return s
}

func daysUntil(now, checkin time.Time) int {
	n := int(day(checkin).Sub(day(now)).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}
