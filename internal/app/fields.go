package app

import (
	"strconv"
	"strings"
	"time"
)

/********** alias registries (single source of truth) **********/

// Forecast providers disagree on field names for the same concept; each alias
// list is checked in order and the first present value wins.
var forecastAliases = map[string][]string{
	"high":        {"main.temp_max", "temp.max", "day.maxtemp_f", "maxtemp_f", "temp_max", "high_temp", "high", "max_temp"},
	"low":         {"main.temp_min", "temp.min", "day.mintemp_f", "mintemp_f", "temp_min", "low_temp", "low", "min_temp"},
	"bucket_temp": {"main.temp", "temp", "temperature"},
	"precip":      {"pop", "day.daily_chance_of_rain", "daily_chance_of_rain", "precipitation_probability", "precip_prob", "chance_of_rain"},
	"condition":   {"day.condition.text", "condition.text", "weather_description", "conditions", "description", "summary"},
	"icon":        {"day.condition.icon", "condition.icon", "icon"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyStr: first non-empty string for a named alias set.
func firstNonEmptyStr(m map[string]any, key string) string {
	for _, p := range forecastAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// entryDate extracts the calendar day an entry refers to, trying textual
// timestamps first and unix-epoch fields second. Providers report local time;
// we keep whatever day they said without timezone math.
func entryDate(m map[string]any) (time.Time, bool) {
	for _, path := range []string{"dt_txt", "date", "datetime", "valid_date", "time"} {
		s := lookupStr(m, path)
		if s == "" {
			continue
		}
		for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return day(t), true
			}
		}
	}
	if f := getFloatFlexible(m, "dt", "date_epoch", "time_epoch"); f != nil {
		return day(time.Unix(int64(*f), 0).UTC()), true
	}
	return time.Time{}, false
}

// day truncates to midnight UTC so calendar-date equality is a simple compare.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// precipPercent normalizes a precipitation probability to 0-100. Some
// providers report a fraction (OpenWeather's pop is 0..1), others a percent.
func precipPercent(v float64) int {
	if v <= 1.0 {
		v *= 100
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v + 0.5)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, sep)
}
