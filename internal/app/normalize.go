package app

import (
	"math"
	"strings"
	"time"

	"github.com/dylan-caulfield/weather-webhook/internal/domain"
)

// Defaults substituted when a pre-aggregated daily record is missing a field.
const (
	defaultHigh = 75
	defaultLow  = 60
)

// normalizeDays maps raw provider entries onto one DailyForecast per calendar
// day of the stay, starting at checkin, for at most horizon days. Two provider
// shapes are handled: many sub-daily buckets per day (grouped and aggregated)
// and one pre-aggregated record per day (read via alias lookups with
// defaults). Days with no matching entry are omitted.
func normalizeDays(entries []map[string]any, checkin time.Time, horizon int) []domain.DailyForecast {
	groups := make(map[time.Time][]map[string]any, len(entries))
	for _, e := range entries {
		d, ok := entryDate(e)
		if !ok {
			continue
		}
		groups[d] = append(groups[d], e)
	}

	out := make([]domain.DailyForecast, 0, horizon)
	for i := 0; i < horizon; i++ {
		d := day(checkin).AddDate(0, 0, i)
		group, ok := groups[d]
		if !ok {
			continue
		}

		var df domain.DailyForecast
		if len(group) == 1 && hasDailyShape(group[0]) {
			df = dailyFromRecord(group[0])
		} else {
			df = dailyFromBuckets(group)
		}

		df.Date = d
		df.Weekday = d.Weekday().String()
		df.WeekdayShort = d.Format("Mon")
		df.MonthDay = d.Format("Jan 2")
		df.IsFirstDay = i == 0
		df.Condition = capitalize(df.Condition)
		df.Category = categorize(df.Condition)
		out = append(out, df)
	}
	if n := len(out); n > 0 {
		out[n-1].IsLastDay = true
	}
	return out
}

// hasDailyShape reports whether an entry carries pre-aggregated high/low
// fields, as opposed to a single instantaneous temperature.
func hasDailyShape(e map[string]any) bool {
	return getFloatFlexible(e, forecastAliases["high"]...) != nil ||
		getFloatFlexible(e, forecastAliases["low"]...) != nil
}

func dailyFromRecord(e map[string]any) domain.DailyForecast {
	high, low := defaultHigh, defaultLow
	if f := getFloatFlexible(e, forecastAliases["high"]...); f != nil {
		high = int(math.Round(*f))
	}
	if f := getFloatFlexible(e, forecastAliases["low"]...); f != nil {
		low = int(math.Round(*f))
	}
	precip := 0
	if f := getFloatFlexible(e, forecastAliases["precip"]...); f != nil {
		precip = precipPercent(*f)
	}
	return domain.DailyForecast{
		TempHigh:     high,
		TempLow:      low,
		PrecipChance: precip,
		Condition:    conditionOf(e),
		Icon:         iconOf(e),
	}
}

// dailyFromBuckets aggregates sub-daily buckets: max temperature becomes the
// high, min the low, max probability the day's chance, and the middle bucket
// (by insertion order) supplies the representative condition text.
func dailyFromBuckets(group []map[string]any) domain.DailyForecast {
	var (
		high, low float64
		haveTemp  bool
		precip    int
	)
	for _, e := range group {
		t := getFloatFlexible(e, forecastAliases["bucket_temp"]...)
		if t == nil {
			t = getFloatFlexible(e, forecastAliases["high"]...)
		}
		if t != nil {
			if !haveTemp || *t > high {
				high = *t
			}
			if !haveTemp || *t < low {
				low = *t
			}
			haveTemp = true
		}
		if f := getFloatFlexible(e, forecastAliases["precip"]...); f != nil {
			if p := precipPercent(*f); p > precip {
				precip = p
			}
		}
	}
	if !haveTemp {
		high, low = defaultHigh, defaultLow
	}
	mid := group[len(group)/2]
	return domain.DailyForecast{
		TempHigh:     int(math.Round(high)),
		TempLow:      int(math.Round(low)),
		PrecipChance: precip,
		Condition:    conditionOf(mid),
		Icon:         iconOf(mid),
	}
}

// conditionOf reads the condition text, falling back to OpenWeather's nested
// weather array when no flat alias matches.
func conditionOf(e map[string]any) string {
	if s := firstNonEmptyStr(e, "condition"); s != "" {
		return s
	}
	if arr, ok := lookupAny(e, "weather").([]any); ok && len(arr) > 0 {
		if w, ok := arr[0].(map[string]any); ok {
			if s, ok := w["description"].(string); ok && s != "" {
				return s
			}
			if s, ok := w["main"].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func iconOf(e map[string]any) string {
	if s := firstNonEmptyStr(e, "icon"); s != "" {
		return s
	}
	if arr, ok := lookupAny(e, "weather").([]any); ok && len(arr) > 0 {
		if w, ok := arr[0].(map[string]any); ok {
			if s, ok := w["icon"].(string); ok {
				return s
			}
		}
	}
	return ""
}

/********** condition categorization **********/

// Ordered rule table; first matching keyword wins. Storm and snow terms come
// first, rain terms before the generic cloud terms, so "thunderstorm" is
// Stormy and "partly cloudy with showers" is Rainy.
var categoryRules = []struct {
	keywords []string
	cat      domain.Category
}{
	{[]string{"thunder", "storm"}, domain.CategoryStormy},
	{[]string{"snow", "sleet", "blizzard", "flurr", "ice"}, domain.CategorySnow},
	{[]string{"rain", "drizzle", "shower"}, domain.CategoryRainy},
	{[]string{"fog", "mist", "haze"}, domain.CategoryFoggy},
	{[]string{"partly", "partial", "few clouds", "scattered"}, domain.CategoryPartlyCloudy},
	{[]string{"cloud", "overcast"}, domain.CategoryCloudy},
	{[]string{"clear", "sun", "fair"}, domain.CategorySunny},
}

func categorize(condition string) domain.Category {
	low := strings.ToLower(condition)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(low, kw) {
				return rule.cat
			}
		}
	}
	return domain.CategoryPartlyCloudy
}
