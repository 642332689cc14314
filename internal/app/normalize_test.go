package app

import (
	"testing"
	"time"

	"github.com/dylan-caulfield/weather-webhook/internal/domain"
)

func bucket(dtTxt string, temp, pop float64, cond string) map[string]any {
	return map[string]any{
		"dt_txt": dtTxt,
		"main":   map[string]any{"temp": temp},
		"pop":    pop,
		"weather": []any{
			map[string]any{"description": cond, "icon": "10d"},
		},
	}
}

func dailyEntry(date string, fields map[string]any) map[string]any {
	m := map[string]any{"date": date}
	for k, v := range fields {
		m[k] = v
	}
	return m
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func TestNormalizeDays_GroupsSubDailyBuckets(t *testing.T) {
	entries := []map[string]any{
		bucket("2025-07-01 06:00:00", 70.2, 0.10, "clear sky"),
		bucket("2025-07-01 12:00:00", 88.0, 0.50, "scattered clouds"),
		bucket("2025-07-01 15:00:00", 92.4, 0.20, "few clouds"),
		bucket("2025-07-01 21:00:00", 75.0, 0.00, "clear sky"),
	}
	days := normalizeDays(entries, mustDate(t, "2025-07-01"), 1)
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	d := days[0]
	if d.TempHigh != 92 || d.TempLow != 70 {
		t.Fatalf("high/low: got %d/%d", d.TempHigh, d.TempLow)
	}
	if d.PrecipChance != 50 {
		t.Fatalf("precip: got %d, want max across buckets", d.PrecipChance)
	}
	// middle-indexed bucket (4 entries -> index 2) supplies the condition
	if d.Condition != "Few clouds" {
		t.Fatalf("condition: got %q", d.Condition)
	}
	if d.Category != domain.CategoryPartlyCloudy {
		t.Fatalf("category: got %q", d.Category)
	}
}

func TestNormalizeDays_DailyRecordAliases(t *testing.T) {
	entries := []map[string]any{
		dailyEntry("2025-07-01", map[string]any{
			"maxtemp_f": 91.0, "mintemp_f": 72.3, "daily_chance_of_rain": 55.0,
			"condition": map[string]any{"text": "patchy rain nearby", "icon": "//cdn/176.png"},
		}),
		dailyEntry("2025-07-02", map[string]any{
			"high": 84.0, "low": 66.0, "precipitation_probability": 10.0, "conditions": "Sunny",
		}),
	}
	days := normalizeDays(entries, mustDate(t, "2025-07-01"), 2)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].TempHigh != 91 || days[0].TempLow != 72 || days[0].PrecipChance != 55 {
		t.Fatalf("day1: %+v", days[0])
	}
	if days[0].Category != domain.CategoryRainy {
		t.Fatalf("day1 category: %q", days[0].Category)
	}
	if days[0].Icon != "//cdn/176.png" {
		t.Fatalf("day1 icon: %q", days[0].Icon)
	}
	if days[1].TempHigh != 84 || days[1].Category != domain.CategorySunny {
		t.Fatalf("day2: %+v", days[1])
	}
}

func TestNormalizeDays_DailyRecordDefaults(t *testing.T) {
	entries := []map[string]any{
		// high present, everything else absent
		dailyEntry("2025-07-01", map[string]any{"temp_max": 80.0}),
	}
	days := normalizeDays(entries, mustDate(t, "2025-07-01"), 1)
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if days[0].TempHigh != 80 || days[0].TempLow != defaultLow || days[0].PrecipChance != 0 {
		t.Fatalf("defaults not applied: %+v", days[0])
	}
	if days[0].Category != domain.CategoryPartlyCloudy {
		t.Fatalf("empty condition must default to Partly Cloudy, got %q", days[0].Category)
	}
}

func TestNormalizeDays_UnmatchedDayOmitted(t *testing.T) {
	entries := []map[string]any{
		dailyEntry("2025-07-01", map[string]any{"temp_max": 80.0}),
		dailyEntry("2025-07-03", map[string]any{"temp_max": 82.0}),
	}
	days := normalizeDays(entries, mustDate(t, "2025-07-01"), 3)
	if len(days) != 2 {
		t.Fatalf("expected July 2 omitted, got %d days", len(days))
	}
	if !days[0].IsFirstDay || days[0].IsLastDay {
		t.Fatalf("day1 flags: %+v", days[0])
	}
	if !days[1].IsLastDay || days[1].IsFirstDay {
		t.Fatalf("day2 flags: %+v", days[1])
	}
}

func TestNormalizeDays_NoMatchesIsEmpty(t *testing.T) {
	entries := []map[string]any{
		dailyEntry("2025-08-20", map[string]any{"temp_max": 80.0}),
	}
	if days := normalizeDays(entries, mustDate(t, "2025-07-01"), 3); len(days) != 0 {
		t.Fatalf("expected no days, got %d", len(days))
	}
}

func TestNormalizeDays_Labels(t *testing.T) {
	entries := []map[string]any{
		dailyEntry("2025-07-01", map[string]any{"temp_max": 80.0}),
	}
	d := normalizeDays(entries, mustDate(t, "2025-07-01"), 1)[0]
	if d.Weekday != "Tuesday" || d.WeekdayShort != "Tue" || d.MonthDay != "Jul 1" {
		t.Fatalf("labels: %q %q %q", d.Weekday, d.WeekdayShort, d.MonthDay)
	}
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		in   string
		want domain.Category
	}{
		{"thunderstorm", domain.CategoryStormy},
		{"Thunderstorm with light rain", domain.CategoryStormy},
		{"light rain", domain.CategoryRainy},
		{"Patchy drizzle", domain.CategoryRainy},
		{"partly cloudy with showers", domain.CategoryRainy},
		{"snow showers", domain.CategorySnow},
		{"Blizzard", domain.CategorySnow},
		{"fog", domain.CategoryFoggy},
		{"partly cloudy", domain.CategoryPartlyCloudy},
		{"scattered clouds", domain.CategoryPartlyCloudy},
		{"overcast", domain.CategoryCloudy},
		{"clear sky", domain.CategorySunny},
		{"Sunny", domain.CategorySunny},
		{"zorp", domain.CategoryPartlyCloudy},
		{"", domain.CategoryPartlyCloudy},
	}
	for _, c := range cases {
		if got := categorize(c.in); got != c.want {
			t.Errorf("categorize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPrecipPercent(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0, 0}, {0.1, 10}, {0.45, 45}, {1, 100}, {40, 40}, {87.6, 88}, {120, 100}, {-3, 0},
	}
	for _, c := range cases {
		if got := precipPercent(c.in); got != c.want {
			t.Errorf("precipPercent(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}
