package app

import (
	"fmt"
	"math"
	"strings"

	"github.com/dylan-caulfield/weather-webhook/internal/domain"
)

// A day counts as rainy when its precipitation chance strictly exceeds this.
const rainyDayThreshold = 40

const maxPackingItems = 5

// summarize computes trip-level statistics from the normalized days plus the
// narrative sentence and packing list. days must be non-empty.
func summarize(days []domain.DailyForecast, city string, nights int) domain.TripSummary {
	var sumHigh, sumLow, sumPrecip int
	maxHigh, minLow := days[0].TempHigh, days[0].TempLow
	rainy := 0
	for _, d := range days {
		sumHigh += d.TempHigh
		sumLow += d.TempLow
		sumPrecip += d.PrecipChance
		if d.TempHigh > maxHigh {
			maxHigh = d.TempHigh
		}
		if d.TempLow < minLow {
			minLow = d.TempLow
		}
		if d.PrecipChance > rainyDayThreshold {
			rainy++
		}
	}
	n := len(days)
	s := domain.TripSummary{
		AvgHigh:          roundMean(sumHigh, n),
		AvgLow:           roundMean(sumLow, n),
		MaxHigh:          maxHigh,
		MinLow:           minLow,
		AvgPrecipitation: roundMean(sumPrecip, n),
		RainyDays:        rainy,
	}
	s.Narrative = narrative(days, s, city, nights)
	s.PackingList = packingList(days, s)
	return s
}

func roundMean(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}

// narrative builds the single summary sentence. The qualitative clause is
// picked by priority: a uniform condition category names itself, then average
// precipitation tiers, then "pleasant".
func narrative(days []domain.DailyForecast, s domain.TripSummary, city string, nights int) string {
	qual := "pleasant"
	switch {
	case uniformCategory(days):
		qual = strings.ToLower(string(days[0].Category))
	case s.AvgPrecipitation > 50:
		qual = "mostly rainy"
	case s.AvgPrecipitation > 30:
		qual = "mixed with some rain"
	}
	place := "your destination"
	if city != "" {
		place = city
	}
	return fmt.Sprintf("Expect %s weather in %s during your %d-night stay, with highs around %d°F and lows around %d°F.",
		qual, place, nights, s.AvgHigh, s.AvgLow)
}

func uniformCategory(days []domain.DailyForecast) bool {
	for _, d := range days[1:] {
		if d.Category != days[0].Category {
			return false
		}
	}
	return true
}

// packingList accumulates suggestions from independent threshold rules, then
// dedupes in first-seen order and caps the list.
func packingList(days []domain.DailyForecast, s domain.TripSummary) []string {
	var items []string
	switch {
	case s.MaxHigh >= 85:
		items = append(items, "lightweight breathable clothing", "sunscreen and sunglasses")
	case s.MaxHigh >= 65:
		items = append(items, "comfortable layers for mild weather")
	default:
		items = append(items, "a warm coat")
	}
	if s.MinLow < 55 {
		items = append(items, "a warm layer for cool evenings")
	}
	if s.MaxHigh-s.MinLow > 25 {
		items = append(items, "versatile layers for swings in temperature")
	}
	switch {
	case s.AvgPrecipitation > 60:
		items = append(items, "a rain jacket", "waterproof shoes")
	case s.AvgPrecipitation > 30:
		items = append(items, "a compact umbrella")
	}
	for _, d := range days {
		if d.Category == domain.CategorySnow {
			items = append(items, "winter boots and gloves")
			break
		}
	}

	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, it := range items {
		if _, dup := seen[it]; dup {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
		if len(out) == maxPackingItems {
			break
		}
	}
	return out
}
