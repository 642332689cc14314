package app

import (
	"github.com/dylan-caulfield/weather-webhook/internal/domain"
)

// Report is the JSON payload handed to the email/notification pipeline. It is
// always well-formed: failures swap the forecast content for the fallback
// shape but never change the envelope.
type Report struct {
	Success          bool           `json:"success"`
	ShowWeather      bool           `json:"show_weather"`
	Fallback         bool           `json:"fallback"`
	City             string         `json:"city,omitempty"`
	PropertyName     string         `json:"property_name,omitempty"`
	CheckinDate      string         `json:"checkin_date,omitempty"`
	CheckoutDate     string         `json:"checkout_date,omitempty"`
	Nights           int            `json:"nights,omitempty"`
	DaysUntilCheckin int            `json:"days_until_checkin,omitempty"`
	DailyForecasts   []DayReport    `json:"daily_forecasts,omitempty"`
	Summary          *SummaryReport `json:"summary,omitempty"`
}

type DayReport struct {
	Date         string `json:"date"`
	Weekday      string `json:"weekday"`
	WeekdayShort string `json:"weekday_short"`
	MonthDay     string `json:"month_day"`
	IsFirstDay   bool   `json:"is_first_day"`
	IsLastDay    bool   `json:"is_last_day"`
	TempHigh     int    `json:"temp_high"`
	TempLow      int    `json:"temp_low"`
	PrecipChance int    `json:"precipitation_chance"`
	Condition    string `json:"condition"`
	Category     string `json:"category"`
	Icon         string `json:"icon,omitempty"`
}

type SummaryReport struct {
	AvgHigh          int      `json:"avg_high"`
	AvgLow           int      `json:"avg_low"`
	MaxHigh          int      `json:"max_high"`
	MinLow           int      `json:"min_low"`
	AvgPrecipitation int      `json:"avg_precipitation"`
	RainyDays        int      `json:"rainy_days"`
	Narrative        string   `json:"narrative"`
	PackingList      []string `json:"packing_list"`
}

func dayReport(d domain.DailyForecast) DayReport {
	return DayReport{
		Date:         d.Date.Format("2006-01-02"),
		Weekday:      d.Weekday,
		WeekdayShort: d.WeekdayShort,
		MonthDay:     d.MonthDay,
		IsFirstDay:   d.IsFirstDay,
		IsLastDay:    d.IsLastDay,
		TempHigh:     d.TempHigh,
		TempLow:      d.TempLow,
		PrecipChance: d.PrecipChance,
		Condition:    d.Condition,
		Category:     string(d.Category),
		Icon:         d.Icon,
	}
}

func summaryReport(s domain.TripSummary) *SummaryReport {
	return &SummaryReport{
		AvgHigh:          s.AvgHigh,
		AvgLow:           s.AvgLow,
		MaxHigh:          s.MaxHigh,
		MinLow:           s.MinLow,
		AvgPrecipitation: s.AvgPrecipitation,
		RainyDays:        s.RainyDays,
		Narrative:        s.Narrative,
		PackingList:      s.PackingList,
	}
}

// fallbackReport is the universal failure answer: pure, no I/O, carries only
// what the caller already told us.
func fallbackReport(req domain.TripRequest) Report {
	return Report{
		Success:      false,
		ShowWeather:  false,
		Fallback:     true,
		City:         req.City,
		PropertyName: req.PropertyName,
		CheckinDate:  req.CheckinDate,
		CheckoutDate: req.CheckoutDate,
		Summary: &SummaryReport{
			Narrative: "We couldn't load the forecast for your stay, but we hope you have a wonderful trip. Check a local forecast closer to your check-in date.",
			PackingList: []string{
				"comfortable clothing for the season",
				"a light jacket just in case",
			},
		},
	}
}
