package domain

import "time"

// TripRequest is the inbound webhook payload. Every field is caller-supplied
// and untrusted; only CheckinDate is required downstream.
type TripRequest struct {
	CheckinDate   string   `json:"checkin_date"`
	CheckoutDate  string   `json:"checkout_date,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	StreetAddress string   `json:"street_address,omitempty"`
	City          string   `json:"city,omitempty"`
	State         string   `json:"state,omitempty"`
	ZipCode       string   `json:"zip_code,omitempty"`
	Country       string   `json:"country,omitempty"`
	PropertyID    string   `json:"property_id,omitempty"`
	PropertyName  string   `json:"property_name,omitempty"`
	GuestEmail    string   `json:"guest_email,omitempty"`
}

type Coordinates struct{ Lat, Lon float64 }

// Category is the coarse condition bucket used for summaries and packing rules.
type Category string

const (
	CategoryRainy        Category = "Rainy"
	CategorySnow         Category = "Snow"
	CategoryStormy       Category = "Stormy"
	CategoryCloudy       Category = "Cloudy"
	CategorySunny        Category = "Sunny"
	CategoryPartlyCloudy Category = "Partly Cloudy"
	CategoryFoggy        Category = "Foggy"
)

// DailyForecast is one normalized calendar day of the stay. Built once by the
// normalizer, immutable afterwards.
type DailyForecast struct {
	Date         time.Time
	Weekday      string
	WeekdayShort string
	MonthDay     string
	IsFirstDay   bool
	IsLastDay    bool
	TempHigh     int
	TempLow      int
	PrecipChance int // percent, 0-100
	Condition    string
	Category     Category
	Icon         string
}

// TripSummary aggregates the normalized days into trip-level figures plus the
// narrative sentence and packing list rendered into the outgoing email.
type TripSummary struct {
	AvgHigh          int
	AvgLow           int
	MaxHigh          int
	MinLow           int
	AvgPrecipitation int
	RainyDays        int
	Narrative        string
	PackingList      []string
}
