package weatherapi_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dylan-caulfield/weather-webhook/internal/adapters/weatherapi"
	"github.com/dylan-caulfield/weather-webhook/internal/domain"
)

func TestClient_Fetch_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") == "" {
			t.Errorf("expected key param")
		}
		if got := r.URL.Query().Get("days"); got != "7" {
			t.Errorf("unexpected days: %q", got)
		}
		fmt.Fprint(w, `{"forecast":{"forecastday":[
			{"date":"2025-07-01","day":{"maxtemp_f":91.0,"mintemp_f":72.3,"daily_chance_of_rain":20,"condition":{"text":"Sunny","icon":"//cdn/day/113.png"}}},
			{"date":"2025-07-02","day":{"maxtemp_f":89.2,"mintemp_f":71.0,"daily_chance_of_rain":55,"condition":{"text":"Patchy rain nearby","icon":"//cdn/day/176.png"}}}
		]}}`)
	}))
	defer ts.Close()

	cl, err := weatherapi.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	entries, err := cl.Fetch(ctx, domain.Coordinates{Lat: 30.27, Lon: -97.74}, "imperial")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if cl.HorizonDays() != 7 {
		t.Fatalf("horizon cap: %d", cl.HorizonDays())
	}
}

func TestClient_Fetch_BadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(503)
	}))
	defer ts.Close()

	cl, _ := weatherapi.New(ts.URL, "test-key", 100)
	if _, err := cl.Fetch(context.Background(), domain.Coordinates{}, "imperial"); err == nil {
		t.Fatalf("expected error for 503")
	}
}
