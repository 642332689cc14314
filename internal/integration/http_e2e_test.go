package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dylan-caulfield/weather-webhook/internal/adapters/geocode"
	httpserver "github.com/dylan-caulfield/weather-webhook/internal/adapters/http_server"
	"github.com/dylan-caulfield/weather-webhook/internal/adapters/openweather"
	"github.com/dylan-caulfield/weather-webhook/internal/app"
)

// fakeProviders spins up geocoding and forecast servers that answer like the
// real ones for a July 2025 Austin stay.
func fakeProviders(t *testing.T, forecastStatus int) (geoURL, owmURL string) {
	t.Helper()

	geoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"OK","results":[{"geometry":{"location":{"lat":30.27,"lng":-97.74}}}]}`)
	}))
	t.Cleanup(geoSrv.Close)

	owmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if forecastStatus != http.StatusOK {
			w.WriteHeader(forecastStatus)
			return
		}
		var list []string
		for day := 1; day <= 3; day++ {
			for _, hour := range []string{"06", "12", "18"} {
				list = append(list, fmt.Sprintf(
					`{"dt_txt":"2025-07-0%d %s:00:00","main":{"temp":%d},"pop":0.1,"weather":[{"description":"clear sky","icon":"01d"}]}`,
					day, hour, 70+day))
			}
		}
		fmt.Fprintf(w, `{"list":[%s]}`, strings.Join(list, ","))
	}))
	t.Cleanup(owmSrv.Close)

	return geoSrv.URL, owmSrv.URL
}

func newTestServer(t *testing.T, geoURL, owmURL string) *httptest.Server {
	t.Helper()
	geo, err := geocode.New(geoURL, "test-key", 100)
	if err != nil {
		t.Fatalf("geocode client: %v", err)
	}
	src, err := openweather.New(owmURL, "test-key", 100)
	if err != nil {
		t.Fatalf("openweather client: %v", err)
	}
	fixed, _ := time.Parse("2006-01-02", "2025-06-25")
	p := app.NewPipeline(geo, src, app.Options{Now: func() time.Time { return fixed }})

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{P: p})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func postTrip(t *testing.T, ts *httptest.Server, body string) (int, app.Report) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/trip-weather", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var rep app.Report
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, rep
}

func TestE2E_FullForecastFlow(t *testing.T) {
	geoURL, owmURL := fakeProviders(t, http.StatusOK)
	ts := newTestServer(t, geoURL, owmURL)

	status, rep := postTrip(t, ts, `{
		"checkin_date":"2025-07-01","checkout_date":"2025-07-04",
		"city":"Austin","state":"TX","property_name":"Lakeview Bungalow"
	}`)
	if status != http.StatusOK {
		t.Fatalf("status: %d", status)
	}
	if !rep.Success || !rep.ShowWeather || rep.Fallback {
		t.Fatalf("expected real forecast, got %+v", rep)
	}
	if rep.Nights != 3 || len(rep.DailyForecasts) != 3 {
		t.Fatalf("nights=%d days=%d", rep.Nights, len(rep.DailyForecasts))
	}
	if rep.DaysUntilCheckin != 6 {
		t.Fatalf("days until checkin: %d", rep.DaysUntilCheckin)
	}
	for _, d := range rep.DailyForecasts {
		if d.TempLow > d.TempHigh {
			t.Fatalf("temp_low > temp_high: %+v", d)
		}
		if d.Category == "" || d.Date == "" {
			t.Fatalf("incomplete day: %+v", d)
		}
	}
	if rep.Summary == nil || rep.Summary.Narrative == "" {
		t.Fatalf("missing summary")
	}
	if n := len(rep.Summary.PackingList); n == 0 || n > 5 {
		t.Fatalf("packing list size: %d", n)
	}
}

func TestE2E_ForecastProviderDown(t *testing.T) {
	geoURL, owmURL := fakeProviders(t, http.StatusInternalServerError)
	ts := newTestServer(t, geoURL, owmURL)

	status, rep := postTrip(t, ts, `{"checkin_date":"2025-07-01","checkout_date":"2025-07-04","city":"Austin","state":"TX"}`)
	if status != http.StatusOK {
		t.Fatalf("provider failures must stay transport-level success, got %d", status)
	}
	if rep.Success || !rep.Fallback {
		t.Fatalf("expected fallback, got %+v", rep)
	}
	if rep.DailyForecasts != nil {
		t.Fatalf("fallback must omit daily forecasts")
	}
}

func TestE2E_MissingCheckin(t *testing.T) {
	geoURL, owmURL := fakeProviders(t, http.StatusOK)
	ts := newTestServer(t, geoURL, owmURL)

	status, rep := postTrip(t, ts, `{"city":"Austin"}`)
	if status != http.StatusOK {
		t.Fatalf("status: %d", status)
	}
	if rep.Success || rep.ShowWeather || !rep.Fallback {
		t.Fatalf("expected fallback, got %+v", rep)
	}
}

func TestE2E_MalformedBody(t *testing.T) {
	geoURL, owmURL := fakeProviders(t, http.StatusOK)
	ts := newTestServer(t, geoURL, owmURL)

	status, rep := postTrip(t, ts, `{"checkin_date": not-json`)
	if status != http.StatusOK {
		t.Fatalf("status: %d", status)
	}
	if !rep.Fallback {
		t.Fatalf("expected fallback for malformed body, got %+v", rep)
	}
}

func TestE2E_MethodNotAllowed(t *testing.T) {
	geoURL, owmURL := fakeProviders(t, http.StatusOK)
	ts := newTestServer(t, geoURL, owmURL)

	resp, err := http.Get(ts.URL + "/v1/trip-weather")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET, got %d", resp.StatusCode)
	}
}

func TestE2E_Healthz(t *testing.T) {
	geoURL, owmURL := fakeProviders(t, http.StatusOK)
	ts := newTestServer(t, geoURL, owmURL)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz: %d", resp.StatusCode)
	}
}
