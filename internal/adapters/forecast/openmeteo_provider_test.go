package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"solar-strategy-service/internal/domain"
	"solar-strategy-service/internal/ports"
	"testing"
	"time"
)

type fakeConditionsCache struct {
	entries map[string]ports.Forecast
	puts    int
}

func newFakeConditionsCache() *fakeConditionsCache {
	return &fakeConditionsCache{entries: map[string]ports.Forecast{}}
}

func (c *fakeConditionsCache) cacheKey(lat, lon float64, hour string) string {
	return fmt.Sprintf("%.3f|%.3f|%s", lat, lon, hour)
}

func (c *fakeConditionsCache) Get(_ context.Context, lat, lon float64, hour string) (ports.Forecast, bool, error) {
	f, ok := c.entries[c.cacheKey(lat, lon, hour)]
	return f, ok, nil
}

func (c *fakeConditionsCache) Put(_ context.Context, lat, lon float64, hour string, f ports.Forecast) error {
	c.puts++
	c.entries[c.cacheKey(lat, lon, hour)] = f
	return nil
}

func hourlyPayload(hours []time.Time, ghi, temp, wind []float64) forecastResponse {
	var payload forecastResponse
	for _, h := range hours {
		payload.Hourly.Time = append(payload.Hourly.Time, h.Unix())
	}
	payload.Hourly.ShortwaveRadiation = ghi
	payload.Hourly.Temperature2m = temp
	payload.Hourly.WindSpeed10m = wind
	return payload
}

func TestOpenMeteoProviderPicksRequestedHour(t *testing.T) {
	at := time.Date(2025, 7, 3, 11, 42, 0, 0, time.UTC)
	bucket := at.Truncate(time.Hour)

	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"latitude":       r.URL.Query().Get("latitude"),
			"longitude":      r.URL.Query().Get("longitude"),
			"hourly":         r.URL.Query().Get("hourly"),
			"windspeed_unit": r.URL.Query().Get("windspeed_unit"),
		}
		payload := hourlyPayload(
			[]time.Time{bucket.Add(-time.Hour), bucket, bucket.Add(time.Hour)},
			[]float64{500, 640, 700},
			[]float64{21, 22, 23},
			[]float64{2, 3, 4},
		)
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	p := &OpenMeteoProvider{session: srv.Client(), baseURL: srv.URL}

	got, err := p.Current(context.Background(), domain.Coordinates{Lat: 52.3779, Lon: 9.728}, at)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}

	want := ports.Forecast{GHIWm2: 640, TemperatureC: 22, WindMps: 3}
	if got != want {
		t.Errorf("forecast = %+v, want the middle hour bucket %+v", got, want)
	}

	if gotQuery["latitude"] != "52.3779" || gotQuery["longitude"] != "9.7280" {
		t.Errorf("coordinates sent as %q, %q", gotQuery["latitude"], gotQuery["longitude"])
	}
	if gotQuery["hourly"] != "shortwave_radiation,temperature_2m,wind_speed_10m" {
		t.Errorf("hourly fields = %q", gotQuery["hourly"])
	}
	if gotQuery["windspeed_unit"] != "ms" {
		t.Errorf("windspeed_unit = %q, want ms", gotQuery["windspeed_unit"])
	}
}

func TestOpenMeteoProviderUsesCache(t *testing.T) {
	at := time.Date(2025, 7, 3, 9, 10, 0, 0, time.UTC)
	bucket := at.Truncate(time.Hour)

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		payload := hourlyPayload([]time.Time{bucket}, []float64{420}, []float64{19}, []float64{5})
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	cache := newFakeConditionsCache()
	p := &OpenMeteoProvider{session: srv.Client(), baseURL: srv.URL, cache: cache}
	coords := domain.Coordinates{Lat: 48.1, Lon: 11.6}

	first, err := p.Current(context.Background(), coords, at)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if requests != 1 || cache.puts != 1 {
		t.Fatalf("requests = %d, cache writes = %d after a miss, want 1 and 1", requests, cache.puts)
	}

	second, err := p.Current(context.Background(), coords, at.Add(20*time.Minute))
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if requests != 1 {
		t.Errorf("requests = %d after a same-hour repeat, want the cache to answer", requests)
	}
	if first != second {
		t.Errorf("cached forecast %+v differs from fetched %+v", second, first)
	}
}

func TestOpenMeteoProviderRetriesServerErrors(t *testing.T) {
	at := time.Date(2025, 7, 3, 14, 0, 0, 0, time.UTC)
	bucket := at.Truncate(time.Hour)

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			http.Error(w, "upstream hiccup", http.StatusInternalServerError)
			return
		}
		payload := hourlyPayload([]time.Time{bucket}, []float64{510}, []float64{24}, []float64{1})
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	p := &OpenMeteoProvider{session: srv.Client(), baseURL: srv.URL}

	got, err := p.Current(context.Background(), domain.Coordinates{Lat: 40, Lon: -3}, at)
	if err != nil {
		t.Fatalf("Current after retry: %v", err)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want a single retry", requests)
	}
	if got.GHIWm2 != 510 {
		t.Errorf("GHIWm2 = %g, want 510", got.GHIWm2)
	}
}

func TestOpenMeteoProviderMissingHour(t *testing.T) {
	at := time.Date(2025, 7, 3, 16, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := hourlyPayload([]time.Time{at.Add(-48 * time.Hour)}, []float64{100}, []float64{15}, []float64{2})
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	p := &OpenMeteoProvider{session: srv.Client(), baseURL: srv.URL}

	if _, err := p.Current(context.Background(), domain.Coordinates{}, at); err == nil {
		t.Error("Current succeeded, want an error when the hour is absent from the series")
	}
}

func TestMockForecastProvider(t *testing.T) {
	p := NewMockForecastProvider([]MockEntry{
		{Lat: 52.4, Lon: 9.7, Forecast: ports.Forecast{GHIWm2: 600, TemperatureC: 23, WindMps: 2}},
	})

	got, err := p.Current(context.Background(), domain.Coordinates{Lat: 52.4, Lon: 9.7}, time.Now())
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if got.GHIWm2 != 600 {
		t.Errorf("GHIWm2 = %g, want 600", got.GHIWm2)
	}

	if _, err := p.Current(context.Background(), domain.Coordinates{Lat: 1, Lon: 1}, time.Now()); err == nil {
		t.Error("Current for an unknown location succeeded, want error")
	}
}
