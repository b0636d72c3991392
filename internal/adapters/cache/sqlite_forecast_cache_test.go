package cache

import (
	"context"
	"database/sql"
	"solar-strategy-service/internal/adapters/dataset"
	"solar-strategy-service/internal/ports"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := dataset.InitSchema(db); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	return db
}

func TestSqliteForecastCacheRoundTrip(t *testing.T) {
	c := NewSqliteForecastCache(openTestDB(t))
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, 52.377, 9.728, "2025-07-03T11:00:00Z"); err != nil || ok {
		t.Fatalf("Get on empty cache = ok=%v err=%v, want a clean miss", ok, err)
	}

	want := ports.Forecast{GHIWm2: 640, TemperatureC: 22.5, WindMps: 3.1}
	if err := c.Put(ctx, 52.377, 9.728, "2025-07-03T11:00:00Z", want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := c.Get(ctx, 52.377, 9.728, "2025-07-03T11:00:00Z")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get missed after Put")
	}
	if got != want {
		t.Errorf("forecast = %+v, want %+v", got, want)
	}

	// Same place within coordinate quantization, different float noise.
	got, ok, err = c.Get(ctx, 52.3771, 9.7279, "2025-07-03T11:00:00Z")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || got != want {
		t.Errorf("quantized lookup = ok=%v %+v, want a hit with %+v", ok, got, want)
	}

	// Different hour misses.
	if _, ok, err := c.Get(ctx, 52.377, 9.728, "2025-07-03T12:00:00Z"); err != nil || ok {
		t.Errorf("Get for another hour = ok=%v err=%v, want a miss", ok, err)
	}
}

func TestSqliteForecastCacheReplacesEntry(t *testing.T) {
	c := NewSqliteForecastCache(openTestDB(t))
	ctx := context.Background()

	if err := c.Put(ctx, 48.1, 11.6, "2025-07-03T09:00:00Z", ports.Forecast{GHIWm2: 400, TemperatureC: 18, WindMps: 2}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	refreshed := ports.Forecast{GHIWm2: 430, TemperatureC: 19, WindMps: 2.4}
	if err := c.Put(ctx, 48.1, 11.6, "2025-07-03T09:00:00Z", refreshed); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	got, ok, err := c.Get(ctx, 48.1, 11.6, "2025-07-03T09:00:00Z")
	if err != nil || !ok {
		t.Fatalf("Get = ok=%v err=%v", ok, err)
	}
	if got != refreshed {
		t.Errorf("forecast = %+v, want the refreshed entry %+v", got, refreshed)
	}
}

func TestSqliteForecastCacheValidation(t *testing.T) {
	c := NewSqliteForecastCache(openTestDB(t))

	if _, _, err := c.Get(context.Background(), 0, 0, ""); err == nil {
		t.Error("Get with empty hour succeeded, want error")
	}
	if err := c.Put(context.Background(), 0, 0, "", ports.Forecast{}); err == nil {
		t.Error("Put with empty hour succeeded, want error")
	}

	var nilCache SqliteForecastCache
	if _, _, err := nilCache.Get(context.Background(), 0, 0, "2025-07-03T09:00:00Z"); err == nil {
		t.Error("Get on nil DB succeeded, want error")
	}
}
