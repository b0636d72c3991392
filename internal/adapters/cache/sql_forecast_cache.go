package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"solar-strategy-service/internal/platform/obs"
	"solar-strategy-service/internal/ports"
	"time"
)

// SQLForecastCache is a SQL-backed cache for hourly forecast conditions,
// written for PostgreSQL placeholders and upsert syntax.
type SQLForecastCache struct {
	DB *sql.DB
}

func NewSQLForecastCache(db *sql.DB) *SQLForecastCache {
	return &SQLForecastCache{DB: db}
}

// Fetch the cached conditions for one place and hour.
func (s *SQLForecastCache) Get(
	ctx context.Context,
	lat, lon float64,
	hour string,
) (_ ports.Forecast, _ bool, err error) {
	defer obs.Time(ctx, "forecast.cache.Get")(&err)

	if s.DB == nil {
		return ports.Forecast{}, false, errors.New("forecast cache: db is nil")
	}

	if hour == "" {
		return ports.Forecast{}, false, errors.New("get forecast cache: hour must not be empty")
	}

	q := `
	SELECT ghi_wm2, temperature_c, wind_mps
    FROM forecast_cache
    WHERE lat_e3 = $1
        AND lon_e3 = $2
        AND hour = $3;
	`

	var f ports.Forecast
	err = s.DB.QueryRowContext(ctx, q, coordKey(lat), coordKey(lon), hour).
		Scan(&f.GHIWm2, &f.TemperatureC, &f.WindMps)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Forecast{}, false, nil
	}
	if err != nil {
		return ports.Forecast{}, false, fmt.Errorf("get forecast cache: scan row: %w", err)
	}

	return f, true, nil
}

// Store the conditions for one place and hour, replacing a stale entry.
func (s *SQLForecastCache) Put(
	ctx context.Context,
	lat, lon float64,
	hour string,
	f ports.Forecast,
) error {
	if s.DB == nil {
		return errors.New("forecast cache: db is nil")
	}

	if hour == "" {
		return errors.New("insert forecast cache: hour must not be empty")
	}

	q := `
	INSERT INTO forecast_cache (lat_e3, lon_e3, hour, ghi_wm2, temperature_c, wind_mps, fetched_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (lat_e3, lon_e3, hour) DO UPDATE
	SET ghi_wm2 = EXCLUDED.ghi_wm2,
		temperature_c = EXCLUDED.temperature_c,
		wind_mps = EXCLUDED.wind_mps,
		fetched_at = EXCLUDED.fetched_at;
	`

	if _, err := s.DB.ExecContext(ctx, q, coordKey(lat), coordKey(lon), hour, f.GHIWm2, f.TemperatureC, f.WindMps, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert forecast cache hour=%q: %w", hour, err)
	}

	return nil
}
