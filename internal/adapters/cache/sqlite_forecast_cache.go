package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"solar-strategy-service/internal/ports"
	"time"
)

// SQLite backed cache for hourly forecast conditions. Coordinates are
// quantized to thousandths of a degree; the hour key is expected to be a
// normalized hour bucket (e.g. RFC 3339 of the truncated hour) produced by
// the caller.
type SqliteForecastCache struct {
	DB *sql.DB
}

func NewSqliteForecastCache(db *sql.DB) *SqliteForecastCache {
	return &SqliteForecastCache{DB: db}
}

// Fetch the cached conditions for one place and hour.
func (s *SqliteForecastCache) Get(
	ctx context.Context,
	lat, lon float64,
	hour string,
) (ports.Forecast, bool, error) {
	if s.DB == nil {
		return ports.Forecast{}, false, errors.New("forecast cache: db is nil")
	}

	if hour == "" {
		return ports.Forecast{}, false, errors.New("get forecast cache: hour must not be empty")
	}

	q := `
	SELECT ghi_wm2, temperature_c, wind_mps
    FROM forecast_cache
    WHERE lat_e3 = ?
        AND lon_e3 = ?
        AND hour = ?;
	`

	var f ports.Forecast
	err := s.DB.QueryRowContext(ctx, q, coordKey(lat), coordKey(lon), hour).
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
func (s *SqliteForecastCache) Put(
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
	INSERT OR REPLACE INTO forecast_cache (
        lat_e3,
        lon_e3,
        hour,
        ghi_wm2,
        temperature_c,
        wind_mps,
        fetched_at
    )
    VALUES (?, ?, ?, ?, ?, ?, ?);
	`

	fetchedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.DB.ExecContext(ctx, q, coordKey(lat), coordKey(lon), hour, f.GHIWm2, f.TemperatureC, f.WindMps, fetchedAt); err != nil {
		return fmt.Errorf("insert forecast cache hour=%q: %w", hour, err)
	}

	return nil
}
