package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite database schema: dataset run provenance, generated
// sample rows and the hourly forecast cache.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS dataset_runs (
		run_id TEXT PRIMARY KEY,
		seed TEXT NOT NULL,
		profile TEXT NOT NULL,
		samples INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT
	);
	`

	createSamplesQuery := `
	CREATE TABLE IF NOT EXISTS dataset_samples (
        run_id TEXT NOT NULL,
        sample_index INTEGER NOT NULL,
        time_of_day REAL NOT NULL,
        ghi10_wm2 REAL NOT NULL,
        ghi90_wm2 REAL NOT NULL,
        temperature_c REAL NOT NULL,
        wind_mps REAL NOT NULL,
        gradient_deg REAL NOT NULL,
        battery_efficiency REAL NOT NULL,
        initial_soc REAL NOT NULL,
        optimal_speed_mps REAL NOT NULL,
        optimal_final_soc REAL NOT NULL,
        optimal_energy_wh REAL NOT NULL,
        optimal_solar_wh REAL NOT NULL,
        actual_speed_mps REAL NOT NULL,
        actual_final_soc REAL NOT NULL,
        soc_loss REAL NOT NULL,
        speed_diff_mps REAL NOT NULL,
        irradiance_uncertainty REAL NOT NULL,
        temperature_uncertainty REAL NOT NULL,
        soc_uncertainty REAL NOT NULL,
        converged INTEGER NOT NULL,
        depleted INTEGER NOT NULL,
        PRIMARY KEY (run_id, sample_index)
    );
	`

	createForecastCacheQuery := `
	CREATE TABLE IF NOT EXISTS forecast_cache (
        lat_e3 INTEGER NOT NULL,
        lon_e3 INTEGER NOT NULL,
        hour TEXT NOT NULL,
        ghi_wm2 REAL NOT NULL,
        temperature_c REAL NOT NULL,
        wind_mps REAL NOT NULL,
        fetched_at TEXT NOT NULL,
        PRIMARY KEY (lat_e3, lon_e3, hour)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_forecast_cache_hour
    ON forecast_cache(hour);
	`

	statements := []string{
		createRunsQuery,
		createSamplesQuery,
		createForecastCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Initialize the same schema on PostgreSQL.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS dataset_runs (
		run_id TEXT PRIMARY KEY,
		seed TEXT NOT NULL,
		profile TEXT NOT NULL,
		samples INTEGER NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ
	);
	`

	createSamplesQuery := `
	CREATE TABLE IF NOT EXISTS dataset_samples (
        run_id TEXT NOT NULL,
        sample_index INTEGER NOT NULL,
        time_of_day DOUBLE PRECISION NOT NULL,
        ghi10_wm2 DOUBLE PRECISION NOT NULL,
        ghi90_wm2 DOUBLE PRECISION NOT NULL,
        temperature_c DOUBLE PRECISION NOT NULL,
        wind_mps DOUBLE PRECISION NOT NULL,
        gradient_deg DOUBLE PRECISION NOT NULL,
        battery_efficiency DOUBLE PRECISION NOT NULL,
        initial_soc DOUBLE PRECISION NOT NULL,
        optimal_speed_mps DOUBLE PRECISION NOT NULL,
        optimal_final_soc DOUBLE PRECISION NOT NULL,
        optimal_energy_wh DOUBLE PRECISION NOT NULL,
        optimal_solar_wh DOUBLE PRECISION NOT NULL,
        actual_speed_mps DOUBLE PRECISION NOT NULL,
        actual_final_soc DOUBLE PRECISION NOT NULL,
        soc_loss DOUBLE PRECISION NOT NULL,
        speed_diff_mps DOUBLE PRECISION NOT NULL,
        irradiance_uncertainty DOUBLE PRECISION NOT NULL,
        temperature_uncertainty DOUBLE PRECISION NOT NULL,
        soc_uncertainty DOUBLE PRECISION NOT NULL,
        converged BOOLEAN NOT NULL,
        depleted BOOLEAN NOT NULL,
        PRIMARY KEY (run_id, sample_index)
    );
	`

	createForecastCacheQuery := `
	CREATE TABLE IF NOT EXISTS forecast_cache (
        lat_e3 BIGINT NOT NULL,
        lon_e3 BIGINT NOT NULL,
        hour TEXT NOT NULL,
        ghi_wm2 DOUBLE PRECISION NOT NULL,
        temperature_c DOUBLE PRECISION NOT NULL,
        wind_mps DOUBLE PRECISION NOT NULL,
        fetched_at TIMESTAMPTZ NOT NULL,
        PRIMARY KEY (lat_e3, lon_e3, hour)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_forecast_cache_hour
    ON forecast_cache(hour);
	`

	statements := []string{
		createRunsQuery,
		createSamplesQuery,
		createForecastCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}

	return nil
}
