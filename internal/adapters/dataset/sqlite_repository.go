package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"solar-strategy-service/internal/domain"
	"strconv"
	"time"
)

// RunInfo is the provenance row written once per generation run.
type RunInfo struct {
	RunID     string
	Seed      uint64
	Profile   string
	Samples   int
	StartedAt time.Time
}

// SqliteDatasetRepository streams generated samples into SQLite. All rows
// of a run go through one transaction; Close commits it and stamps the run
// finished, so an aborted run leaves no partial rows behind. Reusing a run
// id restarts that run and replaces its rows instead of failing.
type SqliteDatasetRepository struct {
	db   *sql.DB
	tx   *sql.Tx
	stmt *sql.Stmt
	run  RunInfo
}

func NewSqliteDatasetRepository(ctx context.Context, db *sql.DB, run RunInfo) (*SqliteDatasetRepository, error) {
	if db == nil {
		return nil, errors.New("dataset repository: db is nil")
	}

	if run.RunID == "" {
		return nil, errors.New("dataset repository: run id must not be empty")
	}

	// OR REPLACE drops the whole old row, so a restarted run also loses
	// its stale finished_at stamp.
	insertRun := `
	INSERT OR REPLACE INTO dataset_runs (run_id, seed, profile, samples, started_at)
    VALUES (?, ?, ?, ?, ?);
	`
	_, err := db.ExecContext(ctx, insertRun,
		run.RunID,
		strconv.FormatUint(run.Seed, 10),
		run.Profile,
		run.Samples,
		run.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("insert dataset run %q: %w", run.RunID, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("dataset repository: begin tx: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO dataset_samples (
        run_id,
        sample_index,
        time_of_day,
        ghi10_wm2,
        ghi90_wm2,
        temperature_c,
        wind_mps,
        gradient_deg,
        battery_efficiency,
        initial_soc,
        optimal_speed_mps,
        optimal_final_soc,
        optimal_energy_wh,
        optimal_solar_wh,
        actual_speed_mps,
        actual_final_soc,
        soc_loss,
        speed_diff_mps,
        irradiance_uncertainty,
        temperature_uncertainty,
        soc_uncertainty,
        converged,
        depleted
    )
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("dataset repository: prepare insert: %w", err)
	}

	return &SqliteDatasetRepository{db: db, tx: tx, stmt: stmt, run: run}, nil
}

func (r *SqliteDatasetRepository) WriteSample(ctx context.Context, s domain.Sample) error {
	_, err := r.stmt.ExecContext(ctx,
		r.run.RunID,
		s.Index,
		s.TimeOfDayH,
		s.GHI10Wm2,
		s.GHI90Wm2,
		s.TemperatureC,
		s.WindMps,
		s.GradientDeg,
		s.BatteryEfficiency,
		s.InitialSOC,
		s.OptimalSpeedMps,
		s.OptimalFinalSOC,
		s.OptimalEnergyWh,
		s.OptimalSolarWh,
		s.ActualSpeedMps,
		s.ActualFinalSOC,
		s.SOCLoss,
		s.SpeedDiffMps,
		s.IrradianceUncertainty,
		s.TemperatureUncertainty,
		s.SOCUncertainty,
		boolToInt(s.Converged),
		boolToInt(s.Depleted),
	)
	if err != nil {
		return fmt.Errorf("insert dataset sample %d: %w", s.Index, err)
	}

	return nil
}

// Close commits the sample transaction and stamps the run finished.
func (r *SqliteDatasetRepository) Close() error {
	if err := r.stmt.Close(); err != nil {
		return fmt.Errorf("dataset repository: close statement: %w", err)
	}
	if err := r.tx.Commit(); err != nil {
		return fmt.Errorf("dataset repository: commit: %w", err)
	}

	finish := `UPDATE dataset_runs SET finished_at = ? WHERE run_id = ?;`
	if _, err := r.db.Exec(finish, time.Now().UTC().Format(time.RFC3339), r.run.RunID); err != nil {
		return fmt.Errorf("finish dataset run %q: %w", r.run.RunID, err)
	}

	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
