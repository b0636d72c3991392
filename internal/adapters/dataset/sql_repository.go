package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"solar-strategy-service/internal/domain"
	"solar-strategy-service/internal/platform/obs"
	"strconv"
	"time"
)

// SQLDatasetRepository is the PostgreSQL variant of the dataset sink, for
// runs whose output feeds shared training infrastructure rather than a
// local file. Reusing a run id restarts that run and replaces its rows
// instead of failing.
type SQLDatasetRepository struct {
	db   *sql.DB
	tx   *sql.Tx
	stmt *sql.Stmt
	run  RunInfo
}

func NewSQLDatasetRepository(ctx context.Context, db *sql.DB, run RunInfo) (_ *SQLDatasetRepository, err error) {
	defer obs.Time(ctx, "dataset.repository.New")(&err)

	if db == nil {
		return nil, errors.New("dataset repository: db is nil")
	}

	if run.RunID == "" {
		return nil, errors.New("dataset repository: run id must not be empty")
	}

	insertRun := `
	INSERT INTO dataset_runs (run_id, seed, profile, samples, started_at)
    VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (run_id) DO UPDATE
	SET seed = EXCLUDED.seed,
		profile = EXCLUDED.profile,
		samples = EXCLUDED.samples,
		started_at = EXCLUDED.started_at,
		finished_at = NULL;
	`
	_, err = db.ExecContext(ctx, insertRun,
		run.RunID,
		strconv.FormatUint(run.Seed, 10),
		run.Profile,
		run.Samples,
		run.StartedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert dataset run %q: %w", run.RunID, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("dataset repository: begin tx: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO dataset_samples (
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
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
            $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	ON CONFLICT (run_id, sample_index) DO UPDATE
	SET time_of_day = EXCLUDED.time_of_day,
		ghi10_wm2 = EXCLUDED.ghi10_wm2,
		ghi90_wm2 = EXCLUDED.ghi90_wm2,
		temperature_c = EXCLUDED.temperature_c,
		wind_mps = EXCLUDED.wind_mps,
		gradient_deg = EXCLUDED.gradient_deg,
		battery_efficiency = EXCLUDED.battery_efficiency,
		initial_soc = EXCLUDED.initial_soc,
		optimal_speed_mps = EXCLUDED.optimal_speed_mps,
		optimal_final_soc = EXCLUDED.optimal_final_soc,
		optimal_energy_wh = EXCLUDED.optimal_energy_wh,
		optimal_solar_wh = EXCLUDED.optimal_solar_wh,
		actual_speed_mps = EXCLUDED.actual_speed_mps,
		actual_final_soc = EXCLUDED.actual_final_soc,
		soc_loss = EXCLUDED.soc_loss,
		speed_diff_mps = EXCLUDED.speed_diff_mps,
		irradiance_uncertainty = EXCLUDED.irradiance_uncertainty,
		temperature_uncertainty = EXCLUDED.temperature_uncertainty,
		soc_uncertainty = EXCLUDED.soc_uncertainty,
		converged = EXCLUDED.converged,
		depleted = EXCLUDED.depleted;
	`)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("dataset repository: prepare insert: %w", err)
	}

	return &SQLDatasetRepository{db: db, tx: tx, stmt: stmt, run: run}, nil
}

func (r *SQLDatasetRepository) WriteSample(ctx context.Context, s domain.Sample) error {
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
		s.Converged,
		s.Depleted,
	)
	if err != nil {
		return fmt.Errorf("insert dataset sample %d: %w", s.Index, err)
	}

	return nil
}

// Close commits the sample transaction and stamps the run finished.
func (r *SQLDatasetRepository) Close() error {
	if err := r.stmt.Close(); err != nil {
		return fmt.Errorf("dataset repository: close statement: %w", err)
	}
	if err := r.tx.Commit(); err != nil {
		return fmt.Errorf("dataset repository: commit: %w", err)
	}

	finish := `UPDATE dataset_runs SET finished_at = $1 WHERE run_id = $2;`
	if _, err := r.db.Exec(finish, time.Now().UTC(), r.run.RunID); err != nil {
		return fmt.Errorf("finish dataset run %q: %w", r.run.RunID, err)
	}

	return nil
}
