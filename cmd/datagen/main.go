package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"solar-strategy-service/internal/adapters/dataset"
	"solar-strategy-service/internal/config"
	"solar-strategy-service/internal/domain"
	"solar-strategy-service/internal/platform/db"
	"solar-strategy-service/internal/ports"
	"solar-strategy-service/internal/services"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// main generates a labeled optimal-speed dataset: sampled scenarios, each
// solved for its optimal cruising speed and paired with a simulated
// suboptimal drive. Rows always go to CSV; SQLite and Postgres sinks are
// added when configured.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profileName := config.Get("VEHICLE_PROFILE", domain.ProfileSolarRacer)
	vehicle, ok := domain.ProfileByName(profileName)
	if !ok {
		log.Fatalf("unknown VEHICLE_PROFILE %q", profileName)
	}

	trip := domain.DefaultTrip(profileName)
	bounds := domain.DefaultBounds(profileName)

	req := services.DatasetRequest{
		Vehicle:           vehicle,
		DistanceM:         config.GetFloat("DISTANCE_M", trip.DistanceM),
		BatteryCapacityWh: config.GetFloat("BATTERY_WH", trip.BatteryCapacityWh),
		Bounds: domain.SpeedBounds{
			MinMps: config.GetFloat("MIN_SPEED_MPS", bounds.MinMps),
			MaxMps: config.GetFloat("MAX_SPEED_MPS", bounds.MaxMps),
		},
		Samples:       config.GetInt("SAMPLES", 50000),
		Seed:          config.GetUint64("SEED", 42),
		Workers:       config.GetInt("WORKERS", 0),
		ProgressEvery: config.GetInt("PROGRESS_EVERY", 5000),
		Optimize: services.OptimizeOptions{
			ToleranceMps:  config.GetFloat("TOLERANCE_MPS", 0),
			MaxIterations: config.GetInt("MAX_ITERATIONS", 0),
		},
		RunID: uuid.NewString(),
	}

	out := config.Get("OUT", "data/dataset.csv")
	csvW, err := dataset.NewCSVWriter(out)
	if err != nil {
		log.Fatal(err)
	}
	writers := []ports.DatasetWriter{csvW}

	run := dataset.RunInfo{
		RunID:     req.RunID,
		Seed:      req.Seed,
		Profile:   profileName,
		Samples:   req.Samples,
		StartedAt: time.Now().UTC(),
	}

	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		sq, err := sql.Open("sqlite", dbPath)
		if err != nil {
			log.Fatalf("open sqlite database %q: %v", dbPath, err)
		}
		defer sq.Close()

		if err := dataset.InitSchema(sq); err != nil {
			log.Fatal(err)
		}
		repo, err := dataset.NewSqliteDatasetRepository(ctx, sq, run)
		if err != nil {
			log.Fatal(err)
		}
		writers = append(writers, repo)
	}

	// Postgres schema comes from dbtool, not from here.
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()

		repo, err := dataset.NewSQLDatasetRepository(ctx, pg, run)
		if err != nil {
			log.Fatal(err)
		}
		writers = append(writers, repo)
	}

	log.Printf("event=dataset_start run_id=%s profile=%s samples=%d seed=%d out=%s",
		req.RunID, profileName, req.Samples, req.Seed, out)

	stats, err := services.GenerateDataset(ctx, req, writers...)
	if err != nil {
		log.Fatalf("dataset generation failed: %v", err)
	}

	// The CSV flush and the repository commits happen on Close, so a close
	// failure is a failed run.
	for _, w := range writers {
		if err := w.Close(); err != nil {
			log.Fatalf("close writer: %v", err)
		}
	}

	log.Printf("event=dataset_done run_id=%s samples=%d depleted=%d non_converged=%d elapsed=%s",
		stats.RunID, stats.Samples, stats.Depleted, stats.NonConverged, stats.Elapsed.Round(time.Millisecond))
	logSummary("optimal_speed_kph", stats.OptimalSpeedKph)
	logSummary("optimal_final_soc", stats.OptimalFinalSOC)
	logSummary("actual_speed_kph", stats.ActualSpeedKph)
	logSummary("soc_loss", stats.SOCLoss)
}

func logSummary(metric string, s services.SummaryStats) {
	log.Printf("event=dataset_summary metric=%s mean=%.3f std=%.3f min=%.3f p25=%.3f p50=%.3f p75=%.3f max=%.3f",
		metric, s.Mean, s.Std, s.Min, s.P25, s.Median, s.P75, s.Max)
}
