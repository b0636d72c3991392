package services

import (
	"context"
	"errors"
	"solar-strategy-service/internal/domain"
	"testing"
)

type collectWriter struct {
	rows   []domain.Sample
	closed bool
}

func (w *collectWriter) WriteSample(_ context.Context, s domain.Sample) error {
	w.rows = append(w.rows, s)
	return nil
}

func (w *collectWriter) Close() error {
	w.closed = true
	return nil
}

var errWriterBroken = errors.New("writer broken")

type failWriter struct{}

func (failWriter) WriteSample(context.Context, domain.Sample) error { return errWriterBroken }
func (failWriter) Close() error                                     { return nil }

func testDatasetRequest(samples, workers int) DatasetRequest {
	return DatasetRequest{
		Vehicle:           domain.PassengerSolarEV(),
		DistanceM:         20000,
		BatteryCapacityWh: 15000,
		Bounds:            domain.SpeedBounds{MinMps: 5, MaxMps: 35},
		Samples:           samples,
		Seed:              7,
		Workers:           workers,
		RunID:             "test-run",
	}
}

func TestGenerateDatasetWorkerCountInvariant(t *testing.T) {
	var serial, parallel collectWriter

	if _, err := GenerateDataset(context.Background(), testDatasetRequest(24, 1), &serial); err != nil {
		t.Fatalf("GenerateDataset workers=1: %v", err)
	}
	if _, err := GenerateDataset(context.Background(), testDatasetRequest(24, 3), &parallel); err != nil {
		t.Fatalf("GenerateDataset workers=3: %v", err)
	}

	if len(serial.rows) != 24 || len(parallel.rows) != 24 {
		t.Fatalf("row counts = %d and %d, want 24", len(serial.rows), len(parallel.rows))
	}
	for i := range serial.rows {
		if serial.rows[i] != parallel.rows[i] {
			t.Fatalf("row %d differs between worker counts:\n%+v\n%+v", i, serial.rows[i], parallel.rows[i])
		}
	}
}

func TestGenerateDatasetRowsInIndexOrder(t *testing.T) {
	var w collectWriter
	if _, err := GenerateDataset(context.Background(), testDatasetRequest(16, 4), &w); err != nil {
		t.Fatalf("GenerateDataset: %v", err)
	}
	for i, row := range w.rows {
		if row.Index != i {
			t.Fatalf("row %d carries index %d, want index order", i, row.Index)
		}
	}
}

func TestGenerateDatasetRowContents(t *testing.T) {
	var w collectWriter
	stats, err := GenerateDataset(context.Background(), testDatasetRequest(16, 2), &w)
	if err != nil {
		t.Fatalf("GenerateDataset: %v", err)
	}

	for i, row := range w.rows {
		// The driver can never beat the optimizer by more than tolerance
		// noise, so the label stays essentially non-negative.
		if row.SOCLoss < -1e-4 {
			t.Errorf("row %d: SOCLoss = %g, want >= 0 up to solver tolerance", i, row.SOCLoss)
		}
		if row.SpeedDiffMps < 0 {
			t.Errorf("row %d: SpeedDiffMps = %g, want non-negative", i, row.SpeedDiffMps)
		}
		if row.OptimalSpeedMps < 5 || row.OptimalSpeedMps > 35 {
			t.Errorf("row %d: OptimalSpeedMps = %g outside bounds", i, row.OptimalSpeedMps)
		}
		if row.OptimalFinalSOC < 0 || row.OptimalFinalSOC > 1 {
			t.Errorf("row %d: OptimalFinalSOC = %g outside [0, 1]", i, row.OptimalFinalSOC)
		}
		if row.ActualFinalSOC < 0 || row.ActualFinalSOC > 1 {
			t.Errorf("row %d: ActualFinalSOC = %g outside [0, 1]", i, row.ActualFinalSOC)
		}
	}

	if stats.RunID != "test-run" {
		t.Errorf("RunID = %q, want the requested run id", stats.RunID)
	}
	if stats.Samples != 16 {
		t.Errorf("Samples = %d, want 16", stats.Samples)
	}
	if stats.OptimalSpeedKph.Count != 16 || stats.OptimalFinalSOC.Count != 16 ||
		stats.ActualSpeedKph.Count != 16 || stats.SOCLoss.Count != 16 {
		t.Errorf("summary counts = %d/%d/%d/%d, want 16 each",
			stats.OptimalSpeedKph.Count, stats.OptimalFinalSOC.Count,
			stats.ActualSpeedKph.Count, stats.SOCLoss.Count)
	}
	if stats.OptimalFinalSOC.Min < 0 || stats.OptimalFinalSOC.Max > 1 {
		t.Errorf("optimal final SOC summary spans [%g, %g], want within [0, 1]",
			stats.OptimalFinalSOC.Min, stats.OptimalFinalSOC.Max)
	}
	if stats.Elapsed <= 0 {
		t.Errorf("Elapsed = %v, want positive", stats.Elapsed)
	}
}

func TestGenerateDatasetAssignsRunID(t *testing.T) {
	req := testDatasetRequest(2, 1)
	req.RunID = ""
	stats, err := GenerateDataset(context.Background(), req, &collectWriter{})
	if err != nil {
		t.Fatalf("GenerateDataset: %v", err)
	}
	if stats.RunID == "" {
		t.Error("RunID empty, want a generated id")
	}
}

func TestGenerateDatasetFanOut(t *testing.T) {
	var a, b collectWriter
	if _, err := GenerateDataset(context.Background(), testDatasetRequest(6, 2), &a, &b); err != nil {
		t.Fatalf("GenerateDataset: %v", err)
	}
	if len(a.rows) != 6 || len(b.rows) != 6 {
		t.Fatalf("row counts = %d and %d, want 6 in every writer", len(a.rows), len(b.rows))
	}
	for i := range a.rows {
		if a.rows[i] != b.rows[i] {
			t.Fatalf("row %d differs between writers", i)
		}
	}
}

func TestGenerateDatasetWriterError(t *testing.T) {
	_, err := GenerateDataset(context.Background(), testDatasetRequest(4, 2), failWriter{})
	if !errors.Is(err, errWriterBroken) {
		t.Errorf("error = %v, want the writer failure", err)
	}
}

func TestGenerateDatasetContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GenerateDataset(ctx, testDatasetRequest(64, 4), &collectWriter{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestGenerateDatasetValidation(t *testing.T) {
	t.Run("no samples", func(t *testing.T) {
		req := testDatasetRequest(0, 1)
		_, err := GenerateDataset(context.Background(), req, &collectWriter{})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("bad bounds", func(t *testing.T) {
		req := testDatasetRequest(4, 1)
		req.Bounds.MinMps = 0
		_, err := GenerateDataset(context.Background(), req, &collectWriter{})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("bad vehicle", func(t *testing.T) {
		req := testDatasetRequest(4, 1)
		req.Vehicle.DrivetrainEff = 2
		_, err := GenerateDataset(context.Background(), req, &collectWriter{})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})
}
