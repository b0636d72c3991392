package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"runtime"
	"solar-strategy-service/internal/domain"
	"solar-strategy-service/internal/ports"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DatasetRequest configures one dataset generation run.
type DatasetRequest struct {
	Vehicle           domain.VehicleParameters
	DistanceM         float64
	BatteryCapacityWh float64
	Bounds            domain.SpeedBounds
	Samples           int
	Seed              uint64
	Workers           int
	ProgressEvery     int
	Optimize          OptimizeOptions
	RunID             string
}

// DatasetStats summarizes a finished run.
type DatasetStats struct {
	RunID        string
	Samples      int
	Depleted     int
	NonConverged int
	Elapsed      time.Duration

	OptimalSpeedKph SummaryStats
	OptimalFinalSOC SummaryStats
	ActualSpeedKph  SummaryStats
	SOCLoss         SummaryStats
}

// GenerateDataset draws req.Samples scenarios, solves each one for the
// optimal speed, simulates the sampled actual speed for comparison, and
// streams the finished rows to every writer.
//
// Scenarios are solved by a worker pool but each sample is seeded by its
// index alone, so output is identical for any worker count. Rows reach the
// writers in index order after all workers finish. The first worker error
// cancels the run.
func GenerateDataset(ctx context.Context, req DatasetRequest, writers ...ports.DatasetWriter) (DatasetStats, error) {
	sampler := ScenarioSampler{
		Vehicle:           req.Vehicle,
		DistanceM:         req.DistanceM,
		BatteryCapacityWh: req.BatteryCapacityWh,
		Bounds:            req.Bounds,
		Seed:              req.Seed,
	}
	if err := sampler.Validate(); err != nil {
		return DatasetStats{}, fmt.Errorf("generate dataset: %w", err)
	}
	if req.Samples <= 0 {
		return DatasetStats{}, fmt.Errorf("generate dataset: samples %d: %w", req.Samples, domain.ErrInvalidInput)
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	workers := req.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > req.Samples {
		workers = req.Samples
	}

	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]domain.Sample, req.Samples)
	indexes := make(chan int)

	var (
		firstErr error
		errOnce  sync.Once
		done     atomic.Int64
		wg       sync.WaitGroup
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	go func() {
		defer close(indexes)
		for i := 0; i < req.Samples; i++ {
			select {
			case indexes <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				sample, err := generateSample(sampler, req.Optimize, i)
				if err != nil {
					fail(err)
					return
				}
				results[i] = sample
				n := done.Add(1)
				if req.ProgressEvery > 0 && n%int64(req.ProgressEvery) == 0 {
					log.Printf("event=dataset_progress run_id=%s done=%d total=%d", runID, n, req.Samples)
				}
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return DatasetStats{}, fmt.Errorf("generate dataset: %w", firstErr)
	}
	if err := ctx.Err(); err != nil {
		return DatasetStats{}, fmt.Errorf("generate dataset: %w", err)
	}

	for i := range results {
		for _, w := range writers {
			if err := w.WriteSample(ctx, results[i]); err != nil {
				return DatasetStats{}, fmt.Errorf("generate dataset: write sample %d: %w", i, err)
			}
		}
	}

	stats := DatasetStats{
		RunID:   runID,
		Samples: req.Samples,
		Elapsed: time.Since(start),
	}
	optKph := make([]float64, 0, req.Samples)
	optSOC := make([]float64, 0, req.Samples)
	actKph := make([]float64, 0, req.Samples)
	socLoss := make([]float64, 0, req.Samples)
	for i := range results {
		s := &results[i]
		if s.Depleted {
			stats.Depleted++
		}
		if !s.Converged {
			stats.NonConverged++
		}
		optKph = append(optKph, domain.MpsToKph(s.OptimalSpeedMps))
		optSOC = append(optSOC, s.OptimalFinalSOC)
		actKph = append(actKph, domain.MpsToKph(s.ActualSpeedMps))
		socLoss = append(socLoss, s.SOCLoss)
	}
	stats.OptimalSpeedKph = Describe(optKph)
	stats.OptimalFinalSOC = Describe(optSOC)
	stats.ActualSpeedKph = Describe(actKph)
	stats.SOCLoss = Describe(socLoss)

	return stats, nil
}

func generateSample(sampler ScenarioSampler, opts OptimizeOptions, i int) (domain.Sample, error) {
	sc := sampler.Draw(i)

	opt, err := OptimizeSpeed(sampler.Vehicle, sc.Env, sc.Trip, sampler.Bounds, opts)
	if err != nil {
		return domain.Sample{}, fmt.Errorf("sample %d: %w", i, err)
	}
	actual, err := Simulate(sc.ActualSpeedMps, sampler.Vehicle, sc.Env, sc.Trip)
	if err != nil {
		return domain.Sample{}, fmt.Errorf("sample %d: %w", i, err)
	}

	return domain.Sample{
		Index:             i,
		TimeOfDayH:        sc.TimeOfDayH,
		GHI10Wm2:          sc.GHI10Wm2,
		GHI90Wm2:          sc.GHI90Wm2,
		TemperatureC:      sc.Env.TemperatureC,
		WindMps:           sc.Env.HeadwindMps,
		GradientDeg:       domain.Degrees(sc.Env.GradeAngleRad),
		BatteryEfficiency: sc.Trip.BatteryEfficiency,
		InitialSOC:        sc.Trip.InitialSOC,

		OptimalSpeedMps: opt.OptimalSpeedMps,
		OptimalFinalSOC: opt.Result.FinalSOC,
		OptimalEnergyWh: opt.Result.EnergyUsedWh,
		OptimalSolarWh:  opt.Result.SolarGainWh,
		Converged:       opt.Converged,
		Depleted:        opt.Result.Depleted,

		ActualSpeedMps: sc.ActualSpeedMps,
		ActualFinalSOC: actual.FinalSOC,
		SOCLoss:        opt.Result.FinalSOC - actual.FinalSOC,
		SpeedDiffMps:   math.Abs(opt.OptimalSpeedMps - sc.ActualSpeedMps),

		IrradianceUncertainty:  sc.IrradianceUncertainty,
		TemperatureUncertainty: sc.TemperatureUncertainty,
		SOCUncertainty:         sc.SOCNoise * 0.05 * actual.FinalSOC,
	}, nil
}
