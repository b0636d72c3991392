package services

import (
	"errors"
	"math"
	"solar-strategy-service/internal/domain"
	"testing"
)

func TestOptimizeSpeedBalancesHotelLoadAgainstDrag(t *testing.T) {
	// With a flat 90% powertrain, 704 W of solar and a 1250 W hotel load,
	// the net draw per metre has a closed-form minimum at
	// cbrt(0.9 * 546 / 0.67375), about 9.0 m/s, well inside [5, 40].
	bounds := domain.SpeedBounds{MinMps: 5, MaxMps: 40}

	res, err := OptimizeSpeed(testVehicle(), testEnv(), testTrip(), bounds, OptimizeOptions{})
	if err != nil {
		t.Fatalf("OptimizeSpeed: %v", err)
	}

	if !res.Converged {
		t.Error("Converged = false, want true")
	}
	if res.OptimalSpeedMps <= bounds.MinMps+0.5 || res.OptimalSpeedMps >= bounds.MaxMps-0.5 {
		t.Errorf("OptimalSpeedMps = %g, want an interior optimum", res.OptimalSpeedMps)
	}
	if !near(res.OptimalSpeedMps, 9.0014, 0.1) {
		t.Errorf("OptimalSpeedMps = %g, want about 9.0", res.OptimalSpeedMps)
	}
	if !near(res.Result.FinalSOC, 0.746, 0.005) {
		t.Errorf("FinalSOC = %g, want about 0.746", res.Result.FinalSOC)
	}
	if res.Result.Depleted {
		t.Error("Depleted = true, want false")
	}
	if res.Iterations == 0 {
		t.Error("Iterations = 0, want at least one bracketing step")
	}
	if res.Evaluations < res.Iterations {
		t.Errorf("Evaluations = %d below Iterations = %d", res.Evaluations, res.Iterations)
	}
}

func TestOptimizeSpeedResultMatchesSimulate(t *testing.T) {
	bounds := domain.SpeedBounds{MinMps: 5, MaxMps: 40}

	res, err := OptimizeSpeed(testVehicle(), testEnv(), testTrip(), bounds, OptimizeOptions{})
	if err != nil {
		t.Fatalf("OptimizeSpeed: %v", err)
	}
	direct, err := Simulate(res.OptimalSpeedMps, testVehicle(), testEnv(), testTrip())
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if res.Result != direct {
		t.Errorf("returned result %+v does not match simulation at the returned speed %+v", res.Result, direct)
	}
}

func TestOptimizeSpeedInvalidBounds(t *testing.T) {
	cases := []struct {
		name   string
		bounds domain.SpeedBounds
	}{
		{"zero min", domain.SpeedBounds{MinMps: 0, MaxMps: 10}},
		{"negative min", domain.SpeedBounds{MinMps: -2, MaxMps: 10}},
		{"degenerate", domain.SpeedBounds{MinMps: 10, MaxMps: 10}},
		{"inverted", domain.SpeedBounds{MinMps: 12, MaxMps: 10}},
		{"NaN min", domain.SpeedBounds{MinMps: math.NaN(), MaxMps: 10}},
		{"infinite max", domain.SpeedBounds{MinMps: 5, MaxMps: math.Inf(1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := OptimizeSpeed(testVehicle(), testEnv(), testTrip(), tc.bounds, OptimizeOptions{})
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestOptimizeSpeedMoreDragSlowsOptimum(t *testing.T) {
	bounds := domain.SpeedBounds{MinMps: 5, MaxMps: 40}

	sleek := testVehicle()
	blunt := testVehicle()
	blunt.DragCoeff = 0.35

	resSleek, err := OptimizeSpeed(sleek, testEnv(), testTrip(), bounds, OptimizeOptions{})
	if err != nil {
		t.Fatalf("OptimizeSpeed: %v", err)
	}
	resBlunt, err := OptimizeSpeed(blunt, testEnv(), testTrip(), bounds, OptimizeOptions{})
	if err != nil {
		t.Fatalf("OptimizeSpeed: %v", err)
	}
	if resBlunt.OptimalSpeedMps >= resSleek.OptimalSpeedMps-0.5 {
		t.Errorf("blunt optimum %g m/s, want clearly below sleek optimum %g m/s",
			resBlunt.OptimalSpeedMps, resSleek.OptimalSpeedMps)
	}
}

func TestOptimizeSpeedIterationBudgetExhausted(t *testing.T) {
	bounds := domain.SpeedBounds{MinMps: 5, MaxMps: 40}

	res, err := OptimizeSpeed(testVehicle(), testEnv(), testTrip(), bounds, OptimizeOptions{MaxIterations: 1})
	if err != nil {
		t.Fatalf("OptimizeSpeed: %v", err)
	}
	if res.Converged {
		t.Error("Converged = true after a single bracketing step over a 35 m/s interval")
	}
	if res.OptimalSpeedMps < bounds.MinMps || res.OptimalSpeedMps > bounds.MaxMps {
		t.Errorf("OptimalSpeedMps = %g outside bounds", res.OptimalSpeedMps)
	}
	// The scan fallback still has to land near the true optimum.
	if !near(res.OptimalSpeedMps, 9.0014, 0.1) {
		t.Errorf("OptimalSpeedMps = %g, want about 9.0 from the fallback scan", res.OptimalSpeedMps)
	}
}

func TestOptimizeSpeedNonUnimodalCurve(t *testing.T) {
	// A motor with two efficiency sweet spots dents the unimodality the
	// bracketing search assumes. The result must still be at least as good
	// as a brute-force scan.
	vehicle := testVehicle()
	vehicle.Motor = domain.EfficiencyCurve{
		{SpeedMps: 3, Efficiency: 0.88},
		{SpeedMps: 6, Efficiency: 0.45},
		{SpeedMps: 9, Efficiency: 0.92},
		{SpeedMps: 14, Efficiency: 0.40},
		{SpeedMps: 20, Efficiency: 0.90},
	}
	bounds := domain.SpeedBounds{MinMps: 2, MaxMps: 25}

	res, err := OptimizeSpeed(vehicle, testEnv(), testTrip(), bounds, OptimizeOptions{})
	if err != nil {
		t.Fatalf("OptimizeSpeed: %v", err)
	}

	bestSOC := math.Inf(-1)
	for i := 0; i < 50; i++ {
		speed := bounds.MinMps + float64(i)/49*bounds.Width()
		r, err := Simulate(speed, vehicle, testEnv(), testTrip())
		if err != nil {
			t.Fatalf("Simulate at %g m/s: %v", speed, err)
		}
		if r.FinalSOC > bestSOC {
			bestSOC = r.FinalSOC
		}
	}
	if res.Result.FinalSOC < bestSOC-1e-6 {
		t.Errorf("FinalSOC = %g below brute-force best %g", res.Result.FinalSOC, bestSOC)
	}
}

func TestOptimizeSpeedAllSpeedsDeplete(t *testing.T) {
	trip := testTrip()
	trip.BatteryCapacityWh = 50

	res, err := OptimizeSpeed(testVehicle(), testEnv(), trip, domain.SpeedBounds{MinMps: 5, MaxMps: 40}, OptimizeOptions{})
	if err != nil {
		t.Fatalf("OptimizeSpeed: %v", err)
	}
	if !res.Result.Depleted {
		t.Error("Depleted = false, want true when no speed can finish the trip")
	}
	if res.Result.FinalSOC != 0 {
		t.Errorf("FinalSOC = %g, want 0", res.Result.FinalSOC)
	}
}

func TestOptimizeSpeedNarrowBounds(t *testing.T) {
	bounds := domain.SpeedBounds{MinMps: 8, MaxMps: 8.02}

	res, err := OptimizeSpeed(testVehicle(), testEnv(), testTrip(), bounds, OptimizeOptions{})
	if err != nil {
		t.Fatalf("OptimizeSpeed: %v", err)
	}
	if !res.Converged {
		t.Error("Converged = false on a 0.02 m/s interval")
	}
	if res.OptimalSpeedMps < bounds.MinMps || res.OptimalSpeedMps > bounds.MaxMps {
		t.Errorf("OptimalSpeedMps = %g outside [%g, %g]", res.OptimalSpeedMps, bounds.MinMps, bounds.MaxMps)
	}
}

func TestOptimizeSpeedBoundaryOptimum(t *testing.T) {
	// Bounds that exclude the balance point near 9.0 m/s push the optimum
	// onto an endpoint, where the interior bracketing candidates cannot
	// land. The search must return the exact bound, stay converged, and
	// not burn a dense rescan on a cleanly monotone objective.
	t.Run("bounds above the balance point", func(t *testing.T) {
		bounds := domain.SpeedBounds{MinMps: 15, MaxMps: 40}

		res, err := OptimizeSpeed(testVehicle(), testEnv(), testTrip(), bounds, OptimizeOptions{})
		if err != nil {
			t.Fatalf("OptimizeSpeed: %v", err)
		}
		if res.OptimalSpeedMps != bounds.MinMps {
			t.Errorf("OptimalSpeedMps = %g, want the lower bound %g", res.OptimalSpeedMps, bounds.MinMps)
		}
		if !res.Converged {
			t.Error("Converged = false for a boundary optimum")
		}
		// Two initial candidates, one per iteration, two endpoints, one
		// coarse scan. Anything beyond that means the fallback ran.
		if limit := res.Iterations + coarseScanPoints + 4; res.Evaluations > limit {
			t.Errorf("Evaluations = %d, want at most %d without a dense rescan", res.Evaluations, limit)
		}
	})

	t.Run("bounds below the balance point", func(t *testing.T) {
		bounds := domain.SpeedBounds{MinMps: 5, MaxMps: 8}

		res, err := OptimizeSpeed(testVehicle(), testEnv(), testTrip(), bounds, OptimizeOptions{})
		if err != nil {
			t.Fatalf("OptimizeSpeed: %v", err)
		}
		if res.OptimalSpeedMps != bounds.MaxMps {
			t.Errorf("OptimalSpeedMps = %g, want the upper bound %g", res.OptimalSpeedMps, bounds.MaxMps)
		}
		if !res.Converged {
			t.Error("Converged = false for a boundary optimum")
		}
	})
}
