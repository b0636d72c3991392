package services

import (
	"fmt"
	"math"
	"math/rand/v2"
	"solar-strategy-service/internal/domain"
)

const (
	peakGHIWm2  = 800.0
	sunriseHour = 6.0
	sunsetHour  = 18.0
)

// ScenarioSampler draws randomized trip scenarios for dataset generation.
// Each index gets its own PCG stream seeded from (Seed, index), so a given
// (seed, index) pair always produces the same scenario no matter how many
// workers draw in parallel or in what order.
type ScenarioSampler struct {
	Vehicle           domain.VehicleParameters
	DistanceM         float64
	BatteryCapacityWh float64
	Bounds            domain.SpeedBounds
	Seed              uint64
}

func (s ScenarioSampler) Validate() error {
	if err := s.Vehicle.Validate(); err != nil {
		return fmt.Errorf("sampler vehicle: %w", err)
	}
	if err := s.Bounds.Validate(); err != nil {
		return fmt.Errorf("sampler bounds: %w", err)
	}
	if !(s.DistanceM > 0) {
		return fmt.Errorf("sampler distance %v m: %w", s.DistanceM, domain.ErrInvalidInput)
	}
	if !(s.BatteryCapacityWh > 0) {
		return fmt.Errorf("sampler battery capacity %v Wh: %w", s.BatteryCapacityWh, domain.ErrInvalidInput)
	}
	return nil
}

// Scenario is one randomized draw: the environment and trip to optimize
// over, the driver's actual speed to compare against, and sensor noise
// terms for the exported features.
type Scenario struct {
	TimeOfDayH float64
	GHI10Wm2   float64
	GHI90Wm2   float64

	Env  domain.EnvironmentParameters
	Trip domain.TripSpec

	ActualSpeedMps float64

	IrradianceUncertainty  float64
	TemperatureUncertainty float64
	// Unit-normal draw; callers scale it by the simulated outcome because
	// the noise magnitude tracks the remaining charge.
	SOCNoise float64
}

// Draw produces the scenario for the given sample index.
//
// Daytime trips only: time of day is uniform over daylight hours and both
// irradiance quantiles follow a half-sine solar arc with independent
// +/-50 W/m2 jitter, floored at zero. Ambient temperature correlates with
// irradiance. Battery efficiency degrades linearly as the pack temperature
// leaves 25 C.
func (s ScenarioSampler) Draw(i int) Scenario {
	rng := rand.New(rand.NewPCG(s.Seed, uint64(i)))

	tod := uniform(rng, sunriseHour, sunsetHour)
	arc := peakGHIWm2 * math.Sin((tod-sunriseHour)/(sunsetHour-sunriseHour)*math.Pi)
	ghi10 := math.Max(0, arc+uniform(rng, -50, 50))
	ghi90 := math.Max(0, arc+uniform(rng, -50, 50))
	meanGHI := (ghi10 + ghi90) / 2

	temp := clamp(25+0.02*meanGHI+rng.NormFloat64()*5, -5, 45)
	wind := uniform(rng, 0, 10)
	gradeDeg := uniform(rng, -5, 10)
	battEff := 0.95 - 0.001*math.Abs(temp-25)
	soc0 := uniform(rng, 0.3, 1.0)
	actual := uniform(rng, s.Bounds.MinMps, s.Bounds.MaxMps)

	return Scenario{
		TimeOfDayH: tod,
		GHI10Wm2:   ghi10,
		GHI90Wm2:   ghi90,
		Env: domain.EnvironmentParameters{
			AirDensityKgM3: domain.StandardAirDensity,
			TemperatureC:   temp,
			GradeAngleRad:  domain.Radians(gradeDeg),
			IrradianceWm2:  meanGHI,
			HeadwindMps:    wind,
		},
		Trip: domain.TripSpec{
			DistanceM:         s.DistanceM,
			InitialSOC:        soc0,
			BatteryCapacityWh: s.BatteryCapacityWh,
			BatteryEfficiency: battEff,
		},
		ActualSpeedMps:         actual,
		IrradianceUncertainty:  rng.NormFloat64() * 0.1 * meanGHI,
		TemperatureUncertainty: rng.NormFloat64() * 0.05 * temp,
		SOCNoise:               rng.NormFloat64(),
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
