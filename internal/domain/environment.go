package domain

import (
	"fmt"
	"math"
)

// Ambient conditions along the trip segment. Immutable per simulation run.
// Temperature affects both rolling resistance and panel output; wind is a
// signed headwind component along the direction of travel (negative for a
// tailwind).
type EnvironmentParameters struct {
	AirDensityKgM3 float64
	TemperatureC   float64
	GradeAngleRad  float64
	IrradianceWm2  float64
	HeadwindMps    float64
}

func (e EnvironmentParameters) Validate() error {
	if e.AirDensityKgM3 <= 0 || math.IsNaN(e.AirDensityKgM3) {
		return fmt.Errorf("air density must be positive, got %g kg/m3: %w", e.AirDensityKgM3, ErrInvalidInput)
	}
	if math.IsNaN(e.TemperatureC) || math.IsInf(e.TemperatureC, 0) {
		return fmt.Errorf("temperature must be finite: %w", ErrInvalidInput)
	}
	if math.IsNaN(e.GradeAngleRad) || math.Abs(e.GradeAngleRad) > math.Pi/2 {
		return fmt.Errorf("grade angle must be within (-pi/2, pi/2), got %g rad: %w", e.GradeAngleRad, ErrInvalidInput)
	}
	if math.IsNaN(e.IrradianceWm2) || math.IsInf(e.IrradianceWm2, 0) {
		return fmt.Errorf("irradiance must be finite: %w", ErrInvalidInput)
	}
	if math.IsNaN(e.HeadwindMps) || math.IsInf(e.HeadwindMps, 0) {
		return fmt.Errorf("headwind must be finite: %w", ErrInvalidInput)
	}
	return nil
}
