package domain

import (
	"fmt"
	"math"
)

// A single point on a motor efficiency curve.
type EfficiencyPoint struct {
	SpeedMps   float64
	Efficiency float64
}

// Piecewise-linear motor efficiency over speed. Points must be sorted by
// strictly increasing speed; speeds outside the curve clamp to the nearest
// endpoint. A single point models a speed-independent efficiency.
type EfficiencyCurve []EfficiencyPoint

// FlatEfficiency builds a curve with the same efficiency at every speed.
func FlatEfficiency(eff float64) EfficiencyCurve {
	return EfficiencyCurve{{SpeedMps: 0, Efficiency: eff}}
}

func (c EfficiencyCurve) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("motor curve must have at least one point: %w", ErrInvalidInput)
	}
	for i, p := range c {
		if p.Efficiency <= 0 || p.Efficiency > 1 || math.IsNaN(p.Efficiency) {
			return fmt.Errorf("motor curve efficiency at point %d must be in (0,1], got %g: %w", i, p.Efficiency, ErrInvalidInput)
		}
		if p.SpeedMps < 0 || math.IsNaN(p.SpeedMps) {
			return fmt.Errorf("motor curve speed at point %d must be non-negative, got %g: %w", i, p.SpeedMps, ErrInvalidInput)
		}
		if i > 0 && p.SpeedMps <= c[i-1].SpeedMps {
			return fmt.Errorf("motor curve speeds must be strictly increasing at point %d: %w", i, ErrInvalidInput)
		}
	}
	return nil
}

// At interpolates the efficiency for a given speed.
func (c EfficiencyCurve) At(speedMps float64) float64 {
	if speedMps <= c[0].SpeedMps {
		return c[0].Efficiency
	}
	last := c[len(c)-1]
	if speedMps >= last.SpeedMps {
		return last.Efficiency
	}
	for i := 1; i < len(c); i++ {
		if speedMps <= c[i].SpeedMps {
			lo, hi := c[i-1], c[i]
			t := (speedMps - lo.SpeedMps) / (hi.SpeedMps - lo.SpeedMps)
			return lo.Efficiency + t*(hi.Efficiency-lo.Efficiency)
		}
	}
	return last.Efficiency
}

// Physical description of the vehicle. Immutable per simulation run.
type VehicleParameters struct {
	MassKg        float64
	FrontalAreaM2 float64
	DragCoeff     float64
	RollingCoeff  float64
	Motor         EfficiencyCurve
	DrivetrainEff float64
	PanelAreaM2   float64
	PanelEff      float64
	// Constant electrical hotel load drawn for the whole trip duration
	// (telemetry, displays, cooling). Makes slow trips cost energy too.
	AuxPowerW float64
}

func (v VehicleParameters) Validate() error {
	if v.MassKg <= 0 || math.IsNaN(v.MassKg) {
		return fmt.Errorf("vehicle mass must be positive, got %g kg: %w", v.MassKg, ErrInvalidInput)
	}
	if v.FrontalAreaM2 <= 0 || math.IsNaN(v.FrontalAreaM2) {
		return fmt.Errorf("vehicle frontal area must be positive, got %g m2: %w", v.FrontalAreaM2, ErrInvalidInput)
	}
	if v.DragCoeff < 0 || math.IsNaN(v.DragCoeff) {
		return fmt.Errorf("vehicle drag coefficient must be non-negative, got %g: %w", v.DragCoeff, ErrInvalidInput)
	}
	if v.RollingCoeff < 0 || math.IsNaN(v.RollingCoeff) {
		return fmt.Errorf("vehicle rolling coefficient must be non-negative, got %g: %w", v.RollingCoeff, ErrInvalidInput)
	}
	if err := v.Motor.Validate(); err != nil {
		return err
	}
	if v.DrivetrainEff <= 0 || v.DrivetrainEff > 1 || math.IsNaN(v.DrivetrainEff) {
		return fmt.Errorf("vehicle drivetrain efficiency must be in (0,1], got %g: %w", v.DrivetrainEff, ErrInvalidInput)
	}
	if v.PanelAreaM2 < 0 || math.IsNaN(v.PanelAreaM2) {
		return fmt.Errorf("vehicle panel area must be non-negative, got %g m2: %w", v.PanelAreaM2, ErrInvalidInput)
	}
	if v.PanelEff < 0 || v.PanelEff > 1 || math.IsNaN(v.PanelEff) {
		return fmt.Errorf("vehicle panel efficiency must be in [0,1], got %g: %w", v.PanelEff, ErrInvalidInput)
	}
	if v.AuxPowerW < 0 || math.IsNaN(v.AuxPowerW) {
		return fmt.Errorf("vehicle auxiliary power must be non-negative, got %g W: %w", v.AuxPowerW, ErrInvalidInput)
	}
	return nil
}
