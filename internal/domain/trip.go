package domain

import (
	"fmt"
	"math"
)

// A single fixed-distance trip segment and the battery it draws from.
// BatteryEfficiency scales nominal capacity to its usable fraction
// (cold or hot packs deliver less than rated).
type TripSpec struct {
	DistanceM         float64
	InitialSOC        float64
	BatteryCapacityWh float64
	BatteryEfficiency float64
}

func (t TripSpec) Validate() error {
	if t.DistanceM <= 0 || math.IsNaN(t.DistanceM) || math.IsInf(t.DistanceM, 0) {
		return fmt.Errorf("trip distance must be positive and finite, got %g m: %w", t.DistanceM, ErrInvalidInput)
	}
	if t.InitialSOC < 0 || t.InitialSOC > 1 || math.IsNaN(t.InitialSOC) {
		return fmt.Errorf("initial SOC must be in [0,1], got %g: %w", t.InitialSOC, ErrInvalidInput)
	}
	if t.BatteryCapacityWh <= 0 || math.IsNaN(t.BatteryCapacityWh) {
		return fmt.Errorf("battery capacity must be positive, got %g Wh: %w", t.BatteryCapacityWh, ErrInvalidInput)
	}
	if t.BatteryEfficiency <= 0 || t.BatteryEfficiency > 1 || math.IsNaN(t.BatteryEfficiency) {
		return fmt.Errorf("battery efficiency must be in (0,1], got %g: %w", t.BatteryEfficiency, ErrInvalidInput)
	}
	return nil
}

// Caller-supplied search interval for the speed optimizer.
type SpeedBounds struct {
	MinMps float64
	MaxMps float64
}

func (b SpeedBounds) Validate() error {
	if b.MinMps <= 0 || math.IsNaN(b.MinMps) {
		return fmt.Errorf("minimum speed must be positive, got %g m/s: %w", b.MinMps, ErrInvalidInput)
	}
	if math.IsNaN(b.MaxMps) || math.IsInf(b.MaxMps, 0) {
		return fmt.Errorf("maximum speed must be finite: %w", ErrInvalidInput)
	}
	if b.MinMps >= b.MaxMps {
		return fmt.Errorf("speed bounds must satisfy min < max, got [%g, %g] m/s: %w", b.MinMps, b.MaxMps, ErrInvalidInput)
	}
	return nil
}

func (b SpeedBounds) Width() float64 { return b.MaxMps - b.MinMps }
