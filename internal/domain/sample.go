package domain

// One labeled training example: sampled scenario inputs, the optimizer's
// answer for them, the outcome at a randomly drawn "actual" speed, and
// seeded measurement-noise columns for downstream robustness training.
type Sample struct {
	Index int

	TimeOfDayH        float64
	GHI10Wm2          float64
	GHI90Wm2          float64
	TemperatureC      float64
	WindMps           float64
	GradientDeg       float64
	BatteryEfficiency float64
	InitialSOC        float64

	OptimalSpeedMps float64
	OptimalFinalSOC float64
	OptimalEnergyWh float64
	OptimalSolarWh  float64
	Converged       bool
	Depleted        bool

	ActualSpeedMps float64
	ActualFinalSOC float64
	// SOC given up by driving at ActualSpeedMps instead of the optimum.
	SOCLoss      float64
	SpeedDiffMps float64

	IrradianceUncertainty  float64
	TemperatureUncertainty float64
	SOCUncertainty         float64
}
