package domain

// Outcome of simulating one trip at a fixed speed. Produced fresh per
// invocation and never mutated. Energy figures are unclamped; FinalSOC is
// clamped to [0,1] with Depleted set when the battery would have gone
// negative before trip end.
type SimulationResult struct {
	EnergyUsedWh float64
	SolarGainWh  float64
	FinalSOC     float64
	DurationS    float64
	Depleted     bool
}

// Outcome of a bounded speed search. Result is the simulation at
// OptimalSpeedMps. Converged reports whether the bracketing search reached
// tolerance; when false the best sampled point is still returned so callers
// can keep a best-effort sample.
type OptimizationResult struct {
	OptimalSpeedMps float64
	Result          SimulationResult
	Iterations      int
	Evaluations     int
	Converged       bool
}
