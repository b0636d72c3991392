package dto

import "time"

type LocationDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type BoundsDTO struct {
	MinMps float64 `json:"min_mps"`
	MaxMps float64 `json:"max_mps"`
}

// PlanRequest asks for the optimal cruising speed. Everything is optional
// when a profile supplies defaults; conditions come either inline
// (environment) or from the forecast provider (location + depart_at).
type PlanRequest struct {
	Profile     string          `json:"profile,omitempty"`
	Vehicle     *VehicleDTO     `json:"vehicle,omitempty"`
	Environment *EnvironmentDTO `json:"environment,omitempty"`
	Location    *LocationDTO    `json:"location,omitempty"`
	Trip        *TripDTO        `json:"trip,omitempty"`
	Bounds      *BoundsDTO      `json:"bounds,omitempty"`
	DepartAt    *time.Time      `json:"depart_at,omitempty"`
}

type PlanResponse struct {
	OptimalSpeedMps float64                  `json:"optimal_speed_mps"`
	OptimalSpeedKph float64                  `json:"optimal_speed_kph"`
	Result          SimulationResultResponse `json:"result"`
	Iterations      int                      `json:"iterations"`
	Evaluations     int                      `json:"evaluations"`
	Converged       bool                     `json:"converged"`
	// Conditions the plan was computed under, after forecast resolution.
	Environment EnvironmentDTO `json:"environment"`
}
