package dto

// A point of a motor efficiency curve as exposed over the API. Speeds use
// km/h here because vehicle datasheets quote them that way; the service
// converts to m/s internally.
type CurvePointDTO struct {
	SpeedKph   float64 `json:"speed_kph"`
	Efficiency float64 `json:"efficiency"`
}

// VehicleDTO describes a custom vehicle. Either motor_efficiency (flat) or
// motor_curve must be set, not both. Zero drivetrain_eff and
// battery_efficiency mean "no extra loss".
type VehicleDTO struct {
	MassKg          float64         `json:"mass_kg"`
	FrontalAreaM2   float64         `json:"frontal_area_m2"`
	DragCoeff       float64         `json:"drag_coeff"`
	RollingCoeff    float64         `json:"rolling_coeff"`
	MotorEfficiency float64         `json:"motor_efficiency,omitempty"`
	MotorCurve      []CurvePointDTO `json:"motor_curve,omitempty"`
	DrivetrainEff   float64         `json:"drivetrain_eff"`
	PanelAreaM2     float64         `json:"panel_area_m2"`
	PanelEff        float64         `json:"panel_eff"`
	AuxPowerW       float64         `json:"aux_power_w"`
}

type EnvironmentDTO struct {
	AirDensityKgM3 float64 `json:"air_density_kg_m3,omitempty"`
	TemperatureC   float64 `json:"temperature_c"`
	GradientDeg    float64 `json:"gradient_deg"`
	IrradianceWm2  float64 `json:"irradiance_wm2"`
	HeadwindMps    float64 `json:"headwind_mps"`
}

type TripDTO struct {
	DistanceM         float64 `json:"distance_m"`
	InitialSOC        float64 `json:"initial_soc"`
	BatteryCapacityWh float64 `json:"battery_capacity_wh"`
	BatteryEfficiency float64 `json:"battery_efficiency,omitempty"`
}

type SimulateRequest struct {
	Profile     string         `json:"profile,omitempty"`
	Vehicle     *VehicleDTO    `json:"vehicle,omitempty"`
	Environment EnvironmentDTO `json:"environment"`
	Trip        *TripDTO       `json:"trip,omitempty"`
	SpeedMps    float64        `json:"speed_mps"`
}

type SimulationResultResponse struct {
	EnergyUsedWh float64 `json:"energy_used_wh"`
	SolarGainWh  float64 `json:"solar_gain_wh"`
	FinalSOC     float64 `json:"final_soc"`
	DurationS    float64 `json:"duration_s"`
	Depleted     bool    `json:"depleted"`
}
