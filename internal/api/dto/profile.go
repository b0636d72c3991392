package dto

type ProfileResponse struct {
	Name          string          `json:"name"`
	MassKg        float64         `json:"mass_kg"`
	FrontalAreaM2 float64         `json:"frontal_area_m2"`
	DragCoeff     float64         `json:"drag_coeff"`
	RollingCoeff  float64         `json:"rolling_coeff"`
	MotorCurve    []CurvePointDTO `json:"motor_curve"`
	DrivetrainEff float64         `json:"drivetrain_eff"`
	PanelAreaM2   float64         `json:"panel_area_m2"`
	PanelEff      float64         `json:"panel_eff"`
	AuxPowerW     float64         `json:"aux_power_w"`
	DefaultTrip   TripDTO         `json:"default_trip"`
	DefaultBounds BoundsDTO       `json:"default_bounds"`
}

type ListProfilesResponse struct {
	Profiles []ProfileResponse `json:"profiles"`
}
