package domain

// Built-in vehicle profiles. Profiles bundle the parameters a caller would
// otherwise have to supply field by field; every accessor returns a fresh
// copy so callers can tweak freely.

const (
	ProfileSolarRacer  = "solar-racer"
	ProfilePassengerEV = "passenger-ev"
)

// SolarRacerMotorCurve is the dynamometer-style efficiency table of the
// reference racer: poor at crawling speeds, peaking around 60 km/h.
func SolarRacerMotorCurve() EfficiencyCurve {
	return EfficiencyCurve{
		{SpeedMps: KphToMps(10), Efficiency: 0.44},
		{SpeedMps: KphToMps(20), Efficiency: 0.64},
		{SpeedMps: KphToMps(30), Efficiency: 0.74},
		{SpeedMps: KphToMps(40), Efficiency: 0.81},
		{SpeedMps: KphToMps(50), Efficiency: 0.85},
		{SpeedMps: KphToMps(60), Efficiency: 0.90},
	}
}

// SolarRacer is a lightweight single-seat solar race car.
func SolarRacer() VehicleParameters {
	return VehicleParameters{
		MassKg:        300,
		FrontalAreaM2: 1.1,
		DragCoeff:     0.20,
		RollingCoeff:  0.015,
		Motor:         SolarRacerMotorCurve(),
		DrivetrainEff: 0.97,
		PanelAreaM2:   3.51,
		PanelEff:      0.18,
		AuxPowerW:     0,
	}
}

// PassengerSolarEV is a road-going solar-assisted passenger car with a
// climate/electronics hotel load.
func PassengerSolarEV() VehicleParameters {
	return VehicleParameters{
		MassKg:        1200,
		FrontalAreaM2: 2.2,
		DragCoeff:     0.25,
		RollingCoeff:  0.010,
		Motor:         FlatEfficiency(0.90),
		DrivetrainEff: 0.97,
		PanelAreaM2:   4.0,
		PanelEff:      0.22,
		AuxPowerW:     1250,
	}
}

func ProfileByName(name string) (VehicleParameters, bool) {
	switch name {
	case ProfileSolarRacer:
		return SolarRacer(), true
	case ProfilePassengerEV:
		return PassengerSolarEV(), true
	default:
		return VehicleParameters{}, false
	}
}

func ProfileNames() []string {
	return []string{ProfileSolarRacer, ProfilePassengerEV}
}

// DefaultTrip returns the trip template a profile is normally driven on.
func DefaultTrip(name string) TripSpec {
	switch name {
	case ProfilePassengerEV:
		return TripSpec{DistanceM: 50000, InitialSOC: 0.9, BatteryCapacityWh: 20000, BatteryEfficiency: 1.0}
	default:
		return TripSpec{DistanceM: 150000, InitialSOC: 0.8, BatteryCapacityWh: 4960, BatteryEfficiency: 0.95}
	}
}

// DefaultBounds returns the speed interval a profile is normally optimized
// over.
func DefaultBounds(name string) SpeedBounds {
	switch name {
	case ProfilePassengerEV:
		return SpeedBounds{MinMps: 5, MaxMps: 40}
	default:
		return SpeedBounds{MinMps: KphToMps(10), MaxMps: KphToMps(60)}
	}
}
