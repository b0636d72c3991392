package services

import (
	"fmt"
	"math"
	"solar-strategy-service/internal/domain"
)

// Per-degree adjustment factors for off-nominal pack and tyre temperature.
// Both reference 25 C: rolling resistance grows 1%/degree of warming,
// panel output drops 0.4%/degree away from nominal in either direction.
const (
	rollingTempCoeff = 0.01
	panelTempDerate  = 0.004
	nominalTempC     = 25.0
)

// Simulate one steady-state trip segment at a fixed cruising speed.
//
// The model treats the whole segment as a single operating point: constant
// speed, constant grade, constant conditions. Energy drawn by the motor
// (wheel power scaled by motor and drivetrain efficiency) plus the
// auxiliary hotel load competes with solar recharge over the travel time;
// the balance moves the state of charge. A battery driven below empty
// reports Depleted with SOC clamped to zero rather than failing, so
// callers can treat exhaustion as an outcome, not an error.
func Simulate(
	speedMps float64,
	vehicle domain.VehicleParameters,
	env domain.EnvironmentParameters,
	trip domain.TripSpec,
) (domain.SimulationResult, error) {
	if err := vehicle.Validate(); err != nil {
		return domain.SimulationResult{}, fmt.Errorf("simulate: %w", err)
	}
	if err := env.Validate(); err != nil {
		return domain.SimulationResult{}, fmt.Errorf("simulate: %w", err)
	}
	if err := trip.Validate(); err != nil {
		return domain.SimulationResult{}, fmt.Errorf("simulate: %w", err)
	}
	if speedMps <= 0 || math.IsNaN(speedMps) || math.IsInf(speedMps, 0) {
		return domain.SimulationResult{}, fmt.Errorf(
			"simulate: speed must be positive and finite, got %g m/s: %w",
			speedMps, domain.ErrInvalidInput,
		)
	}

	durationS := trip.DistanceM / speedMps

	// Rolling resistance, warmer tyres roll worse.
	crr := vehicle.RollingCoeff * (1 + rollingTempCoeff*(env.TemperatureC-nominalTempC))
	if crr < 0 {
		crr = 0
	}
	rollingN := crr * vehicle.MassKg * domain.Gravity

	// Aerodynamic drag against the relative airflow. The signed square
	// keeps a tailwind faster than the car pushing instead of dragging.
	airspeed := speedMps + env.HeadwindMps
	dragN := 0.5 * env.AirDensityKgM3 * vehicle.DragCoeff * vehicle.FrontalAreaM2 * math.Abs(airspeed) * airspeed

	gradeN := vehicle.MassKg * domain.Gravity * math.Sin(env.GradeAngleRad)

	wheelW := speedMps * (rollingN + dragN + gradeN)
	drawW := wheelW/(vehicle.Motor.At(speedMps)*vehicle.DrivetrainEff) + vehicle.AuxPowerW

	derate := 1 - panelTempDerate*math.Abs(env.TemperatureC-nominalTempC)
	if derate < 0 {
		derate = 0
	}
	solarW := math.Max(0, env.IrradianceWm2) * vehicle.PanelAreaM2 * vehicle.PanelEff * derate

	usedWh := drawW * durationS / 3600
	gainWh := solarW * durationS / 3600

	capacityWh := trip.BatteryCapacityWh * trip.BatteryEfficiency
	remainingWh := trip.InitialSOC*capacityWh - usedWh + gainWh

	soc := remainingWh / capacityWh
	depleted := soc < 0
	if soc < 0 {
		soc = 0
	}
	if soc > 1 {
		soc = 1
	}

	return domain.SimulationResult{
		EnergyUsedWh: usedWh,
		SolarGainWh:  gainWh,
		FinalSOC:     soc,
		DurationS:    durationS,
		Depleted:     depleted,
	}, nil
}
