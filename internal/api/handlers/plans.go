package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"solar-strategy-service/internal/api/dto"
	"solar-strategy-service/internal/domain"
	"solar-strategy-service/internal/ports"
	"solar-strategy-service/internal/services"
	"strconv"
	"time"
)

const defaultPlanCacheTTL = 10 * time.Minute

// PlanHandler serves one-off simulations and optimal speed plans.
// Cache is optional; when present, plan responses are memoized on a digest
// of the resolved request so repeated plans skip both the forecast lookup
// and the optimizer.
type PlanHandler struct {
	Forecast       ports.ForecastProvider
	Cache          ports.PlanCache
	DefaultProfile string
	CacheTTL       time.Duration
}

// Simulate runs the steady-state model at one fixed speed.
func (h *PlanHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.SimulateRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	vehicle, profileName, errMsg := h.resolveVehicle(req.Profile, req.Vehicle)
	if errMsg != "" {
		writeError(w, r, http.StatusBadRequest, errMsg)
		return
	}

	trip, errMsg := resolveTrip(req.Trip, profileName)
	if errMsg != "" {
		writeError(w, r, http.StatusBadRequest, errMsg)
		return
	}

	if req.SpeedMps == 0 {
		writeError(w, r, http.StatusBadRequest, "speed_mps is required")
		return
	}

	res, err := services.Simulate(req.SpeedMps, vehicle, toEnvironment(req.Environment), trip)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toResultResponse(res))
}

// Plan finds the optimal cruising speed for a trip. Conditions come either
// inline or, given a location, from the forecast provider.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	vehicle, profileName, errMsg := h.resolveVehicle(req.Profile, req.Vehicle)
	if errMsg != "" {
		writeError(w, r, http.StatusBadRequest, errMsg)
		return
	}

	trip, errMsg := resolveTrip(req.Trip, profileName)
	if errMsg != "" {
		writeError(w, r, http.StatusBadRequest, errMsg)
		return
	}

	bounds, errMsg := resolveBounds(req.Bounds, profileName)
	if errMsg != "" {
		writeError(w, r, http.StatusBadRequest, errMsg)
		return
	}

	if req.Environment == nil && req.Location == nil {
		writeError(w, r, http.StatusBadRequest, "environment or location is required")
		return
	}

	depart := time.Now().UTC()
	if req.DepartAt != nil {
		depart = req.DepartAt.UTC()
	}

	// The key hashes the request before forecast resolution, so a cache hit
	// skips the upstream call too. Bucketing the departure to the hour
	// matches the forecast granularity.
	cacheKey := ""
	if h.Cache != nil {
		key, err := planCacheKey(vehicle, trip, bounds, req.Environment, req.Location, depart)
		if err != nil {
			log.Printf("plan cache key: %v", err)
		} else {
			cacheKey = key
			payload, ok, err := h.Cache.Get(r.Context(), cacheKey)
			if err != nil {
				log.Printf("plan cache read failed: %v", err)
			} else if ok {
				w.Header().Set("Content-Type", "application/json")
				w.Write(payload)
				return
			}
		}
	}

	var env domain.EnvironmentParameters
	var envDTO dto.EnvironmentDTO
	if req.Environment != nil {
		env = toEnvironment(*req.Environment)
		envDTO = fromEnvironment(env)
	} else {
		if h.Forecast == nil {
			writeError(w, r, http.StatusServiceUnavailable, "no forecast provider configured")
			return
		}
		coords := domain.Coordinates{Lat: req.Location.Lat, Lon: req.Location.Lon}
		f, err := h.Forecast.Current(r.Context(), coords, depart)
		if err != nil {
			log.Printf("forecast lookup failed: %v", err)
			writeError(w, r, http.StatusBadGateway, "forecast unavailable")
			return
		}
		env = domain.EnvironmentParameters{
			AirDensityKgM3: domain.StandardAirDensity,
			TemperatureC:   f.TemperatureC,
			IrradianceWm2:  f.GHIWm2,
			HeadwindMps:    f.WindMps,
		}
		envDTO = fromEnvironment(env)
	}

	opt, err := services.OptimizeSpeed(vehicle, env, trip, bounds, services.OptimizeOptions{})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.PlanResponse{
		OptimalSpeedMps: opt.OptimalSpeedMps,
		OptimalSpeedKph: domain.MpsToKph(opt.OptimalSpeedMps),
		Result:          toResultResponse(opt.Result),
		Iterations:      opt.Iterations,
		Evaluations:     opt.Evaluations,
		Converged:       opt.Converged,
		Environment:     envDTO,
	}

	payload, err := json.Marshal(res)
	if err != nil {
		log.Printf("marshal plan response: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if cacheKey != "" {
		ttl := h.CacheTTL
		if ttl <= 0 {
			ttl = defaultPlanCacheTTL
		}
		if err := h.Cache.Put(r.Context(), cacheKey, payload, ttl); err != nil {
			log.Printf("plan cache write failed: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// resolveVehicle picks the explicit vehicle when given, otherwise the
// requested (or default) profile. The profile name comes back so trip and
// bounds defaults can follow it.
func (h *PlanHandler) resolveVehicle(profile string, v *dto.VehicleDTO) (domain.VehicleParameters, string, string) {
	if v == nil {
		name := profile
		if name == "" {
			name = h.DefaultProfile
		}
		vehicle, ok := domain.ProfileByName(name)
		if !ok {
			return domain.VehicleParameters{}, "", "unknown profile " + strconv.Quote(name)
		}
		return vehicle, name, ""
	}

	if len(v.MotorCurve) > 0 && v.MotorEfficiency != 0 {
		return domain.VehicleParameters{}, "", "motor_efficiency and motor_curve are mutually exclusive"
	}

	var motor domain.EfficiencyCurve
	switch {
	case len(v.MotorCurve) > 0:
		motor = make(domain.EfficiencyCurve, 0, len(v.MotorCurve))
		for _, p := range v.MotorCurve {
			motor = append(motor, domain.EfficiencyPoint{
				SpeedMps:   domain.KphToMps(p.SpeedKph),
				Efficiency: p.Efficiency,
			})
		}
	case v.MotorEfficiency != 0:
		motor = domain.FlatEfficiency(v.MotorEfficiency)
	default:
		return domain.VehicleParameters{}, "", "vehicle needs motor_efficiency or motor_curve"
	}

	drivetrain := v.DrivetrainEff
	if drivetrain == 0 {
		drivetrain = 1
	}

	return domain.VehicleParameters{
		MassKg:        v.MassKg,
		FrontalAreaM2: v.FrontalAreaM2,
		DragCoeff:     v.DragCoeff,
		RollingCoeff:  v.RollingCoeff,
		Motor:         motor,
		DrivetrainEff: drivetrain,
		PanelAreaM2:   v.PanelAreaM2,
		PanelEff:      v.PanelEff,
		AuxPowerW:     v.AuxPowerW,
	}, "", ""
}

func resolveTrip(t *dto.TripDTO, profileName string) (domain.TripSpec, string) {
	if t == nil {
		if profileName == "" {
			return domain.TripSpec{}, "trip is required with a custom vehicle"
		}
		return domain.DefaultTrip(profileName), ""
	}

	battEff := t.BatteryEfficiency
	if battEff == 0 {
		battEff = 1
	}

	return domain.TripSpec{
		DistanceM:         t.DistanceM,
		InitialSOC:        t.InitialSOC,
		BatteryCapacityWh: t.BatteryCapacityWh,
		BatteryEfficiency: battEff,
	}, ""
}

func resolveBounds(b *dto.BoundsDTO, profileName string) (domain.SpeedBounds, string) {
	if b == nil {
		if profileName == "" {
			return domain.SpeedBounds{}, "bounds are required with a custom vehicle"
		}
		return domain.DefaultBounds(profileName), ""
	}

	return domain.SpeedBounds{MinMps: b.MinMps, MaxMps: b.MaxMps}, ""
}

func toEnvironment(e dto.EnvironmentDTO) domain.EnvironmentParameters {
	density := e.AirDensityKgM3
	if density == 0 {
		density = domain.StandardAirDensity
	}

	return domain.EnvironmentParameters{
		AirDensityKgM3: density,
		TemperatureC:   e.TemperatureC,
		GradeAngleRad:  domain.Radians(e.GradientDeg),
		IrradianceWm2:  e.IrradianceWm2,
		HeadwindMps:    e.HeadwindMps,
	}
}

func fromEnvironment(env domain.EnvironmentParameters) dto.EnvironmentDTO {
	return dto.EnvironmentDTO{
		AirDensityKgM3: env.AirDensityKgM3,
		TemperatureC:   env.TemperatureC,
		GradientDeg:    domain.Degrees(env.GradeAngleRad),
		IrradianceWm2:  env.IrradianceWm2,
		HeadwindMps:    env.HeadwindMps,
	}
}

func toResultResponse(r domain.SimulationResult) dto.SimulationResultResponse {
	return dto.SimulationResultResponse{
		EnergyUsedWh: r.EnergyUsedWh,
		SolarGainWh:  r.SolarGainWh,
		FinalSOC:     r.FinalSOC,
		DurationS:    r.DurationS,
		Depleted:     r.Depleted,
	}
}

// planCacheKey digests the resolved request. Marshaling fixed structs keys
// identical requests to identical bytes.
func planCacheKey(
	vehicle domain.VehicleParameters,
	trip domain.TripSpec,
	bounds domain.SpeedBounds,
	env *dto.EnvironmentDTO,
	loc *dto.LocationDTO,
	depart time.Time,
) (string, error) {
	material := struct {
		Vehicle  domain.VehicleParameters
		Trip     domain.TripSpec
		Bounds   domain.SpeedBounds
		Env      *dto.EnvironmentDTO
		Location *dto.LocationDTO
		Hour     string
	}{vehicle, trip, bounds, env, loc, depart.Truncate(time.Hour).Format(time.RFC3339)}

	b, err := json.Marshal(material)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(b)
	return "plan:" + hex.EncodeToString(sum[:]), nil
}
