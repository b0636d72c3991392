package handlers

import (
	"net/http"
	"solar-strategy-service/internal/api/dto"
	"solar-strategy-service/internal/domain"
)

// Profiles lists the built-in vehicle profiles with their default trips
// and speed bounds, so clients can plan without spelling out a vehicle.
func Profiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	names := domain.ProfileNames()
	res := dto.ListProfilesResponse{Profiles: make([]dto.ProfileResponse, 0, len(names))}
	for _, name := range names {
		v, ok := domain.ProfileByName(name)
		if !ok {
			continue
		}

		curve := make([]dto.CurvePointDTO, 0, len(v.Motor))
		for _, p := range v.Motor {
			curve = append(curve, dto.CurvePointDTO{
				SpeedKph:   domain.MpsToKph(p.SpeedMps),
				Efficiency: p.Efficiency,
			})
		}

		trip := domain.DefaultTrip(name)
		bounds := domain.DefaultBounds(name)

		res.Profiles = append(res.Profiles, dto.ProfileResponse{
			Name:          name,
			MassKg:        v.MassKg,
			FrontalAreaM2: v.FrontalAreaM2,
			DragCoeff:     v.DragCoeff,
			RollingCoeff:  v.RollingCoeff,
			MotorCurve:    curve,
			DrivetrainEff: v.DrivetrainEff,
			PanelAreaM2:   v.PanelAreaM2,
			PanelEff:      v.PanelEff,
			AuxPowerW:     v.AuxPowerW,
			DefaultTrip: dto.TripDTO{
				DistanceM:         trip.DistanceM,
				InitialSOC:        trip.InitialSOC,
				BatteryCapacityWh: trip.BatteryCapacityWh,
				BatteryEfficiency: trip.BatteryEfficiency,
			},
			DefaultBounds: dto.BoundsDTO{
				MinMps: bounds.MinMps,
				MaxMps: bounds.MaxMps,
			},
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
