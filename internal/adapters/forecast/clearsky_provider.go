package forecast

import (
	"context"
	"math"
	"solar-strategy-service/internal/domain"
	"solar-strategy-service/internal/ports"
	"time"
)

// ClearSkyProvider approximates conditions without network access: a
// half-sine irradiance arc between 06:00 and 18:00 peaking at 800 W/m2,
// mild air and no wind. Latitude is ignored. It backs deployments without
// an upstream forecast and keeps tests offline.
type ClearSkyProvider struct{}

func NewClearSkyProvider() *ClearSkyProvider {
	return &ClearSkyProvider{}
}

func (p *ClearSkyProvider) Current(
	_ context.Context,
	_ domain.Coordinates,
	at time.Time,
) (ports.Forecast, error) {
	h := float64(at.Hour()) + float64(at.Minute())/60

	ghi := 0.0
	if h > 6 && h < 18 {
		ghi = 800 * math.Sin((h-6)/12*math.Pi)
	}

	return ports.Forecast{
		GHIWm2:       ghi,
		TemperatureC: 25,
		WindMps:      0,
	}, nil
}
