package ports

import (
	"context"
	"solar-strategy-service/internal/domain"
	"time"
)

// Solar and weather conditions at a place and hour, in the units the
// physics core consumes directly.
type Forecast struct {
	GHIWm2       float64
	TemperatureC float64
	WindMps      float64
}

// Contract for resolving current conditions at a location.
type ForecastProvider interface {
	// Return the forecast for the hour covering the given time.
	Current(ctx context.Context, coords domain.Coordinates, at time.Time) (Forecast, error)
}
