package forecast

import (
	"context"
	"fmt"
	"solar-strategy-service/internal/domain"
	"solar-strategy-service/internal/ports"
	"time"
)

type MockEntry struct {
	Lat, Lon float64
	Forecast ports.Forecast
}

type MockForecastProvider struct {
	m map[string]ports.Forecast
}

func NewMockForecastProvider(entries []MockEntry) *MockForecastProvider {
	m := make(map[string]ports.Forecast, len(entries))
	for _, e := range entries {
		m[mockKey(e.Lat, e.Lon)] = e.Forecast
	}
	return &MockForecastProvider{m: m}
}

func (p *MockForecastProvider) Current(ctx context.Context, coords domain.Coordinates, _ time.Time) (ports.Forecast, error) {
	f, ok := p.m[mockKey(coords.Lat, coords.Lon)]
	if !ok {
		return ports.Forecast{}, fmt.Errorf("no forecast for %.3f, %.3f", coords.Lat, coords.Lon)
	}

	return f, nil
}

func mockKey(lat, lon float64) string {
	return fmt.Sprintf("%.3f|%.3f", lat, lon)
}
