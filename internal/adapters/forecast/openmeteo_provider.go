package forecast

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"solar-strategy-service/internal/domain"
	"solar-strategy-service/internal/platform/obs"
	"solar-strategy-service/internal/ports"
	"time"
)

// ConditionsCache persists fetched hourly conditions so repeated plans for
// the same place and hour skip the external call. Implementations live in
// the cache package; a nil cache disables persistence.
type ConditionsCache interface {
	Get(ctx context.Context, lat, lon float64, hour string) (ports.Forecast, bool, error)
	Put(ctx context.Context, lat, lon float64, hour string, f ports.Forecast) error
}

// OpenMeteoProvider implements ForecastProvider using the Open-Meteo
// forecast API.
//
// It coordinates:
//   - Hour-bucket normalization of the requested time
//   - Persistent per-hour conditions caching
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type OpenMeteoProvider struct {
	session *http.Client
	baseURL string
	cache   ConditionsCache
}

// NewOpenMeteoProvider builds a provider against the given API base URL.
// An empty baseURL selects the public endpoint.
func NewOpenMeteoProvider(baseURL string, cache ConditionsCache) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com"
	}

	return &OpenMeteoProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		cache:   cache,
	}
}

// Current returns the conditions for the hour covering at. Cached hours are
// served without touching the network; fresh fetches are written back, and
// a cache write failure only logs because the forecast itself is good.
func (p *OpenMeteoProvider) Current(
	ctx context.Context,
	coords domain.Coordinates,
	at time.Time,
) (_ ports.Forecast, err error) {
	defer obs.Time(ctx, "openmeteo.Current")(&err)

	hour := at.UTC().Truncate(time.Hour)
	hourKey := hour.Format(time.RFC3339)

	if p.cache != nil {
		f, ok, err := p.cache.Get(ctx, coords.Lat, coords.Lon, hourKey)
		if err != nil {
			return ports.Forecast{}, fmt.Errorf("forecast cache read: %w", err)
		}
		if ok {
			return f, nil
		}
	}

	f, err := p.fetchHour(ctx, coords, hour)
	if err != nil {
		return ports.Forecast{}, fmt.Errorf("fetch open-meteo hour %s: %w", hourKey, err)
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, coords.Lat, coords.Lon, hourKey, f); err != nil {
			log.Printf("forecast cache write failed: %v", err)
		}
	}

	return f, nil
}
