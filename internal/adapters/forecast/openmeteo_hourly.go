package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"solar-strategy-service/internal/domain"
	"solar-strategy-service/internal/ports"
	"strconv"
	"time"
)

type forecastResponse struct {
	Hourly struct {
		Time               []int64   `json:"time"`
		ShortwaveRadiation []float64 `json:"shortwave_radiation"`
		Temperature2m      []float64 `json:"temperature_2m"`
		WindSpeed10m       []float64 `json:"wind_speed_10m"`
	} `json:"hourly"`
}

// fetchHour pulls the hourly series around the requested time from the
// Open-Meteo forecast endpoint and picks the bucket matching the hour.
func (p *OpenMeteoProvider) fetchHour(
	ctx context.Context,
	coords domain.Coordinates,
	hour time.Time,
) (ports.Forecast, error) {
	endpoint := p.baseURL + "/v1/forecast"

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := p.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("latitude", strconv.FormatFloat(coords.Lat, 'f', 4, 64))
		q.Set("longitude", strconv.FormatFloat(coords.Lon, 'f', 4, 64))
		q.Set("hourly", "shortwave_radiation,temperature_2m,wind_speed_10m")
		q.Set("windspeed_unit", "ms")
		q.Set("timeformat", "unixtime")
		q.Set("forecast_days", "2")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return ports.Forecast{}, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.Forecast{}, fmt.Errorf("decode forecast response: %w", err)
	}

	h := decoded.Hourly
	if len(h.Time) == 0 {
		return ports.Forecast{}, fmt.Errorf("forecast returned no hourly data")
	}
	if len(h.ShortwaveRadiation) != len(h.Time) ||
		len(h.Temperature2m) != len(h.Time) ||
		len(h.WindSpeed10m) != len(h.Time) {
		return ports.Forecast{}, fmt.Errorf(
			"hourly series lengths do not match: time=%d radiation=%d temperature=%d wind=%d",
			len(h.Time), len(h.ShortwaveRadiation), len(h.Temperature2m), len(h.WindSpeed10m),
		)
	}

	want := hour.Unix()
	for i, ts := range h.Time {
		if ts == want {
			return ports.Forecast{
				GHIWm2:       h.ShortwaveRadiation[i],
				TemperatureC: h.Temperature2m[i],
				WindMps:      h.WindSpeed10m[i],
			}, nil
		}
	}

	return ports.Forecast{}, fmt.Errorf("no hourly entry for %s", hour.Format(time.RFC3339))
}
