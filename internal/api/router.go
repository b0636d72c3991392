package api

import (
	"net/http"
	"solar-strategy-service/internal/api/handlers"
	"solar-strategy-service/internal/ports"
	"time"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(forecast ports.ForecastProvider, cache ports.PlanCache, defaultProfile string, cacheTTL time.Duration) http.Handler {
	mux := http.NewServeMux()

	planHandler := &handlers.PlanHandler{
		Forecast:       forecast,
		Cache:          cache,
		DefaultProfile: defaultProfile,
		CacheTTL:       cacheTTL,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/profiles", handlers.Profiles)
	mux.HandleFunc("/simulate", planHandler.Simulate)
	mux.HandleFunc("/plans", planHandler.Plan)

	return loggingMiddleware(mux)
}
