package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"solar-strategy-service/internal/adapters/cache"
	"solar-strategy-service/internal/adapters/dataset"
	"solar-strategy-service/internal/adapters/forecast"
	"solar-strategy-service/internal/api"
	"solar-strategy-service/internal/config"
	"solar-strategy-service/internal/domain"
	"solar-strategy-service/internal/platform/db"
	"solar-strategy-service/internal/ports"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQLite/Postgres, Open-Meteo, Redis) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	profileName := config.Get("VEHICLE_PROFILE", domain.ProfileSolarRacer)
	if _, ok := domain.ProfileByName(profileName); !ok {
		log.Fatalf("unknown VEHICLE_PROFILE %q", profileName)
	}

	var provider ports.ForecastProvider
	switch name := config.Get("FORECAST_PROVIDER", "open-meteo"); name {
	case "open-meteo":
		// Fetched hours are persisted so repeated plans for the same place
		// and hour skip the external call.
		store, err := openConditionsStore()
		if err != nil {
			log.Fatal(err)
		}
		defer store.Close()

		provider = forecast.NewOpenMeteoProvider(os.Getenv("OPEN_METEO_BASE_URL"), store.cache)
	case "clear-sky":
		provider = forecast.NewClearSkyProvider()
	default:
		log.Fatalf("unknown FORECAST_PROVIDER %q", name)
	}

	var planCache ports.PlanCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("redis ping %s: %v", addr, err)
		}
		planCache = cache.NewRedisPlanCache(client)
	}

	cacheTTL := config.GetDuration("PLAN_CACHE_TTL", 10*time.Minute)
	router := api.NewRouter(provider, planCache, profileName, cacheTTL)

	// Write timeout covers a cold-cache forecast fetch with retries.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// conditionsStore pairs a forecast cache with the handle that must be closed
// on shutdown.
type conditionsStore struct {
	cache forecast.ConditionsCache
	db    *sql.DB
}

func (s conditionsStore) Close() error { return s.db.Close() }

// openConditionsStore picks Postgres when DATABASE_URL is set, otherwise a
// local SQLite file whose schema is created on startup.
func openConditionsStore() (conditionsStore, error) {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			return conditionsStore{}, err
		}
		return conditionsStore{cache: cache.NewSQLForecastCache(pg), db: pg}, nil
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	sq, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return conditionsStore{}, fmt.Errorf("open sqlite database %q: %w", dbPath, err)
	}

	if err := dataset.InitSchema(sq); err != nil {
		sq.Close()
		return conditionsStore{}, err
	}

	return conditionsStore{cache: cache.NewSqliteForecastCache(sq), db: sq}, nil
}
