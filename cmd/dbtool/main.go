package main

import (
	"context"
	"log"
	"os"
	"solar-strategy-service/internal/adapters/dataset"
	"solar-strategy-service/internal/platform/db"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// dbtool creates the Postgres schema (dataset runs, samples, forecast
// cache). SQLite schemas are created by the binaries that use them; only
// the shared Postgres instance is managed out of band.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	log.Println("Initializing database schema...")
	if err := dataset.InitPostgresSchema(context.Background(), pg); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}
