// vipd serves the fit engine over HTTP, optionally persisting results to
// Postgres when DATABASE_URL is configured.
package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"vipfit/adapters/api"
	"vipfit/adapters/postgres"
	"vipfit/internal/config"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gin.SetMode(cfg.Server.GinMode)

	var store *postgres.Store
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		store = postgres.NewStore(db)
		if err := store.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("postgres schema: %v", err)
		}
		log.Printf("fit results will be persisted")
	} else {
		log.Printf("DATABASE_URL not set; running without a result store")
	}

	server := api.NewServer(store, cfg.Fit)
	if err := server.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
