package main

import (
	"context"
	"log"
	"os"

	"github.com/david/opportunity-finder/internal/api"
	"github.com/david/opportunity-finder/internal/backend"
	"github.com/david/opportunity-finder/internal/config"
	"github.com/david/opportunity-finder/internal/db"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Token, cfg.Backend.Timeout())
	srv := api.NewServer(cfg, client, db.NewStore(pool))
	log.Printf("Server starting on port %s (backend %s)...", cfg.Server.Port, cfg.Backend.BaseURL)
	if err := srv.Start(cfg.Server.Port); err != nil {
		log.Fatal(err)
	}
}
