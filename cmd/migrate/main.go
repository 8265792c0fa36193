package main

import (
	"context"
	"log"

	"github.com/52tanbivv/coin-exchange-backend/internal/usecase/journal"
	"github.com/52tanbivv/coin-exchange-backend/pkg/config"
	"github.com/52tanbivv/coin-exchange-backend/pkg/postgresql"
)

type migrateConfig struct {
	Postgres postgresql.Config `envPrefix:"POSTGRES_"`
}

func main() {
	ctx := context.Background()

	cfg := &migrateConfig{}
	if err := config.Load(cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, err := postgresql.NewClient(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer client.Close()

	if err := journal.NewPostgresStore(client).Migrate(ctx); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	log.Printf("Migration completed successfully")
}
