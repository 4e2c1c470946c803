package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-product-catalog/config"
	pginfra "github.com/oksasatya/go-product-catalog/internal/infrastructure/postgres"
	"github.com/oksasatya/go-product-catalog/pkg/helpers"
)

// seed applies migrations and loads SEED_FILE into an empty catalog.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(pool, cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	ran, err := pginfra.LoadSeedIfEmpty(ctx, pginfra.NewStore(pool), cfg.SeedFile, logger)
	if err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}
	logger.WithField("seeded", ran).WithField("file", cfg.SeedFile).Info("seed finished")
}
