// Package main implements the entry point for the WukongMap API server,
// which generates knowledge cards for study topics via an LLM provider and
// manages users' card collections.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/wukongmap/wukong-api/internal/config"
	"github.com/wukongmap/wukong-api/internal/platform/logger"
	"github.com/wukongmap/wukong-api/internal/platform/postgres"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"image_provider", cfg.LLM.ImageProvider,
		"free_generation_limit", cfg.Quota.FreeGenerationLimit)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to set up database: %v", err)
	}

	if err := postgres.MigrateUp(ctx, db, appLogger); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
