package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/wukongmap/wukong-api/internal/config"
	"github.com/wukongmap/wukong-api/internal/generation"
	"github.com/wukongmap/wukong-api/internal/platform/gemini"
	"github.com/wukongmap/wukong-api/internal/platform/openrouter"
	"github.com/wukongmap/wukong-api/internal/platform/postgres"
	"github.com/wukongmap/wukong-api/internal/service"
	"github.com/wukongmap/wukong-api/internal/service/auth"
	"github.com/wukongmap/wukong-api/internal/service/quota"
	"github.com/wukongmap/wukong-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore store.UserStore
	cardStore store.CardStore

	// Services
	jwtService        auth.JWTService
	quotaGate         *quota.Gate
	userService       service.UserService
	cardService       service.CardService
	generationService service.CardGenerationService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.userStore = postgres.NewPostgresUserStore(db)
	app.cardStore = postgres.NewPostgresCardStore(db)

	app.quotaGate, err = quota.NewGate(app.userStore, cfg.Quota.FreeGenerationLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize quota gate: %w", err)
	}

	app.userService, err = service.NewUserService(
		app.userStore,
		app.jwtService,
		auth.NewBcryptHasher(0),
		auth.NewBcryptVerifier(),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.cardService, err = service.NewCardService(app.cardStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	// The OpenRouter client covers text generation; image generation goes
	// through the configured backend.
	llmClient, err := openrouter.NewClient(cfg.LLM, logger.With("component", "openrouter_client"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	imageGenerator, err := setupImageGenerator(ctx, cfg, llmClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image generator: %w", err)
	}

	app.generationService, err = service.NewCardGenerationService(
		app.quotaGate,
		llmClient,
		imageGenerator,
		app.cardStore,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupImageGenerator selects the image backend per configuration: the
// OpenRouter chat endpoint with image modalities, or the Gemini API directly.
func setupImageGenerator(
	ctx context.Context,
	cfg *config.Config,
	llmClient *openrouter.Client,
	logger *slog.Logger,
) (generation.ImageGenerator, error) {
	switch cfg.LLM.ImageProvider {
	case "gemini":
		return gemini.NewImageClient(ctx, cfg.LLM, logger.With("component", "gemini_image_client"))
	default:
		return llmClient, nil
	}
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
