package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/cardforge/cardforge-api/internal/config"
	"github.com/cardforge/cardforge-api/internal/generation"
	"github.com/cardforge/cardforge-api/internal/platform/openrouter"
	"github.com/cardforge/cardforge-api/internal/platform/postgres"
	"github.com/cardforge/cardforge-api/internal/service"
	"github.com/cardforge/cardforge-api/internal/service/auth"
	"github.com/cardforge/cardforge-api/internal/store"
)

// application holds all shared application dependencies so shutdown can
// release them in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore       store.UserStore
	flashcardStore  store.FlashcardStore
	generationStore store.GenerationStore

	// Service interfaces
	jwtService        auth.JWTService
	passwordVerifier  auth.PasswordVerifier
	generator         generation.Generator
	generationService service.GenerationService
	flashcardService  service.FlashcardService

	// Outbound rate discipline shared by every provider call in the process.
	rateLimiter *openrouter.RateLimiter
}

// newApplication creates an application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established first.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
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

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.flashcardStore = postgres.NewPostgresFlashcardStore(db, logger)
	app.generationStore = postgres.NewPostgresGenerationStore(db, logger)

	app.rateLimiter = openrouter.NewRateLimiter(
		cfg.LLM.MaxRequestsPerMinute,
		cfg.LLM.MaxConcurrentRequests,
		logger.With("component", "llm_rate_limiter"),
	)

	client, err := openrouter.NewClient(
		cfg.LLM,
		app.rateLimiter,
		logger.With("component", "llm_client"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	app.generator, err = openrouter.NewFlashcardGenerator(
		client,
		logger.With("component", "llm_generator"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized successfully", "model", cfg.LLM.Model)

	app.generationService = service.NewGenerationService(
		app.generator,
		app.generationStore,
		logger,
	)

	app.flashcardService = service.NewFlashcardService(app.flashcardStore, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
