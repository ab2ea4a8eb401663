package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Tooflex/task-manager-server/internal/config"
	"github.com/Tooflex/task-manager-server/internal/platform/postgres"
	"github.com/Tooflex/task-manager-server/internal/service"
	"github.com/Tooflex/task-manager-server/internal/service/auth"
	"github.com/Tooflex/task-manager-server/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	roleStore store.RoleStore
	taskStore store.TaskStore

	// Service interfaces
	jwtService  auth.JWTService
	hasher      *auth.BcryptHasher
	userService service.UserService
	taskService service.TaskService
}

// newApplication creates a new application instance with all
// dependencies initialized. Configuration, logger and database
// connection must be established before calling it.
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

	// The bcrypt hasher serves both hashing (user writes) and
	// verification (login).
	app.hasher = auth.NewBcryptHasher()

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.roleStore = postgres.NewPostgresRoleStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	// Initialize services
	app.userService = service.NewUserService(app.userStore, app.roleStore, app.hasher, db, logger)
	app.taskService = service.NewTaskService(app.taskStore, logger)

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

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
