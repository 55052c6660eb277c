package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/cache"
	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/events"
	"github.com/phrazzld/tasktrack-api/internal/platform/postgres"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore store.UserStore
	taskStore store.TaskStore

	// Cache backing the task listing cache and token revocation
	cacheStore cache.Store
	closeCache func() error

	// Services
	jwtService   auth.JWTService
	revoker      auth.TokenRevoker
	userService  service.UserService
	taskService  service.TaskService
	eventEmitter *events.InMemoryEventEmitter
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
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
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes)

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	app.cacheStore, app.closeCache, err = setupCacheStore(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, err
	}
	app.revoker = auth.NewCacheTokenRevoker(app.cacheStore)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewAuditLogHandler(logger))

	app.userService, err = service.NewUserService(app.userStore, auth.NewBcryptVerifier(), logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.taskService, err = service.NewTaskService(
		app.taskStore,
		app.userStore,
		cache.NewTaskListCache(app.cacheStore, cfg.Cache.TTL()),
		app.eventEmitter,
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	return app.startHTTPServer(ctx, app.setupRouter())
}

// setupRouter builds the HTTP handler from the application's services.
func (app *application) setupRouter() http.Handler {
	return newRouter(routerDeps{
		userService:   app.userService,
		taskService:   app.taskService,
		jwtService:    app.jwtService,
		revoker:       app.revoker,
		tokenLifetime: app.config.Auth.TokenLifetime(),
		logger:        app.logger,
	})
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.closeCache != nil {
		if err := app.closeCache(); err != nil {
			app.logger.Error("failed to close cache", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		} else {
			app.logger.Info("database connection closed")
		}
	}
}
