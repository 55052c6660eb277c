// Package main implements the entry point for the task tracking API server.
//
// Usage:
//
//	server                 # serve HTTP on the configured port
//	server -migrate up     # apply schema migrations and exit
//	server -migrate status # also: down, reset, version
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command ("+strings.Join(postgres.MigrationCommands, ", ")+") and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// run loads configuration and either executes a migration command or serves
// HTTP until SIGINT or SIGTERM.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"cache_driver", cfg.Cache.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg, l)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		return runMigrations(ctx, db, migrateCmd, l)
	}

	app, err := newApplication(ctx, cfg, l, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// runMigrations executes a single goose command. Every log line of the run
// carries the same correlation ID.
func runMigrations(ctx context.Context, db *sql.DB, command string, l *slog.Logger) error {
	migLogger := l.With(
		"component", "migrations",
		"correlation_id", uuid.NewString(),
		"command", command)

	migLogger.Info("running migration command")
	if err := postgres.Migrate(ctx, db, command, migLogger); err != nil {
		migLogger.Error("migration command failed", "error", err)
		return err
	}
	migLogger.Info("migration command finished")
	return nil
}
