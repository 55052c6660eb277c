// Command seed-admin creates the initial admin user. Running it again when
// the email is already registered is a no-op.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql

	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/platform/postgres"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// Default admin account
const (
	defaultName     = "Admin User"
	defaultEmail    = "admin@example.com"
	defaultPassword = "password"
)

func main() {
	name := flag.String("name", defaultName, "admin display name")
	email := flag.String("email", defaultEmail, "admin email")
	password := flag.String("password", defaultPassword, "admin password")
	flag.Parse()

	if err := run(*name, *email, *password); err != nil {
		log.Fatalf("seed-admin: %v", err)
	}
}

// run returns instead of exiting so deferred cleanup always happens.
func run(name, email, password string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	users := postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, l)
	if _, err := seedAdmin(ctx, users, name, email, password, l); err != nil {
		l.Error("failed to seed admin user", "error", err)
		return err
	}
	return nil
}

// seedAdmin creates the admin user unless the email is already taken.
// It reports whether a user was created.
func seedAdmin(ctx context.Context, users store.UserStore, name, email, password string, l *slog.Logger) (bool, error) {
	admin := &domain.User{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	}

	err := users.Create(ctx, admin)
	switch {
	case errors.Is(err, store.ErrEmailExists):
		l.Info("admin user already exists, nothing to do")
		return false, nil
	case err != nil:
		return false, fmt.Errorf("create admin user: %w", err)
	}

	l.Info("admin user created", "user_id", admin.ID)
	return true, nil
}
