package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/hus-nain/portfolio-go/internal/auth"
	"github.com/hus-nain/portfolio-go/internal/model"
)

// Seed provisions the initial data the application needs to serve requests:
// the singleton profile row and, when credentials are configured and the users
// table is empty, the admin user. Both steps are idempotent.
func Seed(ctx context.Context, db *sql.DB, adminUsername, adminEmail, adminPassword string) error {
	queries := New(db)

	if _, err := queries.EnsureProfile(ctx, model.DefaultProfile()); err != nil {
		return fmt.Errorf("ensuring profile: %w", err)
	}

	count, err := queries.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		return nil
	}

	if adminEmail == "" || adminPassword == "" {
		slog.Warn("no users exist and no admin credentials configured; admin panel will be unreachable",
			"hint", "set PORTFOLIO_ADMIN_EMAIL and PORTFOLIO_ADMIN_PASSWORD")
		return nil
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Username:     adminUsername,
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("admin user created", "email", user.Email, "username", user.Username)
	return nil
}
