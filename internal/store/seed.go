package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"cardapio-go/internal/auth"
	"cardapio-go/internal/model"
)

// SeedAdmin creates the initial admin account when the users table is
// empty. Safe to call on every startup.
func SeedAdmin(ctx context.Context, db *sql.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	users := NewUserStore(db)
	count, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("store: hashing seed admin password: %w", err)
	}

	user, err := users.Create(ctx, email, "Administrador", hash, model.RoleAdmin)
	if err != nil {
		return err
	}

	slog.Info("seeded admin user", "user_id", user.ID, "email", user.Email)
	return nil
}
