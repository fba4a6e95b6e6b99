package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Superuser describes the bootstrap administrator account.
type Superuser struct {
	Email       string
	Password    string
	DisplayName string
}

// ErrIncompleteSuperuser is returned when only one of email and password
// was configured.
var ErrIncompleteSuperuser = errors.New("superuser email and password must both be set")

// Seed creates the bootstrap superuser if it does not exist yet. An empty
// Superuser is a no-op. The admin is prompted to set up 2FA on first login
// (totp_enabled = false).
func Seed(ctx context.Context, db *sql.DB, su Superuser) error {
	su.Email = strings.ToLower(strings.TrimSpace(su.Email))
	if su.Email == "" && su.Password == "" {
		slog.Info("no superuser configured, skipping seed")
		return nil
	}
	if su.Email == "" || su.Password == "" {
		return ErrIncompleteSuperuser
	}

	var exists bool
	err := db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", su.Email,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("seed check superuser: %w", err)
	}
	if exists {
		slog.Info("superuser already exists, skipping", "email", su.Email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	name := su.DisplayName
	if name == "" {
		name = "Admin"
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, su.Email, string(hash), name, "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert superuser: %w", err)
	}

	slog.Info("superuser created", "email", su.Email)
	return nil
}
