package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: one account
// per role plus an active subscription for the reader, so every paywall
// path can be exercised locally. Staff accounts are prompted to set up 2FA
// on first login (totp_enabled = false).
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	accounts := []struct {
		email, name, role string
	}{
		{"admin@newsdesk.local", "Admin", "admin"},
		{"moderator@newsdesk.local", "Moderator", "moderator"},
		{"watcher@newsdesk.local", "Watcher", "watcher"},
		{"reader@newsdesk.local", "Reader", "reader"},
	}

	for _, acc := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.role), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed bcrypt: %w", err)
		}
		_, err = db.Exec(`
			INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
			VALUES ($1, $2, $3, $4, $5)
		`, acc.email, string(hash), acc.name, acc.role, false)
		if err != nil {
			return fmt.Errorf("seed insert %s: %w", acc.role, err)
		}
	}

	// Give the reader a year of premium access so the paywall's happy path
	// works out of the box.
	_, err := db.Exec(`
		INSERT INTO subscriptions (user_id, status, expires_at)
		SELECT id, 'active', NOW() + INTERVAL '1 year' FROM users WHERE email = $1
	`, "reader@newsdesk.local")
	if err != nil {
		return fmt.Errorf("seed insert subscription: %w", err)
	}

	slog.Info("database seeded with development accounts",
		"emails", "admin/moderator/watcher/reader@newsdesk.local",
		"password", "same as role name",
	)

	return nil
}
