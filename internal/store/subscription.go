// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/models"
)

// SubscriptionStore reads the subscription facts mirrored from the external
// billing system. The access decision asks it one question: does this user
// have an unexpired subscription right now.
type SubscriptionStore struct {
	db *sql.DB
}

// NewSubscriptionStore creates a new SubscriptionStore.
func NewSubscriptionStore(db *sql.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

// HasActive reports whether the user holds a subscription that has not
// expired. Checked on every premium read, never cached in-process, so a
// subscription change takes effect on the next request.
func (s *SubscriptionStore) HasActive(userID uuid.UUID, now time.Time) (bool, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM subscriptions
		WHERE user_id = $1 AND expires_at > $2
	`, userID, now).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check active subscription: %w", err)
	}
	return count > 0, nil
}

// FindByUser returns the user's most recent subscription. Returns nil if
// the user never subscribed.
func (s *SubscriptionStore) FindByUser(userID uuid.UUID) (*models.Subscription, error) {
	sub := &models.Subscription{}
	err := s.db.QueryRow(`
		SELECT id, user_id, status, expires_at, created_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY expires_at DESC
		LIMIT 1
	`, userID).Scan(&sub.ID, &sub.UserID, &sub.Status, &sub.ExpiresAt, &sub.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription by user: %w", err)
	}
	return sub, nil
}

// Upsert records a subscription fact pushed by the billing webhook.
func (s *SubscriptionStore) Upsert(sub *models.Subscription) error {
	_, err := s.db.Exec(`
		INSERT INTO subscriptions (id, user_id, status, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET status = $3, expires_at = $4
	`, sub.ID, sub.UserID, sub.Status, sub.ExpiresAt)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}
