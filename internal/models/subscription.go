// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus is the billing state of a subscription record.
// Billing itself happens in an external payment system; this table only
// mirrors the facts the access decision needs.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Subscription grants a reader access to premium content until ExpiresAt.
type Subscription struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"user_id"`
	Status    SubscriptionStatus `json:"status"`
	ExpiresAt time.Time          `json:"expires_at"`
	CreatedAt time.Time          `json:"created_at"`
}

// ActiveAt reports whether the subscription grants access at the given instant.
// A canceled subscription keeps granting access until its paid period runs out.
func (s *Subscription) ActiveAt(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
