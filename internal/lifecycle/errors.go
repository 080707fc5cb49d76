// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package lifecycle

import (
	"fmt"

	"newsdesk/internal/models"
)

// ValidationError marks a structurally invalid request: a missing rejection
// reason, a standard article published without a section, a schedule set in
// the past. Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IllegalTransitionError marks an event that is not legal from the article's
// current status. The caller should reload the article before retrying.
type IllegalTransitionError struct {
	From  models.Status
	Event string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot %s an article in status %q", e.Event, e.From)
}

// AuthorizationError marks an actor whose role or ownership is insufficient
// for the requested action. Always fatal to the current request.
type AuthorizationError struct {
	Action string
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not allowed to %s: %s", e.Action, e.Reason)
}

// NotFoundError marks an article ID that does not exist.
type NotFoundError struct {
	ArticleID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("article %s not found", e.ArticleID)
}

// ConflictError marks a concurrent modification detected at save time.
// The caller should reload and retry; the losing write is never merged.
type ConflictError struct {
	ArticleID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("article %s was modified concurrently", e.ArticleID)
}
