// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// machine.go holds the pure transition rules of the editorial state machine.
// Every function mutates the article it is handed and returns a typed error
// when the event is not legal; the Engine clones before calling so a failed
// transition never leaks partial state.
package lifecycle

import (
	"strings"
	"time"

	"newsdesk/internal/models"
)

// submit moves a draft or rejected article into the review queue.
// Only the owning watcher may submit; resubmission clears the rejection
// reason left by the previous review round.
func submit(a *models.Article, actor *models.User) error {
	if actor.ID != a.AuthorID {
		return &AuthorizationError{Action: "submit", Reason: "only the owning watcher may submit"}
	}
	if a.Status != models.StatusDraft && a.Status != models.StatusRejected {
		return &IllegalTransitionError{From: a.Status, Event: "submit"}
	}
	a.Status = models.StatusPending
	a.RejectionReason = nil
	return nil
}

// approve moves a pending article to approved, making it publishable.
func approve(a *models.Article, actor *models.User) error {
	if !actor.CanModerate() {
		return &AuthorizationError{Action: "approve", Reason: "moderator role required"}
	}
	if a.Status != models.StatusPending {
		return &IllegalTransitionError{From: a.Status, Event: "approve"}
	}
	a.Status = models.StatusApproved
	return nil
}

// reject sends a pending article back to its author with a reason.
func reject(a *models.Article, actor *models.User, reason string) error {
	if !actor.CanModerate() {
		return &AuthorizationError{Action: "reject", Reason: "moderator role required"}
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return &ValidationError{Field: "reason", Reason: "a rejection needs a non-empty reason"}
	}
	if a.Status != models.StatusPending {
		return &IllegalTransitionError{From: a.Status, Event: "reject"}
	}
	a.Status = models.StatusRejected
	a.RejectionReason = &reason
	return nil
}

// publish applies the placement decision and either makes the article live
// immediately or records a deferred publish for the scheduler to fire.
// Calling it again on an approved article with a new schedule reschedules.
func publish(a *models.Article, actor *models.User, opts PlacementOptions, now time.Time) error {
	if !actor.CanModerate() {
		return &AuthorizationError{Action: "publish", Reason: "moderator role required"}
	}
	if a.Status != models.StatusApproved {
		return &IllegalTransitionError{From: a.Status, Event: "publish"}
	}

	if opts.IsScheduled {
		if opts.ScheduledPublishAt == nil {
			return &ValidationError{Field: "scheduled_publish_at", Reason: "a scheduled publish needs a timestamp"}
		}
		if !opts.ScheduledPublishAt.After(now) {
			return &ValidationError{Field: "scheduled_publish_at", Reason: "the scheduled instant must be in the future"}
		}
		// Capture the placement now so firing later is identical to an
		// immediate publish with these options.
		if err := applyPlacement(a, opts); err != nil {
			return err
		}
		t := *opts.ScheduledPublishAt
		a.ScheduledPublishAt = &t
		return nil
	}

	if err := applyPlacement(a, opts); err != nil {
		return err
	}
	return goLive(a, now)
}

// fireScheduled completes a deferred publish. Firing an already-published
// article is a no-op so the scheduler may retry freely; firing early is
// refused.
func fireScheduled(a *models.Article, now time.Time) error {
	if a.Status == models.StatusPublished {
		return nil
	}
	if a.Status != models.StatusApproved || a.ScheduledPublishAt == nil {
		return &IllegalTransitionError{From: a.Status, Event: "fire scheduled publish"}
	}
	if now.Before(*a.ScheduledPublishAt) {
		return &ValidationError{Field: "scheduled_publish_at", Reason: "the scheduled instant has not been reached"}
	}
	// Placement was captured at schedule time; nothing left to resolve.
	return goLive(a, now)
}

// goLive flips the article to published and consumes any pending schedule.
func goLive(a *models.Article, now time.Time) error {
	a.Status = models.StatusPublished
	a.ScheduledPublishAt = nil
	if a.PublishedAt == nil {
		t := now
		a.PublishedAt = &t
	}
	return nil
}

// unpublish takes a live article off the site, back to approved.
// Placement survives so a later re-publish restores the same feeds.
func unpublish(a *models.Article, actor *models.User) error {
	if !actor.CanModerate() {
		return &AuthorizationError{Action: "unpublish", Reason: "moderator role required"}
	}
	if a.Status != models.StatusPublished {
		return &IllegalTransitionError{From: a.Status, Event: "unpublish"}
	}
	a.Status = models.StatusApproved
	a.PublishedAt = nil
	return nil
}

// archive demotes a published article out of the main feeds while keeping
// its content live.
func archive(a *models.Article, actor *models.User) error {
	if !actor.CanModerate() {
		return &AuthorizationError{Action: "archive", Reason: "moderator role required"}
	}
	if a.Status != models.StatusPublished {
		return &IllegalTransitionError{From: a.Status, Event: "archive"}
	}
	a.Status = models.StatusArchived
	return nil
}

// updatePlacement re-runs the placement rules on a live article without
// touching the lifecycle position or the publish timestamp.
func updatePlacement(a *models.Article, actor *models.User, opts PlacementOptions) error {
	if !actor.CanModerate() {
		return &AuthorizationError{Action: "update placement", Reason: "moderator role required"}
	}
	if !a.IsLive() {
		return &IllegalTransitionError{From: a.Status, Event: "update placement"}
	}
	return applyPlacement(a, opts)
}

// updateContent lets the owning watcher edit title and body while the
// article is still a draft or rejected. Content is frozen from submission
// until a moderator sends it back.
func updateContent(a *models.Article, actor *models.User, title, body string) error {
	if actor.ID != a.AuthorID {
		return &AuthorizationError{Action: "edit", Reason: "only the owning watcher may edit"}
	}
	if !a.Editable() {
		return &AuthorizationError{Action: "edit", Reason: "article is in review or live and can no longer be edited"}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return &ValidationError{Field: "title", Reason: "title is required"}
	}
	a.Title = title
	a.Body = body
	return nil
}
