// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package lifecycle implements the article lifecycle engine: the editorial
// state machine, the placement and monetization policy applied at publish
// time, and the deferred-publish contract consumed by the scheduler.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/models"
	"newsdesk/internal/store"
)

// ArticleStore is the persistence surface the engine needs. The SQL
// implementation lives in internal/store; tests use an in-memory one.
type ArticleStore interface {
	// FindByID returns nil, nil when the article does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error)

	// Create inserts a new article.
	Create(ctx context.Context, a *models.Article) error

	// UpdateIfStatus writes the article only while its stored status still
	// equals expected, returning store.ErrConflict otherwise. This is the
	// compare-and-swap that serializes transitions per article.
	UpdateIfStatus(ctx context.Context, a *models.Article, expected models.Status) error
}

// Invalidator drops cached article payloads after a transition. May be nil.
type Invalidator interface {
	InvalidateArticle(ctx context.Context, id uuid.UUID)
}

// Engine applies lifecycle transitions atomically: load, validate against
// the pure rules in machine.go on a copy, then compare-and-swap the result.
// A failed precondition or a lost race leaves the stored article untouched.
type Engine struct {
	articles ArticleStore
	cache    Invalidator

	// Now is the clock used for publish timestamps and schedule checks.
	// Overridden in tests.
	Now func() time.Time
}

// NewEngine creates an Engine. cache may be nil when no payload cache is wired.
func NewEngine(articles ArticleStore, cache Invalidator) *Engine {
	return &Engine{articles: articles, cache: cache, Now: time.Now}
}

// CreateDraft makes a new draft article owned by the acting watcher.
func (e *Engine) CreateDraft(ctx context.Context, actor *models.User, title, body string, contentType models.ContentType) (*models.Article, error) {
	if !actor.IsStaff() {
		return nil, &AuthorizationError{Action: "create article", Reason: "watcher role required"}
	}
	if contentType != models.ContentTypeStandard && contentType != models.ContentTypeSummary {
		return nil, &ValidationError{Field: "content_type", Reason: "unknown content type " + string(contentType)}
	}
	a := models.NewArticle(actor.ID, title, body, contentType)
	if err := updateContent(a, actor, title, body); err != nil {
		return nil, err
	}
	if err := e.articles.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}
	return a, nil
}

// SubmitForReview moves a draft or rejected article into the review queue.
func (e *Engine) SubmitForReview(ctx context.Context, id uuid.UUID, actor *models.User) (*models.Article, error) {
	return e.transition(ctx, id, func(a *models.Article) error {
		return submit(a, actor)
	})
}

// Approve marks a pending article as ready to publish.
func (e *Engine) Approve(ctx context.Context, id uuid.UUID, actor *models.User) (*models.Article, error) {
	return e.transition(ctx, id, func(a *models.Article) error {
		return approve(a, actor)
	})
}

// Reject sends a pending article back to its author with a reason.
func (e *Engine) Reject(ctx context.Context, id uuid.UUID, actor *models.User, reason string) (*models.Article, error) {
	return e.transition(ctx, id, func(a *models.Article) error {
		return reject(a, actor, reason)
	})
}

// Publish makes an approved article live, or records a deferred publish when
// the options carry a future schedule.
func (e *Engine) Publish(ctx context.Context, id uuid.UUID, actor *models.User, opts PlacementOptions) (*models.Article, error) {
	return e.transition(ctx, id, func(a *models.Article) error {
		return publish(a, actor, opts, e.Now())
	})
}

// Unpublish takes a live article back to approved, keeping its placement.
func (e *Engine) Unpublish(ctx context.Context, id uuid.UUID, actor *models.User) (*models.Article, error) {
	return e.transition(ctx, id, func(a *models.Article) error {
		return unpublish(a, actor)
	})
}

// Archive demotes a published article out of the main feeds.
func (e *Engine) Archive(ctx context.Context, id uuid.UUID, actor *models.User) (*models.Article, error) {
	return e.transition(ctx, id, func(a *models.Article) error {
		return archive(a, actor)
	})
}

// UpdatePlacement re-runs the placement policy on a live article.
func (e *Engine) UpdatePlacement(ctx context.Context, id uuid.UUID, actor *models.User, opts PlacementOptions) (*models.Article, error) {
	return e.transition(ctx, id, func(a *models.Article) error {
		return updatePlacement(a, actor, opts)
	})
}

// UpdateContent lets the owning watcher edit a draft or rejected article.
func (e *Engine) UpdateContent(ctx context.Context, id uuid.UUID, actor *models.User, title, body string) (*models.Article, error) {
	return e.transition(ctx, id, func(a *models.Article) error {
		return updateContent(a, actor, title, body)
	})
}

// FireScheduledPublish completes a deferred publish once its instant has
// passed. Safe to call repeatedly: an already-published article is a no-op.
func (e *Engine) FireScheduledPublish(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	a, err := e.articles.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load article: %w", err)
	}
	if a == nil {
		return nil, &NotFoundError{ArticleID: id.String()}
	}
	if a.Status == models.StatusPublished {
		return a, nil
	}

	next := a.Clone()
	if err := fireScheduled(next, e.Now()); err != nil {
		return nil, err
	}
	if err := e.save(ctx, next, a.Status); err != nil {
		return nil, err
	}
	return next, nil
}

// transition runs one state-machine event as an atomic read-validate-write.
func (e *Engine) transition(ctx context.Context, id uuid.UUID, apply func(*models.Article) error) (*models.Article, error) {
	a, err := e.articles.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load article: %w", err)
	}
	if a == nil {
		return nil, &NotFoundError{ArticleID: id.String()}
	}

	next := a.Clone()
	if err := apply(next); err != nil {
		return nil, err
	}
	if err := e.save(ctx, next, a.Status); err != nil {
		return nil, err
	}
	return next, nil
}

// save performs the compare-and-swap write and invalidates cached payloads.
func (e *Engine) save(ctx context.Context, a *models.Article, expected models.Status) error {
	if err := e.articles.UpdateIfStatus(ctx, a, expected); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return &ConflictError{ArticleID: a.ID.String()}
		}
		return fmt.Errorf("save article: %w", err)
	}
	if e.cache != nil {
		e.cache.InvalidateArticle(ctx, a.ID)
	}
	return nil
}
