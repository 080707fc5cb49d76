// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"newsdesk/internal/models"
)

// ErrConflict is returned by UpdateIfStatus when a concurrent transition
// changed the article's status between read and write.
var ErrConflict = errors.New("concurrent article modification")

const articleColumns = `id, author_id, title, body, status, content_type, section,
	       is_premium, is_featured_home, is_archive, rejection_reason,
	       scheduled_publish_at, published_at, views, likes, created_at, updated_at`

// ArticleStore handles all article-related database operations.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// Create inserts a new article.
func (s *ArticleStore) Create(ctx context.Context, a *models.Article) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO articles (id, author_id, title, body, status, content_type, section,
		                      is_premium, is_featured_home, is_archive, rejection_reason,
		                      scheduled_publish_at, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`, a.ID, a.AuthorID, a.Title, a.Body, a.Status, a.ContentType, a.Section,
		a.IsPremium, a.IsFeaturedHome, a.IsArchive, a.RejectionReason,
		a.ScheduledPublishAt, a.PublishedAt,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

// FindByID retrieves an article by its UUID. Returns nil if not found.
func (s *ArticleStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	a := &models.Article{}
	err := s.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles WHERE id = $1
	`, id).Scan(
		&a.ID, &a.AuthorID, &a.Title, &a.Body, &a.Status, &a.ContentType, &a.Section,
		&a.IsPremium, &a.IsFeaturedHome, &a.IsArchive, &a.RejectionReason,
		&a.ScheduledPublishAt, &a.PublishedAt, &a.Views, &a.Likes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return a, nil
}

// UpdateIfStatus writes every lifecycle-derived attribute in one statement,
// guarded by the status the caller read. Zero affected rows means a
// concurrent transition won the race and the caller gets ErrConflict.
// Views and likes are deliberately not written here; the counters move only
// through their own increment statements.
func (s *ArticleStore) UpdateIfStatus(ctx context.Context, a *models.Article, expected models.Status) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE articles SET
			title = $1, body = $2, status = $3, section = $4,
			is_premium = $5, is_featured_home = $6, is_archive = $7,
			rejection_reason = $8, scheduled_publish_at = $9, published_at = $10,
			updated_at = NOW()
		WHERE id = $11 AND status = $12
	`, a.Title, a.Body, a.Status, a.Section,
		a.IsPremium, a.IsFeaturedHome, a.IsArchive,
		a.RejectionReason, a.ScheduledPublishAt, a.PublishedAt,
		a.ID, expected,
	)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update article rows: %w", err)
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// ListByStatus returns articles in the given status, newest first.
// Used by the moderation queue and the watcher's own article list.
func (s *ArticleStore) ListByStatus(ctx context.Context, status models.Status) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE status = $1
		ORDER BY created_at DESC
	`, status)
	if err != nil {
		return nil, fmt.Errorf("list articles by status: %w", err)
	}
	return scanArticles(rows)
}

// ListByAuthor returns every article owned by the given watcher, newest first.
func (s *ArticleStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE author_id = $1
		ORDER BY created_at DESC
	`, authorID)
	if err != nil {
		return nil, fmt.Errorf("list articles by author: %w", err)
	}
	return scanArticles(rows)
}

// ListPublishedBySection returns live articles placed in the given section,
// most recently published first. Archived articles are excluded from the
// section feeds but stay reachable by ID.
func (s *ArticleStore) ListPublishedBySection(ctx context.Context, section models.Section) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE status = 'published' AND section = $1
		ORDER BY published_at DESC NULLS LAST
	`, section)
	if err != nil {
		return nil, fmt.Errorf("list published by section: %w", err)
	}
	return scanArticles(rows)
}

// ListDueScheduled returns approved articles whose scheduled publish instant
// has passed. The scheduler poller feeds these to the lifecycle engine.
func (s *ArticleStore) ListDueScheduled(ctx context.Context, limit int) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE status = 'approved'
		  AND scheduled_publish_at IS NOT NULL
		  AND scheduled_publish_at <= NOW()
		ORDER BY scheduled_publish_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list due scheduled: %w", err)
	}
	return scanArticles(rows)
}

// IncrementViews bumps the view counter. The counter only ever grows.
func (s *ArticleStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `UPDATE articles SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// IncrementLikes bumps the like counter.
func (s *ArticleStore) IncrementLikes(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `UPDATE articles SET likes = likes + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment likes: %w", err)
	}
	return nil
}

// Delete removes an article by ID. Only drafts are ever deleted.
func (s *ArticleStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

func scanArticles(rows *sql.Rows) ([]models.Article, error) {
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(
			&a.ID, &a.AuthorID, &a.Title, &a.Body, &a.Status, &a.ContentType, &a.Section,
			&a.IsPremium, &a.IsFeaturedHome, &a.IsArchive, &a.RejectionReason,
			&a.ScheduledPublishAt, &a.PublishedAt, &a.Views, &a.Likes, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
