// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Status represents an article's position in the editorial lifecycle.
// It is the single source of truth for what may happen to the article next.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// ContentType distinguishes full standard articles from short summary pieces.
// Fixed at creation; a summary is always subscriber-only and never placed in
// a section.
type ContentType string

const (
	ContentTypeStandard ContentType = "standard"
	ContentTypeSummary  ContentType = "summary"
)

// Section is the destination feed a standard article is published into.
type Section string

const (
	SectionEssential   Section = "essential"
	SectionGeneralFeed Section = "general_feed"
	SectionFocus       Section = "focus"
	SectionChronicle   Section = "chronicle"
)

// ValidSection reports whether s names a known section.
func ValidSection(s Section) bool {
	switch s {
	case SectionEssential, SectionGeneralFeed, SectionFocus, SectionChronicle:
		return true
	}
	return false
}

// Article is a news item moving through the editorial pipeline.
// Section is nil for summaries and for standard articles that have not been
// placed yet. RejectionReason is set exactly while Status is rejected.
type Article struct {
	ID                 uuid.UUID   `json:"id"`
	AuthorID           uuid.UUID   `json:"author_id"`
	Title              string      `json:"title"`
	Body               string      `json:"body"`
	Status             Status      `json:"status"`
	ContentType        ContentType `json:"content_type"`
	Section            *Section    `json:"section,omitempty"`
	IsPremium          bool        `json:"is_premium"`
	IsFeaturedHome     bool        `json:"is_featured_home"`
	IsArchive          bool        `json:"is_archive"`
	RejectionReason    *string     `json:"rejection_reason,omitempty"`
	ScheduledPublishAt *time.Time  `json:"scheduled_publish_at,omitempty"`
	PublishedAt        *time.Time  `json:"published_at,omitempty"`
	Views              int64       `json:"views"`
	Likes              int64       `json:"likes"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// NewArticle constructs a draft article. A summary is premium from birth and
// stays premium for its whole life.
func NewArticle(authorID uuid.UUID, title, body string, contentType ContentType) *Article {
	a := &Article{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       title,
		Body:        body,
		Status:      StatusDraft,
		ContentType: contentType,
	}
	if contentType == ContentTypeSummary {
		a.IsPremium = true
	}
	return a
}

// IsSummary reports whether the article is a summary piece.
func (a *Article) IsSummary() bool {
	return a.ContentType == ContentTypeSummary
}

// IsLive reports whether the article's content is publicly visible.
// Archived articles stay live, just demoted out of the main feeds.
func (a *Article) IsLive() bool {
	return a.Status == StatusPublished || a.Status == StatusArchived
}

// Editable reports whether the owning watcher may still change title and body.
// Once an article enters review the content is frozen until a moderator sends
// it back.
func (a *Article) Editable() bool {
	return a.Status == StatusDraft || a.Status == StatusRejected
}

// Clone returns a deep copy. Transitions mutate a copy so a failed
// precondition leaves the loaded record untouched.
func (a *Article) Clone() *Article {
	c := *a
	if a.Section != nil {
		s := *a.Section
		c.Section = &s
	}
	if a.RejectionReason != nil {
		r := *a.RejectionReason
		c.RejectionReason = &r
	}
	if a.ScheduledPublishAt != nil {
		t := *a.ScheduledPublishAt
		c.ScheduledPublishAt = &t
	}
	if a.PublishedAt != nil {
		t := *a.PublishedAt
		c.PublishedAt = &t
	}
	return &c
}
