// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"newsdesk/internal/access"
	"newsdesk/internal/cache"
	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/store"
)

// Public groups the reader-facing handlers. Every read re-runs the access
// decision with fresh subscription facts, and the body a denied viewer
// receives is cut server-side — the remainder never leaves the process.
type Public struct {
	articles      *store.ArticleStore
	subscriptions *store.SubscriptionStore
	payloadCache  *cache.ArticleCache
}

// NewPublic creates a new Public handler group. payloadCache may be nil.
func NewPublic(articles *store.ArticleStore, subscriptions *store.SubscriptionStore, payloadCache *cache.ArticleCache) *Public {
	return &Public{
		articles:      articles,
		subscriptions: subscriptions,
		payloadCache:  payloadCache,
	}
}

// publicArticle is the full rendition served to viewers who pass the
// access check.
type publicArticle struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Body           string          `json:"body"`
	Section        *models.Section `json:"section,omitempty"`
	ContentType    string          `json:"content_type"`
	IsPremium      bool            `json:"is_premium"`
	IsFeaturedHome bool            `json:"is_featured_home"`
	IsArchive      bool            `json:"is_archive"`
	PublishedAt    *time.Time      `json:"published_at"`
	Views          int64           `json:"views"`
	Likes          int64           `json:"likes"`
	Access         string          `json:"access"`
}

// previewArticle is the bounded rendition served on a denied decision.
type previewArticle struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Preview     string          `json:"preview"`
	Section     *models.Section `json:"section,omitempty"`
	ContentType string          `json:"content_type"`
	IsPremium   bool            `json:"is_premium"`
	PublishedAt *time.Time      `json:"published_at"`
	Access      string          `json:"access"`
	Prompt      string          `json:"prompt"`
}

// viewerFromRequest assembles the access inputs: identity from the session,
// the subscription fact from a fresh store lookup. Staff never need the
// subscription check.
func (p *Public) viewerFromRequest(r *http.Request) access.Viewer {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		return access.Viewer{IsAuthenticated: false, Role: models.RoleReader}
	}

	v := access.Viewer{IsAuthenticated: true, Role: sess.Role}
	if !sess.IsStaff() {
		active, err := p.subscriptions.HasActive(sess.UserID, time.Now())
		if err != nil {
			// Fail closed: a lookup error never grants premium access.
			slog.Error("subscription lookup failed", "error", err)
			active = false
		}
		v.HasActiveSubscription = active
	}
	return v
}

// Get serves one live article, deciding per request whether the viewer
// receives the full content or the preview rendition.
func (p *Public) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	a, err := p.articles.FindByID(ctx, id)
	if err != nil {
		slog.Error("find article failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}
	if a == nil || !a.IsLive() {
		// Unpublished articles are invisible to the public, not forbidden.
		respondJSON(w, http.StatusNotFound, errorBody{Error: "article not found"})
		return
	}

	if err := p.articles.IncrementViews(ctx, a.ID); err != nil {
		slog.Warn("increment views failed", "article_id", a.ID, "error", err)
	}

	result := access.Decide(a.IsPremium, p.viewerFromRequest(r))
	if result.Decision == access.FullContent {
		p.serveRendition(w, ctx, a, cache.RenditionFull, result)
		return
	}
	p.serveRendition(w, ctx, a, cache.RenditionPreview, result)
}

// serveRendition writes the cached payload for the rendition, building and
// caching it on miss. The prompt varies per viewer and is patched into the
// preview payload after the cache, so one cached preview serves both the
// login and the subscribe prompt.
func (p *Public) serveRendition(w http.ResponseWriter, ctx context.Context, a *models.Article, rend cache.Rendition, result access.Result) {
	if p.payloadCache != nil {
		if payload, ok := p.payloadCache.Get(ctx, a.ID, rend); ok {
			writeCachedRendition(w, payload, rend, result)
			return
		}
	}

	var payload []byte
	var err error
	if rend == cache.RenditionFull {
		payload, err = json.Marshal(fullRendition(a))
	} else {
		payload, err = json.Marshal(previewRendition(a))
	}
	if err != nil {
		slog.Error("article marshal failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	if p.payloadCache != nil {
		p.payloadCache.Set(ctx, a.ID, rend, payload)
	}
	writeCachedRendition(w, payload, rend, result)
}

func fullRendition(a *models.Article) publicArticle {
	return publicArticle{
		ID:             a.ID.String(),
		Title:          a.Title,
		Body:           a.Body,
		Section:        a.Section,
		ContentType:    string(a.ContentType),
		IsPremium:      a.IsPremium,
		IsFeaturedHome: a.IsFeaturedHome,
		IsArchive:      a.IsArchive,
		PublishedAt:    a.PublishedAt,
		Views:          a.Views,
		Likes:          a.Likes,
		Access:         string(access.FullContent),
	}
}

func previewRendition(a *models.Article) previewArticle {
	return previewArticle{
		ID:          a.ID.String(),
		Title:       a.Title,
		Preview:     access.Preview(a.Body),
		Section:     a.Section,
		ContentType: string(a.ContentType),
		IsPremium:   a.IsPremium,
		PublishedAt: a.PublishedAt,
		Access:      string(access.Denied),
	}
}

// writeCachedRendition emits the payload; for previews the per-viewer
// prompt is injected into the cached JSON.
func writeCachedRendition(w http.ResponseWriter, payload []byte, rend cache.Rendition, result access.Result) {
	if rend == cache.RenditionPreview {
		var pv previewArticle
		if err := json.Unmarshal(payload, &pv); err == nil {
			pv.Prompt = string(result.Prompt)
			respondJSON(w, http.StatusOK, pv)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// feedItem is the section-feed listing entry. Bodies stay out of feeds
// entirely, premium or not.
type feedItem struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	IsPremium      bool       `json:"is_premium"`
	IsFeaturedHome bool       `json:"is_featured_home"`
	PublishedAt    *time.Time `json:"published_at"`
	Views          int64      `json:"views"`
	Likes          int64      `json:"likes"`
}

// SectionFeed lists published articles in one section, newest first.
func (p *Public) SectionFeed(w http.ResponseWriter, r *http.Request) {
	section := models.Section(chi.URLParam(r, "section"))
	if !models.ValidSection(section) {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "unknown section"})
		return
	}

	items, err := p.articles.ListPublishedBySection(r.Context(), section)
	if err != nil {
		slog.Error("section feed failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	feed := make([]feedItem, 0, len(items))
	for _, a := range items {
		feed = append(feed, feedItem{
			ID:             a.ID.String(),
			Title:          a.Title,
			IsPremium:      a.IsPremium,
			IsFeaturedHome: a.IsFeaturedHome,
			PublishedAt:    a.PublishedAt,
			Views:          a.Views,
			Likes:          a.Likes,
		})
	}
	respondJSON(w, http.StatusOK, feed)
}

// Like bumps the like counter for a live article. Requires a session.
func (p *Public) Like(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	a, err := p.articles.FindByID(ctx, id)
	if err != nil {
		slog.Error("find article failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}
	if a == nil || !a.IsLive() {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "article not found"})
		return
	}

	if err := p.articles.IncrementLikes(ctx, a.ID); err != nil {
		slog.Error("increment likes failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
