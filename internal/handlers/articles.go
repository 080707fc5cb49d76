// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"newsdesk/internal/lifecycle"
	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/session"
	"newsdesk/internal/store"
)

// Articles groups the staff-facing workflow handlers: watchers draft and
// submit, moderators move articles through the state machine. Every
// decision is made by the lifecycle engine; these handlers only parse the
// request and translate the outcome.
type Articles struct {
	engine   *lifecycle.Engine
	articles *store.ArticleStore
}

// NewArticles creates a new Articles handler group.
func NewArticles(engine *lifecycle.Engine, articles *store.ArticleStore) *Articles {
	return &Articles{engine: engine, articles: articles}
}

// actorFromSession rebuilds the acting user from the session payload.
// The engine only needs identity and role to enforce its rules.
func actorFromSession(sess *session.Data) *models.User {
	return &models.User{ID: sess.UserID, Role: sess.Role}
}

// parseID extracts the article UUID from the URL. Returns uuid.Nil after
// writing a 400 when the value is not a UUID.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid article id"})
		return uuid.Nil, false
	}
	return id, true
}

type createArticleRequest struct {
	Title       string             `json:"title"`
	Body        string             `json:"body"`
	ContentType models.ContentType `json:"content_type"`
}

// Create makes a new draft owned by the logged-in watcher.
func (h *Articles) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req createArticleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ContentType == "" {
		req.ContentType = models.ContentTypeStandard
	}

	a, err := h.engine.CreateDraft(r.Context(), actorFromSession(sess), req.Title, req.Body, req.ContentType)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, a)
}

type updateArticleRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Update edits the title and body of a draft or rejected article. The
// engine refuses edits past those states even when the owner calls
// directly.
func (h *Articles) Update(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateArticleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	a, err := h.engine.UpdateContent(r.Context(), id, actorFromSession(sess), req.Title, req.Body)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

// Submit moves a draft or rejected article into the review queue.
func (h *Articles) Submit(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, h.engine.SubmitForReview)
}

// Approve marks a pending article ready to publish.
func (h *Articles) Approve(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, h.engine.Approve)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Reject sends a pending article back to its author with a reason.
func (h *Articles) Reject(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req rejectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	a, err := h.engine.Reject(r.Context(), id, actorFromSession(sess), req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

// Publish applies the placement options and either makes the article live
// now or records the deferred publish carried in the options.
func (h *Articles) Publish(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var opts lifecycle.PlacementOptions
	if !decodeBody(w, r, &opts) {
		return
	}

	a, err := h.engine.Publish(r.Context(), id, actorFromSession(sess), opts)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

// Unpublish takes a live article back to approved.
func (h *Articles) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, h.engine.Unpublish)
}

// Archive demotes a published article out of the main feeds.
func (h *Articles) Archive(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, h.engine.Archive)
}

// UpdatePlacement re-runs the placement policy on a live article without
// re-publishing it.
func (h *Articles) UpdatePlacement(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var opts lifecycle.PlacementOptions
	if !decodeBody(w, r, &opts) {
		return
	}

	a, err := h.engine.UpdatePlacement(r.Context(), id, actorFromSession(sess), opts)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

// FireScheduled completes a deferred publish. The in-process poller uses
// the engine directly; this endpoint exists for an external cron. Firing
// an already-published article succeeds as a no-op.
func (h *Articles) FireScheduled(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	a, err := h.engine.FireScheduledPublish(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

// Get returns the full article record for staff screens.
func (h *Articles) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	a, err := h.articles.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find article failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}
	if a == nil {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "article not found"})
		return
	}
	respondJSON(w, http.StatusOK, a)
}

// ListMine returns every article owned by the logged-in watcher.
func (h *Articles) ListMine(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	items, err := h.articles.ListByAuthor(r.Context(), sess.UserID)
	if err != nil {
		slog.Error("list own articles failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// ListByStatus returns the moderation view of articles in one status.
// Defaults to the pending queue.
func (h *Articles) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := models.Status(r.URL.Query().Get("status"))
	if status == "" {
		status = models.StatusPending
	}

	items, err := h.articles.ListByStatus(r.Context(), status)
	if err != nil {
		slog.Error("list articles by status failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// runTransition handles the body-less transition endpoints.
func (h *Articles) runTransition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID, actor *models.User) (*models.Article, error)) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	a, err := fn(r.Context(), id, actorFromSession(sess))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}
