// Package router sets up all HTTP routes and middleware chains for the
// Newsdesk server. It organizes routes into public, auth, staff, and admin
// groups with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"newsdesk/internal/handlers"
	"newsdesk/internal/middleware"
	"newsdesk/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, auth *handlers.Auth, articles *handlers.Articles, public *handlers.Public, admin *handlers.Admin) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request. Sessions load before
	// the logger so requests get attributed to their account.
	r.Use(middleware.Recoverer)
	r.Use(middleware.LoadSession(sessionStore))
	r.Use(middleware.Logger)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Authentication. Login attempts are rate-limited per IP.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	r.Route("/auth", func(r chi.Router) {
		r.With(loginLimiter.Middleware).Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)
		r.Get("/me", auth.Me)

		// 2FA — requires a session but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/verify", auth.TwoFAVerify)
		})
	})

	// Staff workflow — authenticated, 2FA-verified staff only.
	r.Route("/api/articles", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireStaff)

		// Watcher surface.
		r.Post("/", articles.Create)
		r.Get("/mine", articles.ListMine)
		r.Get("/{id}", articles.Get)
		r.Put("/{id}", articles.Update)
		r.Post("/{id}/submit", articles.Submit)

		// Moderator surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireModerator)
			r.Get("/", articles.ListByStatus)
			r.Post("/{id}/approve", articles.Approve)
			r.Post("/{id}/reject", articles.Reject)
			r.Post("/{id}/publish", articles.Publish)
			r.Post("/{id}/unpublish", articles.Unpublish)
			r.Post("/{id}/archive", articles.Archive)
			r.Put("/{id}/placement", articles.UpdatePlacement)
			r.Post("/{id}/fire-scheduled", articles.FireScheduled)
		})
	})

	// Account management — admin only.
	r.Route("/api/users", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireAdmin)
		r.Get("/", admin.UsersList)
		r.Post("/{id}/reset-2fa", admin.UserResetTwoFA)
		r.Put("/{id}/subscription", admin.RecordSubscription)
	})

	// Public reads — anonymous allowed; the access decision runs inside.
	r.Get("/articles/{id}", public.Get)
	r.Get("/sections/{section}", public.SectionFeed)
	r.With(middleware.RequireAuth).Post("/articles/{id}/like", public.Like)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
