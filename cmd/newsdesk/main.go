// Package main is the entry point for the Newsdesk server.
// It loads configuration, connects to services, sets up routing, starts the
// deferred-publish poller, and runs the HTTP server with graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsdesk/internal/cache"
	"newsdesk/internal/config"
	"newsdesk/internal/database"
	"newsdesk/internal/handlers"
	"newsdesk/internal/lifecycle"
	"newsdesk/internal/router"
	"newsdesk/internal/scheduler"
	"newsdesk/internal/session"
	"newsdesk/internal/store"
)

func main() {
	// Structured logger — key-value text output.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Session store backed by Valkey. Cookies are HTTPS-only outside dev.
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Data stores.
	userStore := store.NewUserStore(db)
	articleStore := store.NewArticleStore(db)
	subscriptionStore := store.NewSubscriptionStore(db)

	// Article payload cache and the lifecycle engine that invalidates it.
	payloadCache := cache.NewArticleCache(valkeyClient, cache.DefaultArticleTTL)
	engine := lifecycle.NewEngine(articleStore, payloadCache)

	// Deferred-publish poller. An interval of zero means an external cron
	// drives the firing endpoint instead.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.SchedulerInterval > 0 {
		poller := scheduler.NewPoller(articleStore, engine, cfg.SchedulerInterval)
		poller.Start(ctx)
		defer poller.Stop()
	} else {
		slog.Info("in-process scheduler disabled — external cron expected")
	}

	// Handler groups with their dependencies.
	authHandlers := handlers.NewAuth(sessionStore, userStore, subscriptionStore)
	articleHandlers := handlers.NewArticles(engine, articleStore)
	publicHandlers := handlers.NewPublic(articleStore, subscriptionStore, payloadCache)
	adminHandlers := handlers.NewAdmin(userStore, subscriptionStore)

	// Chi router with all middleware and routes.
	r := router.New(sessionStore, authHandlers, articleHandlers, publicHandlers, adminHandlers)

	// HTTP server with sensible timeouts. All endpoints are short DB-bound
	// JSON calls.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
