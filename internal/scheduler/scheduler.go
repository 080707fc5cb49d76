// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package scheduler drives deferred publication. A ticker-based poller asks
// the article store for approved articles whose scheduled instant has
// passed and hands each one to the lifecycle engine. The engine owns the
// correctness rules (never early, idempotent on repeat), so the poller can
// overlap with an external cron hitting the firing endpoint without harm.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/models"
)

// dueBatchSize bounds how many due articles one sweep picks up.
const dueBatchSize = 50

// DueLister finds approved articles whose schedule has elapsed.
type DueLister interface {
	ListDueScheduled(ctx context.Context, limit int) ([]models.Article, error)
}

// Firer completes a single deferred publish. Implemented by the lifecycle
// engine; must be idempotent.
type Firer interface {
	FireScheduledPublish(ctx context.Context, id uuid.UUID) (*models.Article, error)
}

// Poller periodically sweeps for due scheduled publishes.
type Poller struct {
	articles DueLister
	engine   Firer
	interval time.Duration
	stop     chan struct{}
}

// NewPoller builds a poller that sweeps every interval.
func NewPoller(articles DueLister, engine Firer, interval time.Duration) *Poller {
	return &Poller{
		articles: articles,
		engine:   engine,
		interval: interval,
	}
}

// Start launches the polling goroutine. It runs one sweep immediately so a
// restart does not delay publishes that came due while the process was down.
func (p *Poller) Start(ctx context.Context) {
	if p.stop != nil {
		return
	}
	p.stop = make(chan struct{})

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.sweep(ctx)
		for {
			select {
			case <-ticker.C:
				p.sweep(ctx)
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			}
		}
	}()

	slog.Info("scheduled publish poller started", "interval", p.interval.String())
}

// Stop halts the polling goroutine.
func (p *Poller) Stop() {
	if p.stop == nil {
		return
	}
	close(p.stop)
	p.stop = nil
}

// sweep fires every due publish it can find. Individual failures are logged
// and skipped; the next sweep retries them.
func (p *Poller) sweep(ctx context.Context) {
	due, err := p.articles.ListDueScheduled(ctx, dueBatchSize)
	if err != nil {
		slog.Error("scheduled publish sweep failed", "error", err)
		return
	}

	for _, a := range due {
		if _, err := p.engine.FireScheduledPublish(ctx, a.ID); err != nil {
			slog.Error("scheduled publish fire failed", "article_id", a.ID, "error", err)
			continue
		}
		slog.Info("scheduled publish fired", "article_id", a.ID, "title", a.Title)
	}
}
