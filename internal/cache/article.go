// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// article.go provides a Valkey-backed cache of serialized public article
// payloads. Full and preview renditions are cached under separate keys so a
// denied viewer can never be served bytes rendered for a subscriber. Every
// lifecycle transition and placement update invalidates both keys.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// articleKeyPrefix namespaces article payload keys in Valkey.
	articleKeyPrefix = "article:"

	// DefaultArticleTTL is how long a serialized payload stays cached.
	DefaultArticleTTL = 5 * time.Minute
)

// Rendition names which serialization of the article is cached.
type Rendition string

const (
	RenditionFull    Rendition = "full"
	RenditionPreview Rendition = "preview"
)

// ArticleCache manages serialized article payloads in Valkey.
type ArticleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewArticleCache creates an article payload cache backed by the given
// Valkey client.
func NewArticleCache(client *redis.Client, ttl time.Duration) *ArticleCache {
	if ttl == 0 {
		ttl = DefaultArticleTTL
	}
	return &ArticleCache{client: client, ttl: ttl}
}

// Get retrieves a cached payload. Returns false on miss.
func (ac *ArticleCache) Get(ctx context.Context, id uuid.UUID, r Rendition) ([]byte, bool) {
	val, err := ac.client.Get(ctx, key(id, r)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("article cache get error", "id", id, "rendition", r, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a serialized payload with the configured TTL.
func (ac *ArticleCache) Set(ctx context.Context, id uuid.UUID, r Rendition, payload []byte) {
	if err := ac.client.Set(ctx, key(id, r), payload, ac.ttl).Err(); err != nil {
		slog.Warn("article cache set error", "id", id, "rendition", r, "error", err)
	}
}

// InvalidateArticle drops both renditions of an article. Called by the
// lifecycle engine after every successful transition.
func (ac *ArticleCache) InvalidateArticle(ctx context.Context, id uuid.UUID) {
	keys := []string{key(id, RenditionFull), key(id, RenditionPreview)}
	if err := ac.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("article cache invalidate error", "id", id, "error", err)
	}
	slog.Debug("article cache invalidated", "id", id)
}

func key(id uuid.UUID, r Rendition) string {
	return articleKeyPrefix + id.String() + ":" + string(r)
}
