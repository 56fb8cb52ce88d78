// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// fragment.go provides a Valkey-backed cache for rendered post bodies.
// Rendering is deterministic for a given body, so a post's HTML is cached
// under its ID and last-modified time; any edit produces a new key and the
// stale entry simply expires.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// fragmentKeyPrefix is the Valkey key prefix for rendered fragments.
	fragmentKeyPrefix = "fragment:"

	// versionKey holds the renderer version the cached fragments were made
	// with. It sits outside the fragment prefix so clearing keeps it.
	versionKey = "fragment-version"

	// DefaultFragmentTTL is how long a rendered fragment stays cached.
	DefaultFragmentTTL = 10 * time.Minute
)

// FragmentCache manages rendered HTML fragments in Valkey.
type FragmentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFragmentCache creates a new fragment cache backed by the given Valkey client.
func NewFragmentCache(client *redis.Client, ttl time.Duration) *FragmentCache {
	if ttl == 0 {
		ttl = DefaultFragmentTTL
	}
	return &FragmentCache{client: client, ttl: ttl}
}

// Key returns the cache key for a post revision.
func Key(id uuid.UUID, modified time.Time) string {
	return fmt.Sprintf("%s:%d", id, modified.UnixNano())
}

// Get retrieves cached HTML for a key. The bool is false on a miss or error.
func (fc *FragmentCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := fc.client.Get(ctx, fragmentKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		slog.Warn("fragment cache get error", "key", key, "error", err)
		return "", false
	}
	slog.Debug("fragment cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML for a key with the configured TTL.
func (fc *FragmentCache) Set(ctx context.Context, key, html string) {
	if err := fc.client.Set(ctx, fragmentKeyPrefix+key, html, fc.ttl).Err(); err != nil {
		slog.Warn("fragment cache set error", "key", key, "error", err)
	}
}

// Invalidate removes every cached revision of a post.
func (fc *FragmentCache) Invalidate(ctx context.Context, id uuid.UUID) {
	fc.deleteMatching(ctx, fragmentKeyPrefix+id.String()+":*")
}

// InvalidateAll removes all cached fragments by scanning for the prefix.
// Used when rendering options change, since any fragment could be affected.
func (fc *FragmentCache) InvalidateAll(ctx context.Context) {
	if deleted := fc.deleteMatching(ctx, fragmentKeyPrefix+"*"); deleted > 0 {
		slog.Info("fragment cache fully cleared", "deleted", deleted)
	}
}

// Reconcile clears every fragment when version differs from the one the
// cache was last filled with, then records version. Call it at startup
// with a string identifying the renderer options.
func (fc *FragmentCache) Reconcile(ctx context.Context, version string) error {
	old, err := fc.client.Get(ctx, versionKey).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("read fragment version: %w", err)
	}
	if old == version {
		return nil
	}
	slog.Info("renderer options changed, clearing fragments", "old", old, "new", version)
	fc.InvalidateAll(ctx)
	if err := fc.client.Set(ctx, versionKey, version, 0).Err(); err != nil {
		return fmt.Errorf("write fragment version: %w", err)
	}
	return nil
}

func (fc *FragmentCache) deleteMatching(ctx context.Context, pattern string) int {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := fc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("fragment cache scan error", "error", err)
			return deleted
		}
		if len(keys) > 0 {
			if err := fc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("fragment cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			return deleted
		}
	}
}
