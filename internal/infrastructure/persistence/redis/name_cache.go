package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vigetlabs/slackfit/internal/domain/leaderboard"
)

// nameKeyPrefix namespaces display-name keys.
const nameKeyPrefix = "slackfit:name:"

// DefaultNameTTL is how long a resolved display name stays cached.
// Names change rarely; a day keeps leaderboard renders cheap without
// pinning a stale rename for long.
const DefaultNameTTL = 24 * time.Hour

// NameCache decorates a leaderboard.NameResolver with Redis caching.
// Cache failures degrade to the inner resolver: a broken Redis never
// breaks a leaderboard render.
type NameCache struct {
	cache  *Cache
	inner  leaderboard.NameResolver
	ttl    time.Duration
	logger *slog.Logger
}

var _ leaderboard.NameResolver = (*NameCache)(nil)

// NewNameCache creates a caching resolver around inner.
func NewNameCache(cache *Cache, inner leaderboard.NameResolver, ttl time.Duration, logger *slog.Logger) *NameCache {
	if ttl <= 0 {
		ttl = DefaultNameTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NameCache{
		cache:  cache,
		inner:  inner,
		ttl:    ttl,
		logger: logger,
	}
}

// ResolveDisplayName returns the cached name for userID, resolving and
// caching on a miss.
func (n *NameCache) ResolveDisplayName(ctx context.Context, userID string) (string, error) {
	key := nameKeyPrefix + userID

	name, err := n.cache.Get(ctx, key)
	if err == nil {
		return name, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		n.logger.Warn("name cache read failed", "user", userID, "error", err)
	}

	name, err = n.inner.ResolveDisplayName(ctx, userID)
	if err != nil {
		return "", err
	}

	if err := n.cache.Set(ctx, key, name, n.ttl); err != nil {
		n.logger.Warn("name cache write failed", "user", userID, "error", err)
	}
	return name, nil
}

// Invalidate drops the cached name for userID, forcing re-resolution on
// the next lookup.
func (n *NameCache) Invalidate(ctx context.Context, userID string) error {
	return n.cache.Delete(ctx, nameKeyPrefix+userID)
}
