// Package cache provides caching decorators for read-heavy usecases.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"moneymate_backend/internal/feature/analytics/domain/entity"
)

// AnalyticsProvider is the read surface being decorated.
type AnalyticsProvider interface {
	GetAnalytics(ctx context.Context, userID uint, period string) (*entity.Analytics, error)
	GetSuggestions(ctx context.Context, userID uint) ([]string, error)
}

// CachingAnalytics decorates an AnalyticsProvider with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying usecase. It also serves as the cache invalidator
// the ledger calls after each write.
type CachingAnalytics struct {
	inner     AnalyticsProvider
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingAnalytics decorates an AnalyticsProvider with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "analytics".
func NewCachingAnalytics(rdb *redis.Client, ttl time.Duration, inner AnalyticsProvider, namespace string) *CachingAnalytics {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "analytics"
	}
	return &CachingAnalytics{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// GetAnalytics retrieves the analytics projection, checking cache first then
// falling back to the underlying usecase.
func (c *CachingAnalytics) GetAnalytics(ctx context.Context, userID uint, period string) (*entity.Analytics, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.GetAnalytics(ctx, userID, period)
	}

	key := c.cacheKey(userID, period)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.Analytics
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the usecase
	out, err := c.inner.GetAnalytics(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// GetSuggestions passes through to the underlying usecase. Suggestions are
// cheap to compute and always reflect the latest ledger state.
func (c *CachingAnalytics) GetSuggestions(ctx context.Context, userID uint) ([]string, error) {
	return c.inner.GetSuggestions(ctx, userID)
}

// InvalidateUser deletes every cached period for one user. Called by the
// ledger after each write; best effort.
func (c *CachingAnalytics) InvalidateUser(ctx context.Context, userID uint) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, fmt.Sprintf("%s:%d:*", c.namespace, userID))
}

// cacheKey generates a cache key for a specific query.
func (c *CachingAnalytics) cacheKey(userID uint, period string) string {
	return fmt.Sprintf("%s:%d:%s", c.namespace, userID, period)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingAnalytics) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
