// Package searchcache caches full search results in Redis, keyed by a hash of
// the complete request (query, filters, page, page size). The corpus is
// immutable for the process lifetime, so cached entries never go stale; the
// TTL only bounds memory. Concurrent misses for the same key are collapsed
// with singleflight.
package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/scene-atlas/scene-search/internal/engine/searcher"
	"github.com/scene-atlas/scene-search/pkg/config"
	pkgredis "github.com/scene-atlas/scene-search/pkg/redis"
)

const keyPrefix = "scenesearch:"

// Cache is a Redis-backed query result cache.
type Cache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a Cache over an established Redis client.
func New(client *pkgredis.Client, cfg config.RedisConfig) *Cache {
	return &Cache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "search-cache"),
	}
}

// Get returns the cached result for req, if any. Redis errors degrade to a
// miss; caching is best-effort.
func (c *Cache) Get(ctx context.Context, req searcher.Request) (*searcher.Result, bool) {
	key := BuildKey(req)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var result searcher.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return &result, true
}

// Set stores a result for req with the configured TTL.
func (c *Cache) Set(ctx context.Context, req searcher.Request, result *searcher.Result) {
	key := BuildKey(req)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result for req or computes and caches it.
// The bool reports whether the result came from the cache.
func (c *Cache) GetOrCompute(
	ctx context.Context,
	req searcher.Request,
	computeFn func() (*searcher.Result, error),
) (*searcher.Result, bool, error) {
	if result, ok := c.Get(ctx, req); ok {
		return result, true, nil
	}
	key := BuildKey(req)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if result, ok := c.Get(ctx, req); ok {
			return result, nil
		}
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, req, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*searcher.Result), false, nil
}

// Invalidate drops every cached search result.
func (c *Cache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating search cache: %w", err)
	}
	c.logger.Info("search cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// BuildKey derives a stable cache key from every request field that affects
// the result. Identical requests always hash identically because the fields
// are serialised in a fixed order.
func BuildKey(req searcher.Request) string {
	f := req.Filters
	raw := fmt.Sprintf("q=%s\x00d=%s\x00i=%s\x00s=%s\x00a=%s\x00b=%s\x00e=%s\x00p=%s\x00page=%d\x00size=%d",
		req.Query,
		f.SceneDescription, f.SceneInterpretation,
		f.SpatialContext, f.ArchitecturalContext,
		f.BuildingTypes, f.ArchitecturalElems, f.Persons,
		req.Page, req.PageSize,
	)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
