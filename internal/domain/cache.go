// internal/domain/cache.go
//
// Time-bounded snapshot cache for the domain-mapping table.
//
// Context
// -------
// Every inbound request consults the full mapping set, so the set is held
// in process and reloaded lazily when the TTL lapses.  Staleness is
// preferred over unavailability: if a refresh fails and a prior snapshot
// exists (even an expired one), the old snapshot stays authoritative and
// the failure is logged.  Only a process that has never loaded a snapshot
// serves an empty set.
//
// Concurrency
// -----------
// Readers take an RLock and copy the slice header; the refresh builds a
// fresh slice and swaps it in under the write lock (read-then-replace, so
// no torn state is observable).  Concurrent refreshes collapse into one
// storage read via singleflight.
//
// Notes
// -----
// • The clock is injectable for tests; pass nil for time.Now.
// • Invalidate() must be called by every code path that creates, updates,
//   or deletes a mapping.  The API layer does this on all mutation paths.
package domain

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/weave/internal/metrics"
)

// Source is the storage surface the cache refreshes from.  *Repo satisfies
// it; tests substitute a fake.
type Source interface {
	ListMappings(ctx context.Context) ([]Mapping, error)
	ListCustomDomainTenants(ctx context.Context) ([]CustomDomainTenant, error)
}

// Clock abstracts time.Now for deterministic expiry tests.
type Clock func() time.Time

// Cache holds the latest mapping snapshot plus its expiry.  Zero value is
// unusable; construct with NewCache.
type Cache struct {
	src Source
	ttl time.Duration
	now Clock
	sfg singleflight.Group

	mu        sync.RWMutex
	snapshot  []Mapping
	populated bool
	expiresAt time.Time
}

// NewCache returns a ready cache.  now == nil selects time.Now.
func NewCache(src Source, ttl time.Duration, now Clock) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{src: src, ttl: ttl, now: now}
}

// Mappings returns the current snapshot, refreshing it first when absent
// or expired.  It never fails: a refresh error falls back to the prior
// snapshot, or to an empty set when nothing was ever loaded.
func (c *Cache) Mappings(ctx context.Context) []Mapping {
	c.mu.RLock()
	fresh := c.populated && c.now().Before(c.expiresAt)
	snap := c.snapshot
	c.mu.RUnlock()

	if fresh {
		return snap
	}

	// Collapse concurrent refreshes into one storage read.
	v, err, _ := c.sfg.Do("refresh", func() (interface{}, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		metrics.DomainCacheRefreshErrorsTotal.Inc()

		c.mu.RLock()
		snap, populated := c.snapshot, c.populated
		c.mu.RUnlock()

		if populated {
			metrics.DomainCacheStaleServesTotal.Inc()
			zap.L().Warn("domain cache refresh failed, serving stale snapshot",
				zap.Int("mappings", len(snap)),
				zap.Error(err))
			return snap
		}
		zap.L().Error("domain cache refresh failed with no prior snapshot",
			zap.Error(err))
		return nil
	}
	return v.([]Mapping)
}

// Invalidate clears the snapshot and expiry, forcing the next Mappings()
// call to reload from storage.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.populated = false
	c.expiresAt = time.Time{}
	c.mu.Unlock()
	zap.L().Debug("domain cache invalidated")
}

// refresh loads both mapping sources, expands custom domains into bare and
// www forms, and swaps the result in.
func (c *Cache) refresh(ctx context.Context) ([]Mapping, error) {
	explicit, err := c.src.ListMappings(ctx)
	if err != nil {
		return nil, err
	}
	custom, err := c.src.ListCustomDomainTenants(ctx)
	if err != nil {
		return nil, err
	}

	fresh := make([]Mapping, 0, len(explicit)+2*len(custom))
	for _, m := range explicit {
		m.Host = strings.ToLower(m.Host)
		fresh = append(fresh, m)
	}
	for _, t := range custom {
		bare := strings.TrimPrefix(strings.ToLower(t.CustomDomain), "www.")
		if bare == "" {
			continue
		}
		fresh = append(fresh,
			Mapping{Host: bare, Subdomain: t.Subdomain},
			Mapping{Host: "www." + bare, Subdomain: t.Subdomain},
		)
	}

	c.mu.Lock()
	c.snapshot = fresh
	c.populated = true
	c.expiresAt = c.now().Add(c.ttl)
	c.mu.Unlock()

	metrics.DomainCacheRefreshTotal.Inc()
	zap.L().Debug("domain cache refreshed", zap.Int("mappings", len(fresh)))
	return fresh, nil
}
