// internal/domain/resolver.go
//
// Host → tenant-subdomain resolution over the cache snapshot.
//
// Matching order matters: an exact match on the raw lowercased host wins,
// preserving any intentional distinction between an apex and its www form
// when both are separately mapped.  Only then do we fall back to comparing
// the www-normalized forms of both sides.
package domain

import (
	"context"
	"strings"
)

// Resolver answers "which tenant owns this host?" from the cache.  It is
// a pure read over the snapshot and safe for concurrent use.
type Resolver struct {
	cache *Cache
}

// NewResolver binds a Resolver to its cache.
func NewResolver(cache *Cache) *Resolver { return &Resolver{cache: cache} }

// Resolve maps a request host to a tenant subdomain.  The boolean is false
// when no mapping matches; callers must treat that as "not a tenant-owned
// host," not as an error.
func (r *Resolver) Resolve(ctx context.Context, host string) (string, bool) {
	return Lookup(r.cache.Mappings(ctx), host)
}

// Lookup is the pure matching core, split out so tests can drive it with a
// literal mapping set.
func Lookup(mappings []Mapping, host string) (string, bool) {
	raw := strings.ToLower(host)

	for _, m := range mappings {
		if m.Host == raw {
			return m.Subdomain, true
		}
	}

	norm := NormalizeHost(raw)
	for _, m := range mappings {
		if NormalizeHost(m.Host) == norm {
			return m.Subdomain, true
		}
	}
	return "", false
}
