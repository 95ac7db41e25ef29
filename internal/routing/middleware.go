// internal/routing/middleware.go
//
// Host-resolution middleware (import-cycle safe).
//
// Context
// -------
// Runs once per inbound request, ahead of normal routing.  When the
// request host maps to a tenant, the request is internally redirected to
// the tenant-content route: the URL is rewritten in place and handed to
// the next handler, preserving the original path as a `page` query
// parameter plus all original query parameters.  A lightweight
// interface—HostResolver—keeps this package independent of *domain*,
// avoiding cyclic imports.
//
// Skip rules
// ----------
//   • API, static-asset, internal, and tenant-content path prefixes.
//   • Paths whose last segment contains a dot (static files).
//   • Local loopback hosts and the development port.
//
// Resolution is a best-effort enhancement, never a gate: a panic inside
// the resolver is logged and the request falls through to default routing.

package routing

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/weave/internal/metrics"
)

// HostResolver is the minimal contract the middleware needs.  Defined here
// to avoid importing the domain package and thus prevent import cycles.
type HostResolver interface {
	Resolve(ctx context.Context, host string) (subdomain string, ok bool)
}

// Middleware returns a handler wrapper that rewrites tenant-owned hosts
// onto the tenant-content route.  devPort marks a host as local
// development; pass "" to disable the port check.
func Middleware(res HostResolver, devPort string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipPath(r.URL.Path) || skipHost(r.Host, devPort) {
				next.ServeHTTP(w, r)
				return
			}

			host := stripPort(r.Host)
			sub, ok := resolve(res, r.Context(), host)
			if !ok {
				metrics.HostResolveMissesTotal.Inc()
				next.ServeHTTP(w, r)
				return
			}
			metrics.HostResolveHitsTotal.Inc()

			q := r.URL.Query()
			if page := strings.Trim(r.URL.Path, "/"); page != "" {
				q.Set("page", page)
			}

			original := r.URL.Path
			r.URL.Path = TenantPrefix + sub
			r.URL.RawQuery = q.Encode()
			r.RequestURI = r.URL.RequestURI()

			zap.L().Debug("host rewrite",
				zap.String("host", host),
				zap.String("subdomain", sub),
				zap.String("from", original),
				zap.String("to", r.URL.Path))

			next.ServeHTTP(w, r)
		})
	}
}

// skipPath reports whether the path is excluded from tenant routing.
func skipPath(path string) bool {
	for _, prefix := range []string{APIPrefix, StaticPrefix, AssetsPrefix, InternalPrefix, TenantPrefix} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return hasFileExtension(path)
}

// skipHost reports whether the host is a known non-production host.
func skipHost(host, devPort string) bool {
	if _, ok := devHosts[stripPort(host)]; ok {
		return true
	}
	return devPort != "" && hostPort(host) == devPort
}

// resolve shields the request from resolver panics; resolution failures
// never fail the inbound request.
func resolve(res HostResolver, ctx context.Context, host string) (sub string, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("host resolution panicked, falling through",
				zap.String("host", host),
				zap.Any("panic", rec))
			sub, ok = "", false
		}
	}()
	return res.Resolve(ctx, host)
}
