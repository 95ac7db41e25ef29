// internal/routing/paths.go
//
// Route-prefix constants and path helpers.
//
// • TenantPrefix is the internal tenant-content route; the middleware
//   rewrites matched hosts onto it, and the rewriter scopes navigation
//   under it.
// • MakeSlug(title) converts arbitrary text into a URL-safe slug restricted
//   to ASCII a-z, 0-9 and “-”.
// • ScopedPath(subdomain, key) builds the fully-qualified tenant path.
//
// Rules (MakeSlug)
// ----------------
// 1. Lower-case everything.
// 2. Convert any run of non-[a-z0-9] characters to one “-”.
// 3. Collapse consecutive “-” to a single “-”.
// 4. Trim leading / trailing “-”.
// 5. If the result is empty, return "page".

package routing

import "strings"

// Path prefixes that never belong to tenant content routing.
const (
	TenantPrefix   = "/s/"
	APIPrefix      = "/api/"
	StaticPrefix   = "/static/"
	AssetsPrefix   = "/assets/"
	InternalPrefix = "/_weave/"
)

// Hosts that mark a local development instance.
var devHosts = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"::1":       {},
}

// ScopedPath returns the tenant-scoped form of a page key, e.g.
// ScopedPath("myshop", "about") → "/s/myshop/about".
func ScopedPath(subdomain, key string) string {
	key = strings.Trim(key, "/")
	if key == "" {
		return TenantPrefix + subdomain
	}
	return TenantPrefix + subdomain + "/" + key
}

// MakeSlug converts title → lower-kebab ASCII.
func MakeSlug(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastWasDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasDash = false
		default:
			// any non-ASCII or punctuation becomes a single dash
			if !lastWasDash {
				b.WriteRune('-')
				lastWasDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "page"
	}
	if len(slug) > 100 {
		slug = strings.TrimRight(slug[:100], "-")
	}
	return slug
}

// hasFileExtension reports whether the last path segment contains a dot,
// the heuristic for static files like /favicon.ico or /js/app.js.
func hasFileExtension(path string) bool {
	last := path
	if i := strings.LastIndexByte(path, '/'); i != -1 {
		last = path[i+1:]
	}
	return strings.ContainsRune(last, '.')
}

// stripPort removes any “:port” suffix from the Host header.
func stripPort(h string) string {
	if i := strings.LastIndexByte(h, ':'); i != -1 && !strings.HasSuffix(h, "]") {
		return h[:i]
	}
	return h
}

// hostPort returns the “:port” suffix of the Host header, or "".
func hostPort(h string) string {
	if i := strings.LastIndexByte(h, ':'); i != -1 && !strings.HasSuffix(h, "]") {
		return h[i+1:]
	}
	return ""
}
