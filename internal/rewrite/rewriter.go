// internal/rewrite/rewriter.go
//
// Navigation rewriter for ported template content.
//
// Context
// -------
// Template pages carry internal navigation written against the template's
// own flat paths (`/about`, `location.href='/contact'`, `.about` CSS
// hooks).  When a template is applied to a tenant, every such reference
// must be rewritten to address the destination tenant's routing scheme,
// i.e. `/s/{subdomain}/{key}`.
//
// This is deliberately heuristic string/pattern matching over markup, not
// a DOM/AST pass.  Each page key is tried in several surface forms
// (hyphenated, no-separator, capitalized, title-cased) across five
// surfaces: href attributes, inline `location.href` handlers, `data-page`
// attributes, CSS class selectors, and script navigation calls.  A final
// catch-all pass scopes any remaining root-relative link.
//
// Invariants
// ----------
//   • External links, `mailto:`, `tel:`, and fragment-only links are never
//     altered.
//   • Idempotent under repeated application with the same mapping: the
//     catch-all excludes paths already under the tenant prefix.
//
// All functions are pure and safe for concurrent use.

package rewrite

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yanizio/weave/internal/routing"
)

// Content is one page's markup, style, and script.
type Content struct {
	HTML string
	CSS  string
	JS   string
}

// Rewrite maps every navigation reference from the template's page keys to
// the tenant-scoped equivalents.  mappings is oldKey → newKey; keys absent
// from it are left for the catch-all pass.
func Rewrite(c Content, subdomain string, mappings map[string]string) Content {
	// Longest keys first so "about-us" is consumed before "about" can
	// clip it; ties break lexicographically for determinism.
	keys := make([]string, 0, len(mappings))
	for k := range mappings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	for _, oldKey := range keys {
		for _, form := range keyVariants(oldKey) {
			c = rewriteKey(c, subdomain, form, mappings[oldKey])
		}
	}
	c.HTML = scopeRootRelativeLinks(c.HTML, subdomain)
	return c
}

// rewriteKey applies all five surface rewrites for a single key form.
func rewriteKey(c Content, subdomain, oldForm, newKey string) Content {
	old := regexp.QuoteMeta(oldForm)
	scoped := routing.ScopedPath(subdomain, newKey)

	// href="old", href="/old", href="#old" → root-relative new key.  The
	// catch-all pass scopes it afterwards.
	reHref := regexp.MustCompile(`(href=["'])(?:/|#)?` + old + `(["'])`)
	c.HTML = reHref.ReplaceAllString(c.HTML, `${1}/`+newKey+`${2}`)

	// Inline handlers and script assignments target the tenant directly.
	reLoc := regexp.MustCompile(`(location\.href\s*=\s*["'])(?:/|#)?` + old + `(["'])`)
	c.HTML = reLoc.ReplaceAllString(c.HTML, `${1}`+scoped+`${2}`)
	c.JS = reLoc.ReplaceAllString(c.JS, `${1}`+scoped+`${2}`)

	// data-page carries the logical key, not a path.
	reData := regexp.MustCompile(`(data-page=["'])` + old + `(["'])`)
	c.HTML = reData.ReplaceAllString(c.HTML, `${1}`+newKey+`${2}`)

	// CSS class selectors, word-boundary so `.about` never clips
	// `.about-hero`.
	reCSS := regexp.MustCompile(`\.` + old + `([^0-9A-Za-z_-]|$)`)
	c.CSS = reCSS.ReplaceAllString(c.CSS, `.`+newKey+`${1}`)

	// Router-style navigation calls in scripts.
	reNav := regexp.MustCompile(`(navigate(?:To)?\(\s*["'])(?:/|#)?` + old + `(["'])`)
	c.JS = reNav.ReplaceAllString(c.JS, `${1}`+scoped+`${2}`)

	return c
}

// reAnyHref matches every href attribute so the catch-all can inspect the
// target without RE2 lookaheads.
var reAnyHref = regexp.MustCompile(`href=(["'])([^"']*)(["'])`)

// scopeRootRelativeLinks prefixes the tenant path onto any root-relative
// link the key-specific passes produced or left behind.  External links,
// protocol-relative links, mailto:, tel:, fragments, and already-scoped
// paths pass through untouched, which is also what makes the whole rewrite
// idempotent.
func scopeRootRelativeLinks(html, subdomain string) string {
	prefix := routing.TenantPrefix + subdomain
	return reAnyHref.ReplaceAllStringFunc(html, func(attr string) string {
		parts := reAnyHref.FindStringSubmatch(attr)
		target := parts[2]

		switch {
		case !strings.HasPrefix(target, "/"):
			return attr // external, mailto:, tel:, fragment, or bare
		case strings.HasPrefix(target, "//"):
			return attr // protocol-relative
		case strings.HasPrefix(target, routing.TenantPrefix):
			return attr // already tenant-scoped
		}
		return "href=" + parts[1] + prefix + target + parts[3]
	})
}

// keyVariants returns the surface forms a page key may take in template
// markup: hyphenated, no-separator, capitalized, and title-cased.
func keyVariants(key string) []string {
	seen := make(map[string]struct{}, 4)
	var out []string
	for _, form := range []string{
		key,
		strings.ReplaceAll(key, "-", ""),
		capitalize(key),
		titleCase(key),
	} {
		if _, dup := seen[form]; dup || form == "" {
			continue
		}
		seen[form] = struct{}{}
		out = append(out, form)
	}
	return out
}

// capitalize upper-cases only the first letter: "about-us" → "About-us".
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// titleCase capitalizes every hyphen-separated word: "about-us" → "About-Us".
func titleCase(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, "-")
}
