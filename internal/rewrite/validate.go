// internal/rewrite/validate.go
//
// Advisory post-rewrite validation.
//
// After a rewrite, the caller can ask whether any old-key navigation
// pattern survived and whether each expected key now appears in its
// tenant-scoped form.  The report is logged by the apply engine, never
// used as a hard gate: a false positive here must not block a template
// application.

package rewrite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yanizio/weave/internal/routing"
)

// Report lists residual navigation issues found after a rewrite.
type Report struct {
	IsValid bool
	Issues  []string
}

// Validate compares original and updated content for one page.  mappings
// is the same oldKey → newKey table the rewrite ran with.
func Validate(original, updated Content, subdomain string, mappings map[string]string) Report {
	var issues []string

	for oldKey, newKey := range mappings {
		// Old navigation patterns must be gone from the updated content.
		for _, form := range keyVariants(oldKey) {
			stale := regexp.MustCompile(
				`(?:href=|location\.href\s*=\s*)(["'])(?:/|#)` + regexp.QuoteMeta(form) + `(["'])`)
			if stale.MatchString(updated.HTML) || stale.MatchString(updated.JS) {
				issues = append(issues,
					fmt.Sprintf("page key %q: old navigation pattern %q still present", oldKey, form))
				break
			}
		}

		// If the original navigated to the key at all, the updated content
		// should carry the scoped form somewhere.
		if !referencesKey(original, oldKey) {
			continue
		}
		scoped := routing.ScopedPath(subdomain, newKey)
		if !strings.Contains(updated.HTML, scoped) &&
			!strings.Contains(updated.HTML, "/"+newKey) &&
			!strings.Contains(updated.JS, scoped) {
			issues = append(issues,
				fmt.Sprintf("page key %q: expected scoped path %q not found", newKey, scoped))
		}
	}

	return Report{IsValid: len(issues) == 0, Issues: issues}
}

// referencesKey reports whether the original content navigated to the key
// in any surface form.
func referencesKey(c Content, key string) bool {
	for _, form := range keyVariants(key) {
		ref := regexp.MustCompile(`(["'/#])` + regexp.QuoteMeta(form) + `(["'])`)
		if ref.MatchString(c.HTML) || ref.MatchString(c.JS) {
			return true
		}
	}
	return false
}
