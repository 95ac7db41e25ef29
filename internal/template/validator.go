// internal/template/validator.go
//
// Structural validation of a template bundle.
//
// Context
// -------
// Validation runs before any page mutation begins.  Errors block the
// application outright; warnings are logged for operator visibility and
// never gate anything.  Asset extraction is pattern matching over the raw
// html/css, consistent with the rewriter's heuristic approach.

package template

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Result is the outcome of Validate.  IsValid is false iff Errors is
// non-empty; Warnings are advisory.
type Result struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

var (
	reBareHash     = regexp.MustCompile(`href=["']#["']`)
	reInlineClick  = regexp.MustCompile(`\bonclick\s*=`)
	reExternalHref = regexp.MustCompile(`href=["'](https?://[^"']+)["']`)
	reExternalSrc  = regexp.MustCompile(`src=["'](https?://[^"']+)["']`)
	reImportURL    = regexp.MustCompile(`@import\s+url\(["']?(https?://[^"')]+)["']?\)`)
)

// Validate checks a template's structural completeness.
func Validate(t *Template) Result {
	var res Result

	if strings.TrimSpace(t.Name) == "" {
		res.Errors = append(res.Errors, "template name must not be empty")
	}
	if len(t.Pages) == 0 {
		res.Errors = append(res.Errors, "template must contain at least one page")
	}

	keys := t.Keys()
	sort.Strings(keys)
	for _, key := range keys {
		page := t.Pages[key]
		if strings.TrimSpace(page.HTML) == "" {
			res.Errors = append(res.Errors,
				fmt.Sprintf("page %q has empty html", key))
			continue
		}

		if reBareHash.MatchString(page.HTML) {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("page %q contains bare hash links", key))
		}
		if reInlineClick.MatchString(page.HTML) {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("page %q contains inline onclick handlers", key))
		}
		for _, asset := range externalAssets(page) {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("page %q references external asset %s", key, asset))
		}
	}

	res.IsValid = len(res.Errors) == 0
	return res
}

// externalAssets extracts externally-hosted CSS/JS/font/image references
// from a page, deduplicated and sorted.
func externalAssets(p PageContent) []string {
	seen := make(map[string]struct{})
	collect := func(re *regexp.Regexp, s string) {
		for _, m := range re.FindAllStringSubmatch(s, -1) {
			seen[m[1]] = struct{}{}
		}
	}
	collect(reExternalHref, p.HTML)
	collect(reExternalSrc, p.HTML)
	collect(reImportURL, p.HTML)
	collect(reImportURL, p.CSS)

	assets := make([]string, 0, len(seen))
	for a := range seen {
		assets = append(assets, a)
	}
	sort.Strings(assets)
	return assets
}
