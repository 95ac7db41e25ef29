// internal/apply/titles.go
//
// Fixed page-key → display-title table with a capitalized fallback.
package apply

import "strings"

var pageTitles = map[string]string{
	"home":     "Home",
	"about":    "About",
	"about-us": "About Us",
	"contact":  "Contact",
	"services": "Services",
	"products": "Products",
	"pricing":  "Pricing",
	"blog":     "Blog",
	"gallery":  "Gallery",
	"team":     "Team",
	"faq":      "FAQ",
}

// titleFor returns the display title for a page key, falling back to the
// title-cased key ("our-work" → "Our Work").
func titleFor(key string) string {
	if t, ok := pageTitles[key]; ok {
		return t
	}
	parts := strings.Split(key, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
