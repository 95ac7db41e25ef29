package template

// PageContent is one page's bundled markup, style, and script as authored
// in the template.
type PageContent struct {
	HTML string `db:"html"`
	CSS  string `db:"css"`
	JS   string `db:"js"`
}

// Template is a named bundle of pages keyed by logical page key ("home",
// "about", …).  Applying it to a tenant supersedes the tenant's whole
// page set.
type Template struct {
	ID       uint64 `db:"id"`
	Name     string `db:"name"`
	Category string `db:"category"`
	Pages    map[string]PageContent
}

// Keys returns the page keys present in the bundle.
func (t *Template) Keys() []string {
	keys := make([]string, 0, len(t.Pages))
	for k := range t.Pages {
		keys = append(keys, k)
	}
	return keys
}
