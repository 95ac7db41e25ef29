// internal/rewrite/rewriter_test.go
//
// Table-driven tests for the navigation rewriter plus a generated
// idempotence property.
//
// Context
// -------
// The rewriter is heuristic by design, so the suite pins down the exact
// surface behaviours the apply engine depends on:
//
//   • every key surface form (href, inline handler, data-page, CSS
//     selector, script navigation) lands on the tenant-scoped path
//   • external, mailto:, tel:, and fragment links survive untouched
//   • running the rewrite twice with the same mapping changes nothing

package rewrite

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewrite_Surfaces(t *testing.T) {
	sub := "myshop"

	cases := []struct {
		name     string
		in       Content
		mappings map[string]string
		want     Content
	}{
		{
			name:     "root-relative href",
			in:       Content{HTML: `<a href="/about">About</a>`},
			mappings: map[string]string{"about": "about"},
			want:     Content{HTML: `<a href="/s/myshop/about">About</a>`},
		},
		{
			name:     "bare and hash href",
			in:       Content{HTML: `<a href="about">x</a> <a href="#about">y</a>`},
			mappings: map[string]string{"about": "about"},
			want:     Content{HTML: `<a href="/s/myshop/about">x</a> <a href="/s/myshop/about">y</a>`},
		},
		{
			name:     "key renamed via mapping",
			in:       Content{HTML: `<a href="/about-us">About</a>`},
			mappings: map[string]string{"about-us": "about"},
			want:     Content{HTML: `<a href="/s/myshop/about">About</a>`},
		},
		{
			name:     "title-cased surface form",
			in:       Content{HTML: `<a href="/About-Us">About</a>`},
			mappings: map[string]string{"about-us": "about"},
			want:     Content{HTML: `<a href="/s/myshop/about">About</a>`},
		},
		{
			name:     "inline location.href handler",
			in:       Content{HTML: `<button onclick="location.href='/contact'">Go</button>`},
			mappings: map[string]string{"contact": "contact"},
			want:     Content{HTML: `<button onclick="location.href='/s/myshop/contact'">Go</button>`},
		},
		{
			name:     "data-page attribute",
			in:       Content{HTML: `<nav data-page="services"></nav>`},
			mappings: map[string]string{"services": "offerings"},
			want:     Content{HTML: `<nav data-page="offerings"></nav>`},
		},
		{
			name:     "script navigation",
			in:       Content{JS: `location.href = '/about'; navigateTo('contact');`},
			mappings: map[string]string{"about": "about", "contact": "contact"},
			want:     Content{JS: `location.href = '/s/myshop/about'; navigateTo('/s/myshop/contact');`},
		},
		{
			name:     "catch-all scopes unmapped root-relative links",
			in:       Content{HTML: `<a href="/pricing">Pricing</a>`},
			mappings: map[string]string{"home": "home"},
			want:     Content{HTML: `<a href="/s/myshop/pricing">Pricing</a>`},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Rewrite(c.in, sub, c.mappings)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestRewrite_CSSSelectorWordBoundary(t *testing.T) {
	in := Content{CSS: `.about { color: red; } .about-hero { color: blue; } nav .about:hover {}`}
	got := Rewrite(in, "myshop", map[string]string{"about": "story"})

	assert.Contains(t, got.CSS, ".story {")
	assert.Contains(t, got.CSS, ".story:hover")
	assert.Contains(t, got.CSS, ".about-hero", "longer identifier must not be clipped")
}

func TestRewrite_PreservesExternalLinks(t *testing.T) {
	in := Content{HTML: strings.Join([]string{
		`<a href="https://external.example/x">ext</a>`,
		`<a href="mailto:a@b.com">mail</a>`,
		`<a href="tel:+15551234">call</a>`,
		`<a href="#section">jump</a>`,
		`<a href="//cdn.example/lib.js">cdn</a>`,
	}, "\n")}

	got := Rewrite(in, "myshop", map[string]string{"home": "home"})

	for _, keep := range []string{
		`href="https://external.example/x"`,
		`href="mailto:a@b.com"`,
		`href="tel:+15551234"`,
		`href="#section"`,
		`href="//cdn.example/lib.js"`,
	} {
		assert.Contains(t, got.HTML, keep)
	}
}

func TestRewrite_Idempotent(t *testing.T) {
	in := Content{
		HTML: `<a href="/about-us">About</a> <a href="/pricing">P</a>` +
			` <button onclick="location.href='/contact'">Go</button>`,
		CSS: `.about-us { display: none; }`,
		JS:  `location.href = '/about-us';`,
	}
	mappings := map[string]string{"about-us": "about", "contact": "contact"}

	once := Rewrite(in, "myshop", mappings)
	twice := Rewrite(once, "myshop", mappings)
	require.Equal(t, once, twice)
}

func TestRewrite_IdempotentProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200

	slug := gen.RegexMatch(`[a-z]{2,8}(-[a-z]{2,8})?`)

	properties := gopter.NewProperties(params)
	properties.Property("rewrite twice equals rewrite once", prop.ForAll(
		func(sub, key, extra string) bool {
			in := Content{
				HTML: `<a href="/` + key + `">x</a> <a href="/` + extra + `">y</a>`,
				CSS:  `.` + key + ` { margin: 0; }`,
				JS:   `location.href = '/` + key + `';`,
			}
			m := map[string]string{key: key}
			once := Rewrite(in, sub, m)
			return Rewrite(once, sub, m) == once
		},
		slug, slug, slug,
	))
	properties.TestingRun(t)
}

func TestValidate_FlagsResidualOldLinks(t *testing.T) {
	original := Content{HTML: `<a href="/about">About</a>`}
	// Simulate a rewrite that missed the href.
	updated := original

	report := Validate(original, updated, "myshop", map[string]string{"about": "about"})
	require.False(t, report.IsValid)
	assert.NotEmpty(t, report.Issues)
}

func TestValidate_CleanAfterRewrite(t *testing.T) {
	original := Content{HTML: `<a href="/about">About</a>`}
	updated := Rewrite(original, "myshop", map[string]string{"about": "about"})

	report := Validate(original, updated, "myshop", map[string]string{"about": "about"})
	assert.True(t, report.IsValid, "issues: %v", report.Issues)
}
