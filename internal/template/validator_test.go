// internal/template/validator_test.go
//
// Unit-tests for template structural validation.

package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_EmptyPageSet(t *testing.T) {
	res := Validate(&Template{Name: "X", Pages: map[string]PageContent{}})
	require.False(t, res.IsValid)
	assert.Contains(t, res.Errors[0], "at least one page")
}

func TestValidate_BlankHTML(t *testing.T) {
	res := Validate(&Template{
		Name: "X",
		Pages: map[string]PageContent{
			"home": {HTML: "", CSS: "", JS: ""},
		},
	})
	require.False(t, res.IsValid)
	assert.Contains(t, res.Errors[0], `page "home" has empty html`)

	// Whitespace-only counts as empty too.
	res = Validate(&Template{
		Name:  "X",
		Pages: map[string]PageContent{"home": {HTML: "   \n\t"}},
	})
	assert.False(t, res.IsValid)
}

func TestValidate_EmptyName(t *testing.T) {
	res := Validate(&Template{
		Name:  "  ",
		Pages: map[string]PageContent{"home": {HTML: "<p>hi</p>"}},
	})
	require.False(t, res.IsValid)
	assert.Contains(t, res.Errors[0], "name")
}

func TestValidate_WarningsAreNonBlocking(t *testing.T) {
	res := Validate(&Template{
		Name: "Starter",
		Pages: map[string]PageContent{
			"home": {
				HTML: `<a href="#">top</a>` +
					`<button onclick="go()">x</button>` +
					`<link href="https://fonts.example/font.css">` +
					`<script src="https://cdn.example/lib.js"></script>`,
				CSS: `@import url("https://cdn.example/theme.css");`,
			},
		},
	})
	require.True(t, res.IsValid)
	assert.Len(t, res.Warnings, 5)
}

func TestValidate_ExternalAssetsDeduplicated(t *testing.T) {
	res := Validate(&Template{
		Name: "Starter",
		Pages: map[string]PageContent{
			"home": {
				HTML: `<script src="https://cdn.example/lib.js"></script>` +
					`<script src="https://cdn.example/lib.js"></script>`,
			},
		},
	})
	require.True(t, res.IsValid)
	assert.Len(t, res.Warnings, 1)
}

func TestValidate_CleanTemplate(t *testing.T) {
	res := Validate(&Template{
		Name: "Starter",
		Pages: map[string]PageContent{
			"home":  {HTML: `<h1>Welcome</h1>`},
			"about": {HTML: `<a href="/home">Home</a>`},
		},
	})
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}
