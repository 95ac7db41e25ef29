// internal/domain/resolver_test.go
//
// Unit-tests for the pure host-matching core.

package domain

import "testing"

func TestLookup_Normalization(t *testing.T) {
	mappings := []Mapping{
		{Host: "example.com", Subdomain: "acme"},
	}

	cases := []struct {
		host string
		want string
		ok   bool
	}{
		{"example.com", "acme", true},
		{"www.example.com", "acme", true}, // www falls back to the apex row
		{"EXAMPLE.COM", "acme", true},     // caller casing is irrelevant
		{"other.com", "", false},
	}
	for _, c := range cases {
		got, ok := Lookup(mappings, c.host)
		if ok != c.ok || got != c.want {
			t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)",
				c.host, got, ok, c.want, c.ok)
		}
	}
}

func TestLookup_WwwOnlyMapping(t *testing.T) {
	mappings := []Mapping{
		{Host: "www.example.com", Subdomain: "acme"},
	}
	if got, ok := Lookup(mappings, "example.com"); !ok || got != "acme" {
		t.Fatalf("bare host did not normalize to www row: (%q, %v)", got, ok)
	}
}

func TestLookup_ExactMatchWins(t *testing.T) {
	// Apex and www deliberately mapped to different tenants; the exact
	// match must win before normalization blurs the distinction.
	mappings := []Mapping{
		{Host: "example.com", Subdomain: "apex-site"},
		{Host: "www.example.com", Subdomain: "www-site"},
	}
	if got, _ := Lookup(mappings, "www.example.com"); got != "www-site" {
		t.Fatalf("exact www mapping lost to normalization: %q", got)
	}
	if got, _ := Lookup(mappings, "example.com"); got != "apex-site" {
		t.Fatalf("exact apex mapping lost to normalization: %q", got)
	}
}
