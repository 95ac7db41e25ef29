// internal/domain/model.go
//
// Domain-mapping data model.
//
// Context
// -------
// A Mapping binds one hostname to the subdomain of the tenant that owns
// it.  Hosts are case-normalized (lowercase) before they are stored or
// compared.  A custom domain attached to a site yields two rows when the
// cache expands it: the bare form and the `www.` form.  Both address the
// same tenant, but an operator may also map the two forms to different
// tenants explicitly; exact matches always win over normalized ones.
package domain

import "strings"

// Mapping binds a hostname to a tenant subdomain.  Read-only from the
// resolution path; mutations go through Repo and must invalidate the cache.
type Mapping struct {
	Host      string `db:"host"`
	Subdomain string `db:"tenant_subdomain"`
}

// CustomDomainTenant is one site row carrying a custom domain, as read by
// the cache refresh.
type CustomDomainTenant struct {
	Subdomain    string `db:"subdomain"`
	CustomDomain string `db:"custom_domain"`
}

// NormalizeHost lowercases a host and strips one leading "www." so the
// apex and the www form compare equal.
func NormalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}
