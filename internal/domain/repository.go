// internal/domain/repository.go
//
// sqlx store for domain mappings.
//
// Context
// -------
// Two relations feed host resolution:
//
//	domain_mapping (host PK, tenant_subdomain)  – explicit operator rows
//	site.custom_domain                          – customer-attached domains
//
// The resolution cache reads both; Attach and Detach exist for the
// domain-management API and MUST be followed by a cache Invalidate(),
// which the API layer performs on every mutation path.
package domain

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Repo wraps the control-plane pool.  It satisfies the cache's Source
// interface.
type Repo struct {
	db *sqlx.DB
}

// NewRepo returns a Repo bound to the control-plane database.
func NewRepo(db *sqlx.DB) *Repo { return &Repo{db: db} }

// ListMappings returns every explicit host→subdomain row.
func (r *Repo) ListMappings(ctx context.Context) ([]Mapping, error) {
	const q = `
        SELECT host, tenant_subdomain
        FROM   domain_mapping`
	var rows []Mapping
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListCustomDomainTenants returns every active site that carries a custom
// domain.  The cache expands each into bare and www forms.
func (r *Repo) ListCustomDomainTenants(ctx context.Context) ([]CustomDomainTenant, error) {
	const q = `
        SELECT subdomain, custom_domain
        FROM   site
        WHERE  custom_domain IS NOT NULL
          AND  custom_domain <> ''
          AND  suspended_at IS NULL
          AND  deleted_at   IS NULL`
	var rows []CustomDomainTenant
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// Attach inserts one explicit mapping row.  The host is lowercased before
// storage so lookups never depend on caller casing.
func (r *Repo) Attach(ctx context.Context, host, subdomain string) error {
	const q = `
        INSERT INTO domain_mapping (host, tenant_subdomain)
        VALUES (?, ?)`
	_, err := r.db.ExecContext(ctx, q, strings.ToLower(host), subdomain)
	return err
}

// Detach removes one explicit mapping row.
func (r *Repo) Detach(ctx context.Context, host string) error {
	const q = `DELETE FROM domain_mapping WHERE host = ?`
	_, err := r.db.ExecContext(ctx, q, strings.ToLower(host))
	return err
}
