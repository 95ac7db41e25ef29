// internal/page/repository.go
//
// sqlx store for tenant pages.
//
// Context
// -------
// Every helper takes a sqlx.ExtContext instead of *sqlx.DB so the apply
// engine can run the whole replace sequence inside one transaction while
// tests and the read path use the plain pool.  The restore path reuses
// InsertBatch outside any transaction.
package page

import (
	"context"
	"sort"

	"github.com/jmoiron/sqlx"
)

// ListByTenant returns every page owned by a tenant, in slug order.  The
// apply engine uses it to snapshot the pre-apply set for restoration.
func ListByTenant(ctx context.Context, q sqlx.ExtContext, tenantID uint64) ([]Page, error) {
	const query = `
        SELECT id, tenant_id, slug, title, html, css, js, created_at, updated_at
        FROM   page
        WHERE  tenant_id = ?
        ORDER  BY slug`
	var rows []Page
	if err := sqlx.SelectContext(ctx, q, &rows, query, tenantID); err != nil {
		return nil, err
	}
	return rows, nil
}

// BySlug returns one page by its (tenant_id, slug) key.
func BySlug(ctx context.Context, q sqlx.ExtContext, tenantID uint64, slug string) (*Page, error) {
	const query = `
        SELECT id, tenant_id, slug, title, html, css, js, created_at, updated_at
        FROM   page
        WHERE  tenant_id = ? AND slug = ?
        LIMIT  1`
	var p Page
	if err := sqlx.GetContext(ctx, q, &p, query, tenantID, slug); err != nil {
		return nil, err
	}
	return &p, nil
}

// CountByTenant returns how many pages a tenant currently holds.
func CountByTenant(ctx context.Context, q sqlx.ExtContext, tenantID uint64) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n,
		`SELECT COUNT(*) FROM page WHERE tenant_id = ?`, tenantID)
	return n, err
}

// DeleteByTenant removes every page owned by a tenant.
func DeleteByTenant(ctx context.Context, q sqlx.ExtContext, tenantID uint64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM page WHERE tenant_id = ?`, tenantID)
	return err
}

// InsertBatch bulk-inserts pages in one multi-row statement.  No-op on an
// empty slice.
func InsertBatch(ctx context.Context, q sqlx.ExtContext, pages []Page) error {
	if len(pages) == 0 {
		return nil
	}
	const query = `
        INSERT INTO page (tenant_id, slug, title, html, css, js)
        VALUES (:tenant_id, :slug, :title, :html, :css, :js)`
	_, err := sqlx.NamedExecContext(ctx, q, query, pages)
	return err
}

// FindBySlugs returns (id, slug) pairs for the given slugs, so callers can
// link to each page after an apply.  Slugs are sorted before binding for a
// stable query shape.
func FindBySlugs(ctx context.Context, q sqlx.ExtContext, tenantID uint64, slugs []string) ([]Page, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	sorted := append([]string(nil), slugs...)
	sort.Strings(sorted)

	query, args, err := sqlx.In(`
        SELECT id, tenant_id, slug
        FROM   page
        WHERE  tenant_id = ? AND slug IN (?)
        ORDER  BY slug`, tenantID, sorted)
	if err != nil {
		return nil, err
	}

	var rows []Page
	if err := sqlx.SelectContext(ctx, q, &rows, q.Rebind(query), args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// TouchTenant bumps the owning site's updated_at marker.
func TouchTenant(ctx context.Context, q sqlx.ExtContext, tenantID uint64) error {
	_, err := q.ExecContext(ctx, `UPDATE site SET updated_at = NOW() WHERE id = ?`, tenantID)
	return err
}
