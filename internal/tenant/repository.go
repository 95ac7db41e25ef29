package tenant

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// ByID fetches a single site row that is not suspended or deleted.  The
// caller supplies a context so the lookup respects request deadlines.
func ByID(ctx context.Context, db *sqlx.DB, id uint64) (*Record, error) {
	const q = `
        SELECT id, subdomain, custom_domain, title,
               suspended_at, deleted_at, created_at, updated_at
        FROM   site
        WHERE  id = ?
          AND  suspended_at IS NULL
          AND  deleted_at   IS NULL
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, id); err != nil {
		return nil, err
	}
	return &rec, nil
}

// BySubdomain fetches a single active site row by its internal identity.
func BySubdomain(ctx context.Context, db *sqlx.DB, subdomain string) (*Record, error) {
	const q = `
        SELECT id, subdomain, custom_domain, title,
               suspended_at, deleted_at, created_at, updated_at
        FROM   site
        WHERE  subdomain = ?
          AND  suspended_at IS NULL
          AND  deleted_at   IS NULL
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, subdomain); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ActiveCount returns the number of sites that are neither suspended nor
// deleted.  Used as an early sanity check during bootstrap.
func ActiveCount(ctx context.Context, db *sqlx.DB) (int, error) {
	var n int
	err := db.GetContext(ctx, &n, `
        SELECT COUNT(*) FROM site
        WHERE suspended_at IS NULL AND deleted_at IS NULL`)
	return n, err
}
