package tenant

import "time"

// Record mirrors one row in the persistent `site` table.  A tenant owns
// exactly one subdomain (immutable internal identity) and zero-or-one
// custom domain.  The operational state is captured by two nullable
// timestamps:
//
//   - SuspendedAt – site is temporarily disabled (e.g., billing).
//   - DeletedAt   – site is permanently removed.
//
// Either timestamp being non-NULL hides the site from host resolution.
type Record struct {
	ID           uint64     `db:"id"`
	Subdomain    string     `db:"subdomain"`
	CustomDomain *string    `db:"custom_domain"`
	Title        string     `db:"title"`
	SuspendedAt  *time.Time `db:"suspended_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}
