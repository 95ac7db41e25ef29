package page

import "time"

// Page is one tenant page row, keyed by (tenant_id, slug).  Pages are
// created or superseded wholesale by template application; there is no
// merge path.
type Page struct {
	ID        uint64    `db:"id"`
	TenantID  uint64    `db:"tenant_id"`
	Slug      string    `db:"slug"`
	Title     string    `db:"title"`
	HTML      string    `db:"html"`
	CSS       string    `db:"css"`
	JS        string    `db:"js"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
