// internal/template/repository.go
//
// sqlx store for template bundles.  A bundle spans two tables:
//
//	template      (id PK, name, category)
//	template_page (template_id, page_key, html, css, js)
package template

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a template id has no row.
var ErrNotFound = errors.New("template not found")

// ByID loads one template with its full page bundle.
func ByID(ctx context.Context, db *sqlx.DB, id uint64) (*Template, error) {
	const tq = `
        SELECT id, name, category
        FROM   template
        WHERE  id = ?
        LIMIT  1`
	var tpl Template
	if err := db.GetContext(ctx, &tpl, tq, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load template %d: %w", id, err)
	}

	const pq = `
        SELECT page_key, html, css, js
        FROM   template_page
        WHERE  template_id = ?`
	rows := make([]struct {
		PageKey string `db:"page_key"`
		PageContent
	}, 0, 8)
	if err := db.SelectContext(ctx, &rows, pq, id); err != nil {
		return nil, fmt.Errorf("load template %d pages: %w", id, err)
	}

	tpl.Pages = make(map[string]PageContent, len(rows))
	for _, r := range rows {
		tpl.Pages[r.PageKey] = r.PageContent
	}
	return &tpl, nil
}
