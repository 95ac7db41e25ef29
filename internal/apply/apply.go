// internal/apply/apply.go
//
// Template application: atomically replace a tenant's page set.
//
// Context
// -------
// The highest-risk operation in the engine.  All regex rewriting happens
// up front, outside the transaction, so lock hold time covers only the
// row mutations:
//
//	pre-processing   validate bundle, rewrite navigation, build rows
//	transaction      snapshot → delete all → bulk insert → touch site →
//	                 read back ids
//	on failure       rollback is authoritative; additionally attempt a
//	                 best-effort re-insert of the snapshot outside the
//	                 transaction
//
// A concurrent reader therefore observes either the full old set or the
// full new set, never a mixture.  Two concurrent applications to the same
// tenant are not coordinated here: the last transaction to commit wins.
//
// Notes
// -----
// • The transaction timeout is generous (config, default 30 s) because
//   the bulk insert can carry many rows with large text payloads.
// • The compensating restore only matters for failures detected outside
//   the engine's own transaction scope; with a healthy driver the
//   rollback alone already leaves the old set in place.

package apply

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/weave/internal/metrics"
	"github.com/yanizio/weave/internal/page"
	"github.com/yanizio/weave/internal/rewrite"
	"github.com/yanizio/weave/internal/routing"
	"github.com/yanizio/weave/internal/template"
	"github.com/yanizio/weave/internal/tenant"
)

// Engine applies templates against the control-plane pool.
type Engine struct {
	db        *sqlx.DB
	txTimeout time.Duration
}

// New returns an Engine.  txTimeout bounds the transactional phase.
func New(db *sqlx.DB, txTimeout time.Duration) *Engine {
	return &Engine{db: db, txTimeout: txTimeout}
}

// Result reports one completed application.  It is ephemeral and never
// persisted.
type Result struct {
	PagesCreated     int
	Slugs            []string
	PageIDs          []uint64
	TemplateName     string
	TemplateCategory string
	SkippedKeys      []string
}

// Apply replaces all of ten's pages with the template's bundle.  The
// caller has already checked ownership; the template has been loaded but
// not yet validated.
func (e *Engine) Apply(ctx context.Context, ten *tenant.Record, tpl *template.Template) (*Result, error) {
	//
	// ── 1.  Validation gate ─────────────────────────────────────────────
	//
	if res := template.Validate(tpl); !res.IsValid {
		metrics.TemplateApplyFailuresTotal.Inc()
		return nil, &ValidationError{Rules: res.Errors}
	} else if len(res.Warnings) > 0 {
		zap.L().Info("template has advisory warnings",
			zap.String("template", tpl.Name),
			zap.Strings("warnings", res.Warnings))
	}

	//
	// ── 2.  Pre-processing: rewrite navigation, build rows ─────────────
	//
	rows, skipped := e.buildPages(ten, tpl)
	if len(rows) == 0 {
		metrics.TemplateApplyFailuresTotal.Inc()
		return nil, &ValidationError{Rules: []string{"template produced no valid pages"}}
	}

	//
	// ── 3.  Transactional swap ─────────────────────────────────────────
	//
	txCtx, cancel := context.WithTimeout(ctx, e.txTimeout)
	defer cancel()

	result, snapshot, err := e.swap(txCtx, ten.ID, rows)
	if err != nil {
		metrics.TemplateApplyFailuresTotal.Inc()
		restored := e.restore(ten.ID, snapshot)
		zap.L().Error("template application failed",
			zap.Uint64("tenant_id", ten.ID),
			zap.String("template", tpl.Name),
			zap.Bool("restored", restored),
			zap.Error(err))
		return nil, &StorageError{Err: err, Restored: restored}
	}

	result.TemplateName = tpl.Name
	result.TemplateCategory = tpl.Category
	result.SkippedKeys = skipped

	metrics.TemplateApplyTotal.Inc()
	zap.L().Info("template applied",
		zap.Uint64("tenant_id", ten.ID),
		zap.String("template", tpl.Name),
		zap.Int("pages", result.PagesCreated),
		zap.Strings("skipped", skipped))
	return result, nil
}

// buildPages rewrites every non-blank page and returns the final rows plus
// the keys skipped for malformed content.  Pure; runs outside the
// transaction.
func (e *Engine) buildPages(ten *tenant.Record, tpl *template.Template) ([]page.Page, []string) {
	keys := tpl.Keys()
	sort.Strings(keys)

	// Slug mapping over the full set of available keys, so cross-page
	// links rewrite consistently even when a key needs sanitizing.
	mappings := make(map[string]string, len(keys))
	for _, key := range keys {
		if strings.TrimSpace(tpl.Pages[key].HTML) == "" {
			continue
		}
		mappings[key] = routing.MakeSlug(key)
	}

	var (
		rows    []page.Page
		skipped []string
	)
	for _, key := range keys {
		content := tpl.Pages[key]
		if strings.TrimSpace(content.HTML) == "" {
			skipped = append(skipped, key)
			continue
		}

		out := rewrite.Rewrite(rewrite.Content{
			HTML: content.HTML,
			CSS:  content.CSS,
			JS:   content.JS,
		}, ten.Subdomain, mappings)

		if report := rewrite.Validate(rewrite.Content{HTML: content.HTML, CSS: content.CSS, JS: content.JS},
			out, ten.Subdomain, mappings); !report.IsValid {
			zap.L().Warn("navigation rewrite left residual issues",
				zap.String("page", key),
				zap.Strings("issues", report.Issues))
		}

		rows = append(rows, page.Page{
			TenantID: ten.ID,
			Slug:     mappings[key],
			Title:    titleFor(mappings[key]),
			HTML:     out.HTML,
			CSS:      out.CSS,
			JS:       out.JS,
		})
	}
	return rows, skipped
}

// swap runs the atomic replace.  It returns the pre-apply snapshot even on
// failure so the caller can attempt a restore.
func (e *Engine) swap(ctx context.Context, tenantID uint64, rows []page.Page) (*Result, []page.Page, error) {
	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	snapshot, err := page.ListByTenant(ctx, tx, tenantID)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot pages: %w", err)
	}

	if err := page.DeleteByTenant(ctx, tx, tenantID); err != nil {
		return nil, snapshot, fmt.Errorf("delete pages: %w", err)
	}
	if err := page.InsertBatch(ctx, tx, rows); err != nil {
		return nil, snapshot, fmt.Errorf("insert pages: %w", err)
	}
	if err := page.TouchTenant(ctx, tx, tenantID); err != nil {
		return nil, snapshot, fmt.Errorf("touch tenant: %w", err)
	}

	slugs := make([]string, len(rows))
	for i, r := range rows {
		slugs[i] = r.Slug
	}
	inserted, err := page.FindBySlugs(ctx, tx, tenantID, slugs)
	if err != nil {
		return nil, snapshot, fmt.Errorf("read back pages: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, snapshot, fmt.Errorf("commit: %w", err)
	}

	ids := make([]uint64, len(inserted))
	outSlugs := make([]string, len(inserted))
	for i, p := range inserted {
		ids[i] = p.ID
		outSlugs[i] = p.Slug
	}
	return &Result{PagesCreated: len(rows), Slugs: outSlugs, PageIDs: ids}, snapshot, nil
}

// restore best-effort re-inserts the snapshot after a failed swap.  The
// transaction's own rollback already guarantees no partial state; this
// only matters when the failure was detected outside that scope.  Runs on
// a fresh context: the caller's may already be past its deadline.
func (e *Engine) restore(tenantID uint64, snapshot []page.Page) bool {
	if len(snapshot) == 0 {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.txTimeout)
	defer cancel()

	// Rollback normally preserves the old set; re-insert only when the
	// failure actually left the tenant with no pages.
	if n, err := page.CountByTenant(ctx, e.db, tenantID); err == nil && n > 0 {
		return true
	}
	metrics.TemplateApplyRestoresTotal.Inc()

	if err := page.InsertBatch(ctx, e.db, snapshot); err != nil {
		zap.L().Error("best-effort page restore failed",
			zap.Uint64("tenant_id", tenantID),
			zap.Int("pages", len(snapshot)),
			zap.Error(err))
		return false
	}
	zap.L().Info("pre-apply pages restored",
		zap.Uint64("tenant_id", tenantID),
		zap.Int("pages", len(snapshot)))
	return true
}
