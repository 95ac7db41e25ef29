// internal/api/handler.go
//
// HTTP surface of the engine.
//
// Context
// -------
// Three groups of routes:
//
//   • POST /api/apply                – apply a template to a tenant
//   • POST /api/domains              – attach a custom domain
//     DELETE /api/domains/{host}     – detach a custom domain
//     POST /api/domains/invalidate   – explicit cache-invalidation hook
//   • GET /s/{subdomain}[/{slug}]    – tenant-content delivery; the
//     routing middleware lands here after a host rewrite
//
// Every domain mutation path calls Invalidate() on the resolution cache;
// the explicit hook exists for mutations performed out of band (admin
// SQL, billing jobs).
//
// Responses are JSON.  Apply errors carry the violated rules or, where
// available, the underlying MySQL error number; stack-level detail stays
// in the logs.

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/weave/internal/apply"
	"github.com/yanizio/weave/internal/domain"
	"github.com/yanizio/weave/internal/page"
	"github.com/yanizio/weave/internal/requestinfo"
	"github.com/yanizio/weave/internal/template"
	"github.com/yanizio/weave/internal/tenant"
)

// Handler bundles the engine's collaborators for the HTTP layer.
type Handler struct {
	db       *sqlx.DB
	domains  *domain.Repo
	cache    *domain.Cache
	engine   *apply.Engine
	validate *validator.Validate
}

// New constructs the Handler.
func New(db *sqlx.DB, domains *domain.Repo, cache *domain.Cache, engine *apply.Engine) *Handler {
	return &Handler{
		db:       db,
		domains:  domains,
		cache:    cache,
		engine:   engine,
		validate: validator.New(),
	}
}

// Routes mounts all handler routes on a fresh chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Post("/apply", h.applyTemplate)
		r.Post("/domains", h.attachDomain)
		r.Delete("/domains/{host}", h.detachDomain)
		r.Post("/domains/invalidate", h.invalidateCache)
	})

	r.Get("/s/{subdomain}", h.tenantContent)
	r.Get("/s/{subdomain}/{slug}", h.tenantContent)

	return r
}

//
// ── Template application ───────────────────────────────────────────────
//

type applyRequest struct {
	TenantID   uint64 `json:"tenant_id"   validate:"required"`
	TemplateID uint64 `json:"template_id" validate:"required"`
}

type applyResponse struct {
	Success          bool     `json:"success"`
	PagesCreated     int      `json:"pages_created"`
	PageSlugs        []string `json:"page_slugs"`
	PageIDs          []uint64 `json:"page_ids"`
	TemplateName     string   `json:"template_name"`
	TemplateCategory string   `json:"template_category"`
	SkippedKeys      []string `json:"skipped_keys,omitempty"`
}

func (h *Handler) applyTemplate(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body", nil)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "tenant_id and template_id are required", nil)
		return
	}

	ten, err := tenant.ByID(r.Context(), h.db, req.TenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "tenant not found", nil)
			return
		}
		zap.L().Error("tenant lookup failed", zap.Uint64("tenant_id", req.TenantID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "tenant lookup failed", err)
		return
	}

	tpl, err := template.ByID(r.Context(), h.db, req.TemplateID)
	if err != nil {
		if errors.Is(err, template.ErrNotFound) {
			writeError(w, http.StatusNotFound, "template not found", nil)
			return
		}
		zap.L().Error("template lookup failed", zap.Uint64("template_id", req.TemplateID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "template lookup failed", err)
		return
	}

	result, err := h.engine.Apply(r.Context(), ten, tpl)
	if err != nil {
		var verr *apply.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, verr.Error(), nil)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error(), err)
		return
	}

	writeJSON(w, http.StatusOK, applyResponse{
		Success:          true,
		PagesCreated:     result.PagesCreated,
		PageSlugs:        result.Slugs,
		PageIDs:          result.PageIDs,
		TemplateName:     result.TemplateName,
		TemplateCategory: result.TemplateCategory,
		SkippedKeys:      result.SkippedKeys,
	})
}

//
// ── Domain management ──────────────────────────────────────────────────
//

type attachRequest struct {
	Host      string `json:"host"      validate:"required,hostname"`
	Subdomain string `json:"subdomain" validate:"required"`
}

func (h *Handler) attachDomain(w http.ResponseWriter, r *http.Request) {
	var req attachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body", nil)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "host and subdomain are required", nil)
		return
	}

	if err := h.domains.Attach(r.Context(), req.Host, req.Subdomain); err != nil {
		zap.L().Error("domain attach failed", zap.String("host", req.Host), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "domain attach failed", err)
		return
	}
	h.cache.Invalidate()

	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}

func (h *Handler) detachDomain(w http.ResponseWriter, r *http.Request) {
	host := chi.URLParam(r, "host")
	if host == "" {
		writeError(w, http.StatusBadRequest, "host is required", nil)
		return
	}

	if err := h.domains.Detach(r.Context(), host); err != nil {
		zap.L().Error("domain detach failed", zap.String("host", host), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "domain detach failed", err)
		return
	}
	h.cache.Invalidate()

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) invalidateCache(w http.ResponseWriter, r *http.Request) {
	h.cache.Invalidate()
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

//
// ── Tenant content ─────────────────────────────────────────────────────
//

// tenantContent serves one stored page.  This is plain byte delivery, not
// a rendering layer: the apply engine already produced final markup.
func (h *Handler) tenantContent(w http.ResponseWriter, r *http.Request) {
	sub := chi.URLParam(r, "subdomain")

	slug := chi.URLParam(r, "slug")
	if slug == "" {
		slug = r.URL.Query().Get("page")
	}
	if slug == "" {
		slug = "home"
	}
	// Host rewrites put the whole original path in `page`; only the first
	// segment names the page.
	if i := strings.IndexByte(slug, '/'); i != -1 {
		slug = slug[:i]
	}

	ten, err := tenant.BySubdomain(r.Context(), h.db, sub)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	p, err := page.BySlug(r.Context(), h.db, ten.ID, slug)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if info := requestinfo.FromContext(r.Context()); info != nil && info.UA.IsBot {
		zap.L().Debug("bot visit",
			zap.String("subdomain", sub),
			zap.String("slug", slug),
			zap.String("ua", info.UA.Browser))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(renderPage(ten, p)))
}

// renderPage wraps stored page fragments in a minimal document shell.
func renderPage(ten *tenant.Record, p *page.Page) string {
	var b strings.Builder
	b.WriteString("<!doctype html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(p.Title)
	if ten.Title != "" {
		b.WriteString(" – " + ten.Title)
	}
	b.WriteString("</title>\n")
	if p.CSS != "" {
		b.WriteString("<style>\n" + p.CSS + "\n</style>\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(p.HTML)
	if p.JS != "" {
		b.WriteString("\n<script>\n" + p.JS + "\n</script>")
	}
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

//
// ── JSON helpers ───────────────────────────────────────────────────────
//

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the standard error envelope.  The MySQL error number
// is surfaced when the wrapped cause carries one; everything else stays
// in the logs.
func writeError(w http.ResponseWriter, status int, msg string, cause error) {
	body := map[string]any{"success": false, "error": msg}

	var myerr *mysql.MySQLError
	if errors.As(cause, &myerr) {
		body["storage_code"] = myerr.Number
	}
	writeJSON(w, status, body)
}
