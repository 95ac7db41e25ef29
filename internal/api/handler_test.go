// internal/api/handler_test.go
//
// Handler tests run against a sqlmock-backed sqlx pool and httptest.

package api

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/weave/internal/apply"
	"github.com/yanizio/weave/internal/domain"
)

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { raw.Close() })

	db := sqlx.NewDb(raw, "sqlmock")
	domains := domain.NewRepo(db)
	cache := domain.NewCache(domains, time.Minute, nil)
	engine := apply.New(db, 5*time.Second)
	return New(db, domains, cache, engine), mock
}

func TestApplyTemplate_MalformedBody(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/apply", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestApplyTemplate_MissingFields(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/apply", strings.NewReader(`{"tenant_id": 7}`))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestApplyTemplate_UnknownTenant(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery("SELECT id, subdomain, custom_domain").
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodPost, "/api/apply",
		strings.NewReader(`{"tenant_id": 99, "template_id": 1}`))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestTenantContent_ServesPage(t *testing.T) {
	h, mock := newTestHandler(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, subdomain, custom_domain").
		WithArgs("myshop").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "subdomain", "custom_domain", "title",
			"suspended_at", "deleted_at", "created_at", "updated_at",
		}).AddRow(7, "myshop", nil, "My Shop", nil, nil, now, now))

	mock.ExpectQuery("SELECT id, tenant_id, slug, title, html").
		WithArgs(uint64(7), "about").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "tenant_id", "slug", "title", "html", "css", "js",
			"created_at", "updated_at",
		}).AddRow(11, 7, "about", "About", "<h1>About</h1>", "h1{color:red}", "", now, now))

	// A rewritten host request lands with the original path in `page`;
	// only the first segment selects the page.
	req := httptest.NewRequest(http.MethodGet, "/s/myshop?page=about/extra", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<h1>About</h1>") {
		t.Errorf("body missing page html: %q", body)
	}
	if !strings.Contains(body, "About – My Shop") {
		t.Errorf("body missing composed title: %q", body)
	}
	if !strings.Contains(body, "h1{color:red}") {
		t.Errorf("body missing css: %q", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestTenantContent_UnknownSlugIs404(t *testing.T) {
	h, mock := newTestHandler(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, subdomain, custom_domain").
		WithArgs("myshop").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "subdomain", "custom_domain", "title",
			"suspended_at", "deleted_at", "created_at", "updated_at",
		}).AddRow(7, "myshop", nil, "My Shop", nil, nil, now, now))

	mock.ExpectQuery("SELECT id, tenant_id, slug, title, html").
		WithArgs(uint64(7), "nope").
		WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/s/myshop/nope", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestInvalidateEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/domains/invalidate", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
