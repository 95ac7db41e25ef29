// internal/page/repository_test.go
//
// Unit-tests for the page store using sqlmock.
//
// Run: go test ./internal/page -v

package page

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestListByTenant(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT id, tenant_id, slug, title, html, css, js, created_at, updated_at FROM\s+page`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "tenant_id", "slug", "title", "html", "css", "js"}).
			AddRow(1, 7, "about", "About", "<p>a</p>", "", "").
			AddRow(2, 7, "home", "Home", "<p>h</p>", "", ""))

	got, err := ListByTenant(context.Background(), db, 7)
	if err != nil {
		t.Fatalf("ListByTenant error: %v", err)
	}
	if len(got) != 2 || got[0].Slug != "about" || got[1].Slug != "home" {
		t.Fatalf("unexpected result: %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestInsertBatch_MultiRow(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`INSERT INTO page`).
		WillReturnResult(sqlmock.NewResult(2, 2))

	pages := []Page{
		{TenantID: 7, Slug: "home", Title: "Home", HTML: "<p>h</p>"},
		{TenantID: 7, Slug: "about", Title: "About", HTML: "<p>a</p>"},
	}
	if err := InsertBatch(context.Background(), db, pages); err != nil {
		t.Fatalf("InsertBatch error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestInsertBatch_EmptyIsNoop(t *testing.T) {
	db, mock := newMockDB(t)

	if err := InsertBatch(context.Background(), db, nil); err != nil {
		t.Fatalf("InsertBatch(nil) error: %v", err)
	}
	// No expectations registered: any statement would have failed the mock.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected SQL executed: %v", err)
	}
}

func TestFindBySlugs_SortsAndExpands(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT id, tenant_id, slug FROM\s+page`).
		WithArgs(uint64(7), "about", "home").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "slug"}).
			AddRow(11, 7, "about").
			AddRow(12, 7, "home"))

	got, err := FindBySlugs(context.Background(), db, 7, []string{"home", "about"})
	if err != nil {
		t.Fatalf("FindBySlugs error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 11 || got[1].ID != 12 {
		t.Fatalf("unexpected result: %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
