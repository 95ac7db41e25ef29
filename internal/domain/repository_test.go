// internal/domain/repository_test.go
//
// Unit-tests for the sqlx mapping store using sqlmock.
//
// Run: go test ./internal/domain -v

package domain

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepo(sqlx.NewDb(db, "sqlmock")), mock
}

func TestListMappings(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT host, tenant_subdomain FROM domain_mapping`,
	)).WillReturnRows(
		sqlmock.NewRows([]string{"host", "tenant_subdomain"}).
			AddRow("shop.example.com", "myshop").
			AddRow("acme.io", "acme"))

	got, err := repo.ListMappings(context.Background())
	if err != nil {
		t.Fatalf("ListMappings error: %v", err)
	}
	if len(got) != 2 || got[0].Subdomain != "myshop" {
		t.Fatalf("unexpected result: %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestAttach_LowercasesHost(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO domain_mapping (host, tenant_subdomain) VALUES (?, ?)`,
	)).
		WithArgs("shop.example.com", "myshop").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Attach(context.Background(), "Shop.Example.COM", "myshop"); err != nil {
		t.Fatalf("Attach error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
