package staff

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/caramelohq/grooming-platform/internal/tenancy"
)

func TestListRequiresAdmin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	h := NewHandler(NewRepository(mock), nil)

	req := httptest.NewRequest(http.MethodGet, "/staff", nil)
	ctx := tenancy.WithOrgID(req.Context(), "0b54a9f2-95a4-4f90-9f05-000000000001")
	ctx = tenancy.WithUser(ctx, "0b54a9f2-95a4-4f90-9f05-000000000009", tenancy.RoleGroomer)
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for non-admin", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("repository should not be touched: %v", err)
	}
}

func TestListRequiresOrgContext(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	h := NewHandler(NewRepository(mock), nil)

	req := httptest.NewRequest(http.MethodGet, "/staff", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 without org context", rec.Code)
	}
}
