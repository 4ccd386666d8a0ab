package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
)

var (
	testOrgID    = uuid.MustParse("0b54a9f2-95a4-4f90-9f05-000000000001")
	testClientID = uuid.MustParse("0b54a9f2-95a4-4f90-9f05-000000000002")
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestCreateRejectsDuplicatePhone(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM clients WHERE organization_id = \$1 AND phone = \$2\)`).
		WithArgs(testOrgID, "11999990000").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewRepository(mock)
	_, err := repo.Create(context.Background(), testOrgID, Input{Name: "Maria", Phone: "11999990000"})
	if !errors.Is(err, ErrDuplicatePhone) {
		t.Fatalf("err = %v, want ErrDuplicatePhone", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateInsertsClient(t *testing.T) {
	mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(testOrgID, "11999990000").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO clients`).
		WithArgs(pgxmock.AnyArg(), testOrgID, "Maria", "11999990000", (*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "organization_id", "name", "phone", "email", "cpf", "address", "notes", "pet_count", "created_at", "updated_at"}).
			AddRow(testClientID, testOrgID, "Maria", "11999990000", nil, nil, nil, nil, 0, now, now))

	repo := NewRepository(mock)
	c, err := repo.Create(context.Background(), testOrgID, Input{Name: "Maria", Phone: "11999990000"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.Name != "Maria" || c.Phone != "11999990000" {
		t.Errorf("unexpected client: %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT .* FROM clients c WHERE c\.id = \$1 AND c\.organization_id = \$2`).
		WithArgs(testClientID, testOrgID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	repo := NewRepository(mock)
	_, err := repo.GetByID(context.Background(), testOrgID, testClientID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteRefusesWhenAppointmentsExist(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments WHERE client_id = \$1 AND organization_id = \$2`).
		WithArgs(testClientID, testOrgID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	repo := NewRepository(mock)
	err := repo.Delete(context.Background(), testOrgID, testClientID)
	if err == nil {
		t.Fatal("expected error deleting client with appointments")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeleteRemovesClient(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments`).
		WithArgs(testClientID, testOrgID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectExec(`DELETE FROM clients WHERE id = \$1 AND organization_id = \$2`).
		WithArgs(testClientID, testOrgID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := NewRepository(mock)
	if err := repo.Delete(context.Background(), testOrgID, testClientID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
