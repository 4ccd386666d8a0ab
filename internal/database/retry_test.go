package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

type scriptedDB struct {
	execErrs  []error
	execCalls int
}

func (s *scriptedDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (s *scriptedDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (s *scriptedDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	idx := s.execCalls
	s.execCalls++
	if idx < len(s.execErrs) {
		return pgconn.CommandTag{}, s.execErrs[idx]
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (s *scriptedDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("not implemented")
}

func TestWithRetryRecoversFromTransientError(t *testing.T) {
	db := &scriptedDB{execErrs: []error{timeoutErr{}, timeoutErr{}}}
	wrapped := NewWithRetry(db, 3, time.Millisecond, nil)

	_, err := wrapped.Exec(context.Background(), "UPDATE appointments SET status = $1", "CONFIRMED")
	require.NoError(t, err)
	assert.Equal(t, 3, db.execCalls)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	db := &scriptedDB{execErrs: []error{timeoutErr{}, timeoutErr{}, timeoutErr{}, timeoutErr{}}}
	wrapped := NewWithRetry(db, 3, time.Millisecond, nil)

	_, err := wrapped.Exec(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.Equal(t, 3, db.execCalls)
}

func TestWithRetryDoesNotRetryBusinessErrors(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23P01", Message: "exclusion violation"}
	db := &scriptedDB{execErrs: []error{pgErr}}
	wrapped := NewWithRetry(db, 3, time.Millisecond, nil)

	_, err := wrapped.Exec(context.Background(), "INSERT INTO appointments ...")
	require.Error(t, err)
	assert.Equal(t, 1, db.execCalls, "constraint violations must fail immediately")
}

func TestWithRetryHonorsContextCancellation(t *testing.T) {
	db := &scriptedDB{execErrs: []error{timeoutErr{}, timeoutErr{}, timeoutErr{}}}
	wrapped := NewWithRetry(db, 3, 200*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := wrapped.Exec(ctx, "SELECT 1")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, db.execCalls)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("appointment not found")))
	assert.False(t, IsTransient(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsTransient(timeoutErr{}))
}
