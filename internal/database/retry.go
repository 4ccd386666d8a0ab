package database

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/caramelohq/grooming-platform/pkg/logging"
)

// WithRetry decorates a DB with bounded retries for transient connection
// failures. Business-rule errors (constraint violations, not-found) are never
// retried; they surface on the first attempt.
type WithRetry struct {
	inner       DB
	maxAttempts int
	baseDelay   time.Duration
	logger      *logging.Logger
}

// NewWithRetry wraps db. maxAttempts counts the first try; delay grows
// linearly (baseDelay, 2*baseDelay, ...) between attempts.
func NewWithRetry(db DB, maxAttempts int, baseDelay time.Duration, logger *logging.Logger) *WithRetry {
	if db == nil {
		panic("database: inner DB required")
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 250 * time.Millisecond
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WithRetry{inner: db, maxAttempts: maxAttempts, baseDelay: baseDelay, logger: logger}
}

func (w *WithRetry) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	var rows pgx.Rows
	err := w.do(ctx, func() error {
		var err error
		rows, err = w.inner.Query(ctx, sql, args...)
		return err
	})
	return rows, err
}

// QueryRow cannot be retried: pgx defers errors to Scan. It passes through.
func (w *WithRetry) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return w.inner.QueryRow(ctx, sql, args...)
}

func (w *WithRetry) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	var tag pgconn.CommandTag
	err := w.do(ctx, func() error {
		var err error
		tag, err = w.inner.Exec(ctx, sql, args...)
		return err
	})
	return tag, err
}

func (w *WithRetry) Begin(ctx context.Context) (pgx.Tx, error) {
	var tx pgx.Tx
	err := w.do(ctx, func() error {
		var err error
		tx, err = w.inner.Begin(ctx)
		return err
	})
	return tx, err
}

func (w *WithRetry) do(ctx context.Context, op func() error) error {
	var err error
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		err = op()
		if err == nil || !IsTransient(err) {
			return err
		}
		if attempt == w.maxAttempts {
			break
		}
		delay := time.Duration(attempt) * w.baseDelay
		w.logger.Warn("transient database error, retrying",
			"attempt", attempt,
			"max_attempts", w.maxAttempts,
			"delay_ms", delay.Milliseconds(),
			"error", err,
		)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

// IsTransient reports whether err is a connection-level failure worth
// retrying. Anything carrying a SQLSTATE is a server verdict and is final.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED)
}
