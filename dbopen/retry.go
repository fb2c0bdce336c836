package dbopen

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// attempts bounds the retries of a busy statement; the pause grows by
// retryStep after each failure.
const (
	attempts  = 3
	retryStep = 100 * time.Millisecond
)

// IsBusy reports whether err is SQLite lock contention worth retrying.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range []string{"SQLITE_BUSY", "database is locked", "database table is locked"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// Exec runs a statement, retrying while the database is busy.
func Exec(ctx context.Context, db *sql.DB, query string, args ...any) (sql.Result, error) {
	return withRetry(ctx, func() (sql.Result, error) {
		return db.ExecContext(ctx, query, args...)
	})
}

func withRetry[T any](ctx context.Context, op func() (T, error)) (T, error) {
	var zero T
	for i := 1; ; i++ {
		v, err := op()
		if err == nil {
			return v, nil
		}
		if !IsBusy(err) || i == attempts {
			return zero, err
		}
		t := time.NewTimer(time.Duration(i) * retryStep)
		select {
		case <-ctx.Done():
			t.Stop()
			return zero, fmt.Errorf("dbopen: retry: %w", ctx.Err())
		case <-t.C:
		}
	}
}
