package dbopen

import (
	"context"
	"errors"
	"testing"
)

func TestWithRetry(t *testing.T) {
	busy := errors.New("database is locked")

	calls := 0
	v, err := withRetry(context.Background(), func() (int, error) {
		calls++
		if calls < attempts {
			return 0, busy
		}
		return 42, nil
	})
	if err != nil || v != 42 || calls != attempts {
		t.Fatalf("v=%d err=%v calls=%d", v, err, calls)
	}

	calls = 0
	_, err = withRetry(context.Background(), func() (int, error) {
		calls++
		return 0, busy
	})
	if !errors.Is(err, busy) || calls != attempts {
		t.Fatalf("err=%v calls=%d, want busy after %d attempts", err, calls, attempts)
	}

	calls = 0
	other := errors.New("no such table")
	_, err = withRetry(context.Background(), func() (int, error) {
		calls++
		return 0, other
	})
	if !errors.Is(err, other) || calls != 1 {
		t.Fatalf("err=%v calls=%d, want immediate failure", err, calls)
	}
}

func TestWithRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := withRetry(ctx, func() (int, error) {
		return 0, errors.New("SQLITE_BUSY")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
