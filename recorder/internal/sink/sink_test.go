package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hazyhaar/domtrail/recorder/capture"
)

func testRecord() capture.Record {
	return capture.Record{ID: "rec-1", SessionID: "s", Type: "click", Locator: "//*[@id='a']//*[@name='b']"}
}

func TestStdout(t *testing.T) {
	var buf bytes.Buffer
	s := NewStdout(&buf)
	if err := s.Send(context.Background(), testRecord()); err != nil {
		t.Fatal(err)
	}
	if err := s.Send(context.Background(), testRecord()); err != nil {
		t.Fatal(err)
	}

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("lines: got %d, want 2", len(lines))
	}
	var env struct {
		Type string         `json:"type"`
		Data capture.Record `json:"data"`
	}
	if err := json.Unmarshal(lines[0], &env); err != nil {
		t.Fatal(err)
	}
	if env.Type != "record" || env.Data.Locator != testRecord().Locator {
		t.Fatalf("envelope: %+v", env)
	}
}

func TestWebhook_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type: %q", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("X-Domtrail-Record") != "rec-1" || r.Header.Get("X-Domtrail-Session") != "s" {
			t.Errorf("delivery headers: %v", r.Header)
		}
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, WithWebhookBackoff(time.Millisecond))
	if err := wh.Send(context.Background(), testRecord()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("calls: got %d, want 3", got)
	}
}

func TestWebhook_Exhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, WithWebhookRetries(2), WithWebhookBackoff(time.Millisecond))
	if err := wh.Send(context.Background(), testRecord()); err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("calls: got %d, want 3", got)
	}
}

func TestWebhook_ClientErrorNotRetried(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusTooManyRequests} {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(code)
		}))

		wh := NewWebhook(srv.URL, WithWebhookRetries(2), WithWebhookBackoff(time.Millisecond))
		if err := wh.Send(context.Background(), testRecord()); err == nil {
			t.Fatalf("%d: expected error", code)
		}
		want := int32(3)
		if code == http.StatusBadRequest {
			want = 1
		}
		if got := calls.Load(); got != want {
			t.Fatalf("%d: calls = %d, want %d", code, got, want)
		}
		srv.Close()
	}
}

func TestWebhook_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	wh := NewWebhook(srv.URL, WithWebhookBackoff(time.Hour))
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if err := wh.Send(ctx, testRecord()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

type failing struct{ err error }

func (f failing) Send(context.Context, capture.Record) error { return f.err }
func (f failing) Close() error                                { return nil }

func TestRouter_FirstErrorAndFanOut(t *testing.T) {
	var got []string
	cb := NewCallback(func(_ context.Context, rec capture.Record) error {
		got = append(got, rec.ID)
		return nil
	})
	first := errors.New("first")
	r := NewRouter(nil, failing{first}, cb, failing{errors.New("second")})

	if err := r.Send(context.Background(), testRecord()); !errors.Is(err, first) {
		t.Fatalf("err = %v, want first", err)
	}
	if len(got) != 1 || got[0] != "rec-1" {
		t.Fatalf("callback not reached: %v", got)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestCallback_Nil(t *testing.T) {
	if err := NewCallback(nil).Send(context.Background(), testRecord()); err != nil {
		t.Fatal(err)
	}
}
