// Package tracker installs the capture script in a tab and turns binding
// calls into capture payloads.
package tracker

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/domtrail/recorder/capture"
)

//go:embed capture.js
var captureJS string

// Binding is the runtime binding the capture script calls.
const Binding = "__domtrail_binding"

// DefaultEvents are captured when Config.Events is empty.
var DefaultEvents = []string{"click", "change", "submit"}

// Handler receives each decoded payload.
type Handler func(ctx context.Context, p capture.Payload)

// Config for creating a Tracker.
type Config struct {
	Page    *rod.Page
	Events  []string
	Handler Handler
	Logger  *slog.Logger
}

// Tracker captures interactions on one page.
type Tracker struct {
	page    *rod.Page
	events  []string
	handler Handler
	logger  *slog.Logger
	cancel  context.CancelFunc
	remove  func() error
}

// New creates a Tracker. Call Start to install it.
func New(cfg Config) *Tracker {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if len(cfg.Events) == 0 {
		cfg.Events = DefaultEvents
	}
	return &Tracker{page: cfg.Page, events: cfg.Events, handler: cfg.Handler, logger: cfg.Logger}
}

// Script returns the JavaScript installed in every document of the page.
func Script(events []string) (string, error) {
	list, err := json.Marshal(events)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("window.__domtrail_events = %s;\n%s", list, captureJS), nil
}

// Start adds the binding, registers the script for future documents,
// runs it in the current one and starts listening.
func (t *Tracker) Start(ctx context.Context) error {
	script, err := Script(t.events)
	if err != nil {
		return fmt.Errorf("tracker: script: %w", err)
	}

	if err := (proto.RuntimeAddBinding{Name: Binding}).Call(t.page); err != nil {
		return fmt.Errorf("tracker: add binding: %w", err)
	}

	ctx, t.cancel = context.WithCancel(ctx)
	wait := t.page.Context(ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != Binding {
			return
		}
		p, err := Decode(e.Payload)
		if err != nil {
			t.logger.Warn("tracker: bad payload", "error", err)
			return
		}
		t.handler(ctx, p)
	})
	go wait()

	remove, err := t.page.EvalOnNewDocument(script)
	if err != nil {
		t.cancel()
		return fmt.Errorf("tracker: eval on new document: %w", err)
	}
	t.remove = remove

	if _, err := (proto.RuntimeEvaluate{Expression: script}).Call(t.page); err != nil {
		t.logger.Warn("tracker: inject in current document failed", "error", err)
	}
	t.logger.Debug("tracker: installed", "events", t.events)
	return nil
}

// Stop stops listening and unregisters the script for future documents.
func (t *Tracker) Stop() {
	if t.cancel != nil {
		t.cancel()
	}
	if t.remove != nil {
		if err := t.remove(); err != nil {
			t.logger.Debug("tracker: remove script", "error", err)
		}
	}
}

// Decode parses a binding payload.
func Decode(raw string) (capture.Payload, error) {
	var p capture.Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return p, fmt.Errorf("tracker: decode: %w", err)
	}
	if p.Type == "" || len(p.Target.Elements) == 0 {
		return p, fmt.Errorf("tracker: decode: missing type or target")
	}
	return p, nil
}
