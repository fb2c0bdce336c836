// Package recorder drives a Chrome instance, captures user interactions on
// the configured pages and emits one capture.Record per interaction, with
// its locators computed at event time.
//
// The page serialises the target's ancestor chain when the event fires, so
// locators are computed on a frozen copy and never race page mutations.
package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hazyhaar/domtrail/idgen"
	"github.com/hazyhaar/domtrail/locator"
	"github.com/hazyhaar/domtrail/locator/cssgen"
	"github.com/hazyhaar/domtrail/recorder/capture"
	"github.com/hazyhaar/domtrail/recorder/internal/browser"
	"github.com/hazyhaar/domtrail/recorder/internal/config"
	"github.com/hazyhaar/domtrail/recorder/internal/sink"
	"github.com/hazyhaar/domtrail/recorder/internal/tracker"
)

type session struct {
	tab     *browser.Tab
	tracker *tracker.Tracker
}

// Recorder is the top-level orchestrator. It owns the browser, one tracker
// per tab and the sinks.
type Recorder struct {
	cfg       *config.Config
	mgr       *browser.Manager
	asm       *capture.Assembler
	sinkR     *sink.Router
	sessionID string
	logger    *slog.Logger

	mu   sync.Mutex
	tabs map[string]*session
}

// New creates a Recorder. opts overrides the locator section of cfg when
// non-nil (settings loaded from the database).
func New(cfg *config.Config, opts *locator.Options, logger *slog.Logger, sinks ...sink.Sink) (*Recorder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts == nil {
		var err error
		if opts, err = cfg.Options(); err != nil {
			return nil, fmt.Errorf("recorder: %w", err)
		}
	}

	return &Recorder{
		cfg:       cfg,
		mgr:       newManager(cfg, logger),
		asm:       capture.NewAssembler(opts, cssgen.New(), nil),
		sinkR:     sink.NewRouter(logger, sinks...),
		sessionID: idgen.NewSession(),
		logger:    logger,
		tabs:      make(map[string]*session),
	}, nil
}

var tabIDs = idgen.Prefixed("tab_", idgen.Default)

// NewTabID returns an id for a page opened outside the configuration.
func NewTabID() string { return tabIDs() }

// SessionID is stamped on every record of this recorder.
func (r *Recorder) SessionID() string { return r.sessionID }

// Start launches the browser and opens every configured page.
func (r *Recorder) Start(ctx context.Context) error {
	if _, err := r.mgr.Start(ctx); err != nil {
		return fmt.Errorf("recorder: start browser: %w", err)
	}
	r.logger.Info("recorder: session started", "session", r.sessionID)

	for _, page := range r.cfg.Pages {
		if err := r.OpenPage(ctx, page); err != nil {
			r.logger.Error("recorder: failed to open page", "url", page.URL, "error", err)
		}
	}
	return nil
}

// OpenPage opens a tab on pageCfg.URL and starts capturing on it.
func (r *Recorder) OpenPage(ctx context.Context, pageCfg config.PageConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tabs[pageCfg.ID]; ok {
		return fmt.Errorf("recorder: tab %s already open", pageCfg.ID)
	}

	tab, err := browser.OpenTab(ctx, r.mgr, pageCfg.ID)
	if err != nil {
		return fmt.Errorf("recorder: open tab: %w", err)
	}

	tr := tracker.New(tracker.Config{
		Page:    tab.Page,
		Events:  r.cfg.Events,
		Handler: r.handler(tab.TabID),
		Logger:  r.logger,
	})
	if err := tr.Start(ctx); err != nil {
		tab.Close()
		return fmt.Errorf("recorder: start tracker: %w", err)
	}

	if err := tab.Navigate(ctx, pageCfg.URL); err != nil {
		r.logger.Warn("recorder: navigation incomplete", "url", pageCfg.URL, "error", err)
	}

	r.tabs[pageCfg.ID] = &session{tab: tab, tracker: tr}
	r.logger.Info("recorder: recording page", "url", pageCfg.URL, "tab", pageCfg.ID)
	return nil
}

// handler returns the tracker callback for one tab.
func (r *Recorder) handler(tabID string) tracker.Handler {
	return func(ctx context.Context, p capture.Payload) {
		r.Emit(ctx, tabID, p)
	}
}

// Emit builds the record of p and sends it to the sinks.
func (r *Recorder) Emit(ctx context.Context, tabID string, p capture.Payload) capture.Record {
	rec := r.asm.Record(r.sessionID, tabID, p)
	if rec.Weak() {
		r.logger.Debug("recorder: no primary locator", "type", rec.Type, "url", rec.URL)
	}
	if err := r.sinkR.Send(ctx, rec); err != nil {
		r.logger.Error("recorder: send record failed", "record", rec.ID, "error", err)
	}
	return rec
}

// Stop stops every tracker, closes the tabs, the sinks and the browser.
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.tabs {
		s.tracker.Stop()
		s.tab.Close()
		r.logger.Info("recorder: stopped tab", "tab", id)
	}
	r.tabs = make(map[string]*session)

	r.sinkR.Close()
	r.mgr.Close()
}

func newManager(cfg *config.Config, logger *slog.Logger) *browser.Manager {
	return browser.NewManager(browser.Config{
		RemoteURL:        cfg.Browser.Remote,
		Headless:         cfg.Browser.Headless,
		Stealth:          cfg.Browser.Stealth,
		ResourceBlocking: cfg.Browser.ResourceBlocking,
		Bin:              cfg.Browser.Bin,
		Logger:           logger,
	})
}
