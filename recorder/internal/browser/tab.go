package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Tab is one recorded page.
type Tab struct {
	Page    *rod.Page
	PageURL string
	TabID   string
}

// OpenTab creates a blank tab with stealth and resource blocking applied.
// Install trackers before calling Navigate.
func OpenTab(ctx context.Context, mgr *Manager, tabID string) (*Tab, error) {
	b := mgr.Browser()
	if b == nil {
		return nil, fmt.Errorf("browser: no active browser")
	}

	var page *rod.Page
	var err error
	if mgr.cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	if len(mgr.cfg.ResourceBlocking) > 0 {
		applyResourceBlocking(page, mgr.cfg.ResourceBlocking)
	}

	return &Tab{Page: page.Context(ctx), TabID: tabID}, nil
}

// Navigate loads pageURL and waits for the load event, 30s at most.
func (t *Tab) Navigate(ctx context.Context, pageURL string) error {
	navCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := t.Page.Context(navCtx).Navigate(pageURL); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	t.PageURL = pageURL
	if err := t.Page.Context(navCtx).WaitLoad(); err != nil {
		return fmt.Errorf("browser: wait load %s: %w", pageURL, err)
	}
	return nil
}

// Close closes the tab.
func (t *Tab) Close() error {
	if t.Page != nil {
		return t.Page.Close()
	}
	return nil
}

// HTML returns the current document serialised by the browser.
func (t *Tab) HTML(ctx context.Context) (string, error) {
	html, err := t.Page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("browser: html: %w", err)
	}
	return html, nil
}
