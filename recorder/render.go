package recorder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/domtrail/recorder/internal/browser"
)

// RenderHTML loads pageURL in a browser configured by cfg.Browser and
// returns the rendered document, for pages whose markup is built by
// scripts. The browser is closed before returning.
func RenderHTML(ctx context.Context, cfg *Config, pageURL string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	mgr := newManager(cfg, logger)
	if _, err := mgr.Start(ctx); err != nil {
		return "", fmt.Errorf("recorder: render: %w", err)
	}
	defer mgr.Close()

	tab, err := browser.OpenTab(ctx, mgr, NewTabID())
	if err != nil {
		return "", fmt.Errorf("recorder: render: %w", err)
	}
	defer tab.Close()

	if err := tab.Navigate(ctx, pageURL); err != nil {
		return "", fmt.Errorf("recorder: render: %w", err)
	}
	html, err := tab.HTML(ctx)
	if err != nil {
		return "", fmt.Errorf("recorder: render: %w", err)
	}
	logger.Debug("recorder: rendered", "url", pageURL, "size", len(html))
	return html, nil
}
