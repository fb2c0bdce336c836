// Command domtrail computes and records robust element locators.
//
// Usage:
//
//	domtrail locate --file page.html --target 'button.save' --verify
//	domtrail locate --file page.html --target '//li[2]' --detach
//	domtrail serve --addr :8090            # HTTP API + /metrics
//	domtrail serve --mcp-stdio             # MCP tools on stdin/stdout
//	domtrail record --config domtrail.yaml # capture interactions in Chrome
//	domtrail record --url https://example.com
//	domtrail settings save --config domtrail.yaml --settings-db settings.db
//	domtrail session-id
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/domtrail/locator"
	"github.com/hazyhaar/domtrail/recorder"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "domtrail:", err)
		os.Exit(1)
	}
}

// app holds the global flags shared by every subcommand.
type app struct {
	configPath string
	settingsDB string
	settingsID string
	logLevel   string

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "domtrail",
		Short:         "Robust XPath/CSS locators for DOM elements",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.logger = newLogger(a.logLevel, cmd.ErrOrStderr())
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to domtrail.yaml")
	pf.StringVar(&a.settingsDB, "settings-db", "", "SQLite database holding locator settings")
	pf.StringVar(&a.settingsID, "settings-id", recorder.DefaultSettingsID, "settings profile to use")
	pf.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		newLocateCmd(a),
		newServeCmd(a),
		newRecordCmd(a),
		newSettingsCmd(a),
		newSessionIDCmd(a),
	)
	return root
}

func newLogger(level string, w io.Writer) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: l}))
}

// loadConfig reads --config, or returns the defaults when it is unset.
func (a *app) loadConfig() (*recorder.Config, error) {
	if a.configPath == "" {
		return recorder.DefaultConfig(), nil
	}
	cfg, err := recorder.LoadConfigFile(a.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// options resolves the locator options: the settings profile when
// --settings-db holds one, the config file otherwise.
func (a *app) options(ctx context.Context, cfg *recorder.Config) (*locator.Options, error) {
	if a.settingsDB == "" {
		return cfg.Options()
	}
	db, err := a.openSettings()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	s, err := recorder.LoadSettings(ctx, db, a.settingsID)
	if errors.Is(err, recorder.ErrSettingsNotFound) {
		a.logger.Info("domtrail: no stored settings, using config", "profile", a.settingsID)
		return cfg.Options()
	}
	if err != nil {
		return nil, err
	}
	a.logger.Debug("domtrail: using stored settings", "profile", s.ID, "updated_at", s.UpdatedAt)
	return s.Options()
}
