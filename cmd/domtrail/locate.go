package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/domtrail/domlocate"
	"github.com/hazyhaar/domtrail/internal/fetch"
	"github.com/hazyhaar/domtrail/recorder"
)

const (
	renderAuto   = "auto"
	renderAlways = "always"
	renderNever  = "never"
)

func newLocateCmd(a *app) *cobra.Command {
	var (
		file   string
		url    string
		render string
		req    domlocate.LocateRequest
	)
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Compute the locators of one element of an HTML file",
		Long: `Parse an HTML document, find the element matched by --target (XPath or
CSS selector) and print its locators as JSON. With --detach the target is
removed from the document first and the locator is qualified by --anchor,
its former parent by default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			var src string
			if url != "" {
				src, err = fetchSource(cmd.Context(), a, cfg, url, render)
			} else {
				src, err = readSource(cmd, file)
			}
			if err != nil {
				return err
			}
			req.HTML = src
			opts, err := a.options(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			svc := domlocate.New(domlocate.Config{Options: opts, Logger: a.logger})
			resp, err := svc.Locate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	f := cmd.Flags()
	f.StringVar(&file, "file", "-", "HTML file, - for stdin")
	f.StringVar(&url, "url", "", "fetch the document from a URL instead of --file")
	f.StringVar(&render, "render", renderAuto, "browser rendering of --url: auto, always, never")
	f.StringVar(&req.Target, "target", "", "XPath or CSS selector of the element")
	f.StringVar(&req.Anchor, "anchor", "", "node qualifying a detached target")
	f.BoolVar(&req.Detach, "detach", false, "compute as if the target had been removed")
	f.BoolVar(&req.Verify, "verify", false, "resolve the locator back on the document")
	_ = cmd.MarkFlagRequired("target")
	cmd.MarkFlagsMutuallyExclusive("file", "url")
	return cmd
}

func readSource(cmd *cobra.Command, file string) (string, error) {
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("read html: %w", err)
	}
	return string(data), nil
}

// fetchSource downloads url, escalating to a browser render when the
// document is a script shell (auto) or unconditionally (always).
func fetchSource(ctx context.Context, a *app, cfg *recorder.Config, url, render string) (string, error) {
	switch render {
	case renderAlways:
		return recorder.RenderHTML(ctx, cfg, url, a.logger)
	case renderAuto, renderNever:
	default:
		return "", fmt.Errorf("locate: unknown --render %q", render)
	}

	res, err := fetch.New(fetch.WithLogger(a.logger)).Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	if !res.Sufficient && render == renderAuto {
		a.logger.Info("domtrail: page needs rendering, escalating to browser", "url", url)
		return recorder.RenderHTML(ctx, cfg, url, a.logger)
	}
	return string(res.HTML), nil
}
