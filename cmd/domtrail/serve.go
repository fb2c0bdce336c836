package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/domtrail/domlocate"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr     string
		mcpStdio bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the locator API over HTTP, or as MCP tools on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			opts, err := a.options(ctx, cfg)
			if err != nil {
				return err
			}
			svc := domlocate.New(domlocate.Config{
				Options: opts,
				Metrics: domlocate.NewMetrics(),
				Logger:  a.logger,
			})

			if mcpStdio {
				srv := mcp.NewServer(&mcp.Implementation{Name: "domtrail", Version: version}, nil)
				svc.RegisterMCP(srv)
				a.logger.Info("domtrail: serving MCP on stdio")
				return srv.Run(ctx, &mcp.StdioTransport{})
			}

			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}
			return serveHTTP(ctx, a, addr, svc.Handler())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8090", "HTTP listen address (default from config server.addr)")
	cmd.Flags().BoolVar(&mcpStdio, "mcp-stdio", false, "serve MCP tools on stdin/stdout instead of HTTP")
	return cmd
}

func serveHTTP(ctx context.Context, a *app, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("domtrail: server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("domtrail: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.logger.Info("domtrail: server stopped")
	return nil
}
