package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/domtrail/recorder"
)

func newRecordCmd(a *app) *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record interactions on the configured pages, or on --url",
		Long: `Launch Chrome (or connect to browser.remote), open the configured pages
and emit one record per captured interaction to the configured sinks until
interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if a.configPath == "" && url == "" {
				return fmt.Errorf("record: --config or --url is required")
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if url != "" {
				cfg.Pages = []recorder.PageConfig{{ID: recorder.NewTabID(), URL: url}}
			}
			opts, err := a.options(ctx, cfg)
			if err != nil {
				return err
			}

			sinks, err := recorder.SinksFromConfig(cfg.Sinks, cmd.OutOrStdout(), a.logger)
			if err != nil {
				return err
			}
			rec, err := recorder.New(cfg, opts, a.logger, sinks...)
			if err != nil {
				return err
			}
			if err := rec.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			rec.Stop()
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "record a single URL (stdout sink unless configured)")
	return cmd
}
