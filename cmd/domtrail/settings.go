package main

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/domtrail/dbopen"
	"github.com/hazyhaar/domtrail/recorder"
)

func (a *app) openSettings() (*sql.DB, error) {
	if a.settingsDB == "" {
		return nil, fmt.Errorf("settings: --settings-db is required")
	}
	return dbopen.Open(a.settingsDB, dbopen.WithMkdirAll(), dbopen.WithSchema(recorder.SettingsSchema))
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func settingsView(s *recorder.Settings) map[string]any {
	return map[string]any{
		"id":                   s.ID,
		"attributes_to_store":  s.Attributes,
		"id_exclusion_pattern": s.IDExclusion,
		"updated_at":           s.UpdatedAt,
	}
}

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage locator settings stored in --settings-db",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "save",
			Short: "Store the locator section of --config as the settings profile",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := a.loadConfig()
				if err != nil {
					return err
				}
				db, err := a.openSettings()
				if err != nil {
					return err
				}
				defer db.Close()

				s := recorder.SettingsFromConfig(a.settingsID, cfg.Locator)
				if err := recorder.SaveSettings(cmd.Context(), db, s); err != nil {
					return err
				}
				a.logger.Info("domtrail: settings saved", "profile", s.ID, "attributes", len(s.Attributes))
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the stored settings profile as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, err := a.openSettings()
				if err != nil {
					return err
				}
				defer db.Close()

				s, err := recorder.LoadSettings(cmd.Context(), db, a.settingsID)
				if err != nil {
					return err
				}
				return printJSON(cmd, settingsView(s))
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print every stored settings profile as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, err := a.openSettings()
				if err != nil {
					return err
				}
				defer db.Close()

				list, err := recorder.ListSettings(cmd.Context(), db)
				if err != nil {
					return err
				}
				views := make([]map[string]any, len(list))
				for i, s := range list {
					views[i] = settingsView(s)
				}
				return printJSON(cmd, views)
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the settings profile",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, err := a.openSettings()
				if err != nil {
					return err
				}
				defer db.Close()
				return recorder.DeleteSettings(cmd.Context(), db, a.settingsID)
			},
		},
	)
	return cmd
}
