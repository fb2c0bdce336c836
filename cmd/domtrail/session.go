package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/domtrail/idgen"
)

func newSessionIDCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "session-id",
		Short: "Print a fresh recording session id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), idgen.NewSession())
			return err
		},
	}
}
