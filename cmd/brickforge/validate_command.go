package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "validate <set-number>",
		Short: "Check a set number against the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ctx.client().Validate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			if !resp.Valid {
				return fmt.Errorf("set %s not found in the catalog", args[0])
			}
			fmt.Fprintf(out, "%s resolves to %s: %s (%d, %d parts)\n",
				args[0], resp.Resolved, resp.Name, resp.Year, resp.NumParts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON output")
	return cmd
}
