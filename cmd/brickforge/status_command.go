package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"brickforge/internal/api"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status <set-number>",
		Short: "Show processing status for a set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ctx.client().Status(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, resp)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderStatus(resp))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON output")
	return cmd
}

func renderStatus(resp *api.StatusResponse) string {
	var b strings.Builder
	titler := cases.Title(language.Und)

	fmt.Fprintf(&b, "Set:      %s\n", resp.SetNumber)
	fmt.Fprintf(&b, "Status:   %s\n", titler.String(string(resp.Status)))
	if resp.Status != "unknown" {
		fmt.Fprintf(&b, "Progress: %d%%\n", resp.Progress)
	}
	if resp.Message != "" {
		fmt.Fprintf(&b, "Message:  %s\n", resp.Message)
	}
	if resp.CompletedAt != "" {
		fmt.Fprintf(&b, "Finished: %s\n", resp.CompletedAt)
	}
	if resp.Stats != nil {
		fmt.Fprintf(&b, "Result:   %s\n", resp.Stats.Summary())
		for _, failed := range resp.Stats.FailedParts {
			fmt.Fprintf(&b, "  part %s: %s\n", failed.PartNum, failed.Reason)
		}
	}
	return b.String()
}
