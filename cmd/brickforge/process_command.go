package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"brickforge/internal/jobs"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var wait bool

	cmd := &cobra.Command{
		Use:   "process <set-number>",
		Short: "Submit a set for processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setNumber := args[0]
			client := ctx.client()

			resp, err := client.Process(cmd.Context(), setNumber)
			if err != nil {
				return err
			}

			if jsonOutput && !wait {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", resp.SetNumber, resp.Message)

			if !wait || resp.JobID == "" {
				return nil
			}

			// Poll until the job settles. The daemon keeps job state in
			// memory, so this only works against the submitting daemon.
			for {
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-time.After(2 * time.Second):
				}

				status, err := client.Status(cmd.Context(), setNumber)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %3d%%  %s\n", status.Progress, status.Message)
				if status.Status == jobs.StatusCompleted || status.Status == jobs.StatusFailed {
					if jsonOutput {
						return writeJSON(cmd, status)
					}
					if status.Status == jobs.StatusFailed {
						return fmt.Errorf("processing failed: %s", status.Message)
					}
					return nil
				}
			}
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON output")
	cmd.Flags().BoolVar(&wait, "wait", false, "Poll until processing finishes")
	return cmd
}
