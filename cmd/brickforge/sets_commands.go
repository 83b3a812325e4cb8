package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSetsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "sets",
		Short: "List processed sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ctx.client().Sets(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			if resp.Count == 0 {
				fmt.Fprintln(out, "No sets processed yet.")
				return nil
			}

			rows := make([][]string, 0, len(resp.Sets))
			for _, set := range resp.Sets {
				rows = append(rows, []string{
					set.SetNumber,
					set.Name,
					set.Released,
					strconv.Itoa(set.TotalParts),
					strconv.Itoa(set.UniqueParts),
				})
			}
			fmt.Fprintln(out, renderRows(
				[]string{"Set", "Name", "Released", "Parts", "Unique"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON output")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <set-number>",
		Short: "Show a processed set's inventory and mesh coverage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ctx.client().Set(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s (released %s)\n", resp.SetNumber, resp.Name, resp.Released)
			fmt.Fprintf(out, "%d inventory entries, %d unique parts\n\n", resp.TotalParts, resp.UniqueParts)

			rows := make([][]string, 0, len(resp.Parts))
			meshes := 0
			for _, part := range resp.Parts {
				if part.STLExists {
					meshes++
				}
				rows = append(rows, []string{
					part.PartNum,
					part.ColorName,
					strconv.Itoa(part.Quantity),
					yesNo(part.IsSpare),
					yesNo(part.STLExists),
				})
			}
			fmt.Fprintln(out, renderRows(
				[]string{"Part", "Color", "Qty", "Spare", "Mesh"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "\n%d of %d entries have meshes on disk\n", meshes, len(resp.Parts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON output")
	return cmd
}
