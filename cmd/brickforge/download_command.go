package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <set-number> [part-number]",
		Short: "Download a set's meshes as a zip, or one part's mesh",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			setNumber := args[0]
			client := ctx.client()
			out := cmd.OutOrStdout()

			if len(args) == 2 {
				partNum := strings.TrimSuffix(args[1], ".stl")
				dest := output
				if dest == "" {
					dest = partNum + ".stl"
				}
				if err := client.DownloadSTL(cmd.Context(), setNumber, partNum, dest); err != nil {
					return err
				}
				fmt.Fprintf(out, "Saved %s\n", dest)
				return nil
			}

			dest := output
			if dest == "" {
				dest = setNumber + "_stls.zip"
			}
			if err := client.DownloadZip(cmd.Context(), setNumber, dest); err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file path")
	return cmd
}
