package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"brickforge/internal/colors"
	"brickforge/internal/converting"
	"brickforge/internal/logging"
	"brickforge/internal/metadata"
	"brickforge/internal/services"
	"brickforge/internal/services/ldraw"
	"brickforge/internal/services/rebrickable"
)

// newConvertCommand runs the whole pipeline for one set in the foreground,
// without a daemon: fetch, persist metadata, convert every unique part.
func newConvertCommand(ctx *commandContext) *cobra.Command {
	var noSkip bool

	cmd := &cobra.Command{
		Use:   "convert <set-number>",
		Short: "Fetch and convert a set locally, without the daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{"stderr"},
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			table, err := colors.LoadTable(cfg.Paths.ColorsCSV)
			if err != nil {
				fmt.Fprintf(out, "Colors table unavailable (%v); using provider colors.\n", err)
				table = colors.Empty()
			}
			store, err := metadata.NewStore(cfg.Paths.SetsDir, table, logger)
			if err != nil {
				return err
			}
			provider, err := rebrickable.New(cfg.Rebrickable.APIKey, cfg.Rebrickable.BaseURL,
				rebrickable.WithPageSize(cfg.Rebrickable.PageSize))
			if err != nil {
				return err
			}
			converter, err := ldraw.New(
				cfg.Converter.PerlBinary,
				cfg.Converter.Script,
				cfg.Paths.LDrawDir,
				cfg.ConvertTimeout(),
				cfg.Converter.UseCache,
				ldraw.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			_, setNumber, err := provider.ValidateSet(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, services.ErrNotFound) {
					return fmt.Errorf("set %s not found in the catalog", args[0])
				}
				return err
			}

			record, err := loadOrCreateMetadata(cmd, store, provider, setNumber)
			if err != nil {
				return err
			}

			orch := converting.New(converter, store, logger)
			stats, err := orch.ConvertSet(cmd.Context(), setNumber, record.Parts, converting.Options{
				SkipExisting: !noSkip,
				Progress: func(done, total int, partNum string) {
					fmt.Fprintf(out, "  [%d/%d] %s\n", done, total, partNum)
				},
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(out, stats.Summary())
			for _, failed := range stats.FailedParts {
				fmt.Fprintf(out, "  part %s: %s\n", failed.PartNum, failed.Reason)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSkip, "no-skip-existing", false, "Reconvert parts whose meshes already exist")
	return cmd
}

// loadOrCreateMetadata reuses the durable record when the set was already
// processed, so a local convert can fill in missing meshes offline-ish
// without refetching the inventory.
func loadOrCreateMetadata(cmd *cobra.Command, store *metadata.Store, provider *rebrickable.Client, setNumber string) (*metadata.SetMetadata, error) {
	if store.Exists(setNumber) {
		fmt.Fprintf(cmd.OutOrStdout(), "Reusing stored metadata for %s.\n", setNumber)
		return store.Load(setNumber)
	}

	data, err := provider.FetchSetData(cmd.Context(), setNumber)
	if err != nil {
		return nil, fmt.Errorf("fetching set data: %w", err)
	}
	record, err := store.Create(setNumber, metadata.InfoFromProvider(data.Info), data.Parts)
	if err != nil {
		return nil, fmt.Errorf("writing set metadata: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%d inventory entries, %d unique parts)\n",
		setNumber, record.Name, record.TotalParts, record.UniqueParts)
	return record, nil
}
