package converting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"brickforge/internal/logging"
	"brickforge/internal/metadata"
	"brickforge/internal/parts"
	"brickforge/internal/services"
)

// Backend renders a single part to a mesh file. The one production
// implementation launches the external dat2stl process; tests substitute
// fakes.
type Backend interface {
	Convert(ctx context.Context, partNum, destPath string) error
}

// Options tunes one conversion run.
type Options struct {
	// SkipExisting counts parts whose artifact is already present as skipped
	// instead of reconverting them. Artifact presence is the source of truth:
	// artifacts are written atomically, so a present file is a finished file.
	SkipExisting bool
	// Progress, when set, is invoked after each part with the number of parts
	// handled so far out of the unique total.
	Progress func(done, total int, partNum string)
}

// Orchestrator drives per-part conversion for a set and aggregates stats.
type Orchestrator struct {
	backend Backend
	store   *metadata.Store
	logger  *slog.Logger
}

// New constructs an orchestrator.
func New(backend Backend, store *metadata.Store, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		backend: backend,
		store:   store,
		logger:  logging.NewComponentLogger(logger, "converting"),
	}
}

// ConvertSet converts every unique part of a set, in first-seen order.
// Per-part failures are absorbed into the stats; the loop never aborts early,
// so a bad part cannot block the rest of the set. The returned stats always
// satisfy total == converted+skipped+failed+missing.
func (o *Orchestrator) ConvertSet(ctx context.Context, setNumber string, entries []parts.Entry, opts Options) (parts.ConversionStats, error) {
	unique := parts.Deduplicate(entries)
	stats := parts.ConversionStats{Total: len(unique), FailedParts: []parts.FailedPart{}}

	o.logger.Info("converting set",
		logging.String("set", setNumber),
		logging.Int("unique_parts", stats.Total),
		logging.Bool("skip_existing", opts.SkipExisting),
	)

	for i, entry := range unique {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("conversion interrupted after %d of %d parts: %w", i, stats.Total, err)
		}

		destPath := o.store.STLPath(setNumber, entry.PartNum)

		if opts.SkipExisting && o.store.STLExists(setNumber, entry.PartNum) {
			stats.Skipped++
			o.report(opts, i+1, stats.Total, entry.PartNum)
			continue
		}

		err := o.backend.Convert(ctx, entry.PartNum, destPath)
		switch {
		case err == nil:
			stats.Converted++
		case errors.Is(err, context.Canceled):
			// Shutdown mid-part, not a tool failure.
			return stats, fmt.Errorf("conversion interrupted after %d of %d parts: %w", i, stats.Total, err)
		case errors.Is(err, services.ErrNotFound):
			stats.Missing++
			stats.FailedParts = append(stats.FailedParts, parts.FailedPart{
				PartNum: entry.PartNum,
				Reason:  "source asset not found",
			})
			o.logger.Warn("source asset missing", logging.String("set", setNumber), logging.String("part", entry.PartNum))
		default:
			stats.Failed++
			stats.FailedParts = append(stats.FailedParts, parts.FailedPart{
				PartNum: entry.PartNum,
				Reason:  failureReason(err),
			})
			o.logger.Warn("part conversion failed",
				logging.String("set", setNumber),
				logging.String("part", entry.PartNum),
				logging.Error(err),
			)
		}
		o.report(opts, i+1, stats.Total, entry.PartNum)
	}

	o.logger.Info("conversion finished",
		logging.String("set", setNumber),
		logging.Int("total", stats.Total),
		logging.Int("converted", stats.Converted),
		logging.Int("skipped", stats.Skipped),
		logging.Int("failed", stats.Failed),
		logging.Int("missing", stats.Missing),
	)
	return stats, nil
}

func (o *Orchestrator) report(opts Options, done, total int, partNum string) {
	if opts.Progress != nil {
		opts.Progress(done, total, partNum)
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, services.ErrTimeout):
		return "conversion timed out"
	case errors.Is(err, services.ErrExternalTool):
		return "conversion failed: " + err.Error()
	default:
		return err.Error()
	}
}
