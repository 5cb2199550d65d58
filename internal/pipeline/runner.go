package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/backmassage/usdzfix/internal/config"
	"github.com/backmassage/usdzfix/internal/display"
	"github.com/backmassage/usdzfix/internal/logging"
	"github.com/backmassage/usdzfix/internal/usdz"
)

// Errors returned by Run when the batch ends before any archive is touched.
var (
	ErrNoArchives   = errors.New("no archives found")
	ErrNotConfirmed = errors.New("cancelled by user")
)

// Confirmer is asked once, with the discovered archive paths, before any
// archive is modified. Returning false aborts the run.
type Confirmer func(archives []string) (bool, error)

// Run is the top-level batch entry point. It discovers archives, asks
// confirm (unless cfg.AssumeYes), fixes each archive sequentially, and
// returns aggregate stats. ctx is checked between archives only.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, confirm Confirmer) (RunStats, error) {
	var stats RunStats

	archives, err := Discover(cfg)
	if err != nil {
		log.Error("Archive discovery failed: %v", err)
		return stats, err
	}
	if len(archives) == 0 {
		log.Error("No %s files found in %s", extLabel(cfg), cfg.DisplayRoot())
		return stats, ErrNoArchives
	}

	stats.Total = len(archives)
	log.Info("Found %s:", display.Plural(stats.Total, extLabel(cfg)+" file"))
	for _, a := range archives {
		log.Info("  - %s", a)
	}

	if !cfg.AssumeYes {
		ok, err := confirm(archives)
		if err != nil {
			log.Error("Confirmation failed: %v", err)
			return stats, err
		}
		if !ok {
			log.Warn("Cancelled by user")
			return stats, ErrNotConfirmed
		}
	}
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	}
	log.Blank()

	for i, path := range archives {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		stats.Current = i + 1
		stats.record(processArchive(cfg, log, path, &stats))
	}

	logSummary(cfg, log, &stats)
	return stats, nil
}

// processArchive logs the archive header and probe line, then fixes it.
func processArchive(cfg *config.Config, log *logging.Logger, path string, stats *RunStats) *Result {
	log.Info("[%d/%d] Processing: %s", stats.Current, stats.Total, path)

	if info, err := usdz.Probe(path, cfg.ScenePattern); err == nil {
		log.Info("  Archive: %s | %s | %s",
			display.Plural(info.Entries, "file"),
			display.Plural(info.SceneDocuments, "scene document"),
			display.FormatBytes(info.Size))
		log.Debug(cfg.Verbose, "  Uncompressed: %s, %d compressed entries",
			display.FormatBytes(int64(info.UncompressedSize)), info.Compressed)
	} else {
		log.Debug(cfg.Verbose, "  Probe failed: %v", err)
	}

	res := FixArchive(cfg, log, path)
	switch res.Outcome {
	case OutcomeFixed:
		if res.DryRun {
			log.Success("[DRY] Would fix %s (%s)", filepath.Base(path), describeInsertions(res.Insertions()))
		} else {
			log.Success("Successfully fixed: %s (%s)", path, describeInsertions(res.Insertions()))
		}
	case OutcomeUnchanged:
		log.Info("  Already double-sided or format not recognized")
	default:
		log.Error("Failed: %s", path)
	}
	log.Blank()
	return res
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d fixed, %d unchanged, %d failed", stats.Fixed, stats.Unchanged, stats.Failed)

	if cfg.DryRun {
		log.Info("Would fix: %d/%d files (dry run)", stats.Fixed, stats.Total)
		return
	}
	if stats.Fixed == 0 {
		log.Info("Successfully fixed: 0/%d files", stats.Total)
		return
	}
	log.Success("Successfully fixed: %d/%d files", stats.Fixed, stats.Total)
	log.Info("  Archive size: %s -> %s (%s)",
		display.FormatBytes(stats.BytesBefore),
		display.FormatBytes(stats.BytesAfter),
		display.FormatBytesWithSign(stats.SizeDelta()))
}

// extLabel turns ".usdz" into "USDZ" for messages.
func extLabel(cfg *config.Config) string {
	return strings.ToUpper(strings.TrimPrefix(cfg.ArchiveExt, "."))
}
