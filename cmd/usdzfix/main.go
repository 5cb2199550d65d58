// Command usdzfix is the CLI entrypoint for the USDZ double-sided fixer.
//
// It parses flags, validates configuration, and runs the batch pipeline
// over every archive found under the root directory (public/models by
// default).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/usdzfix/internal/config"
	"github.com/backmassage/usdzfix/internal/display"
	"github.com/backmassage/usdzfix/internal/logging"
	"github.com/backmassage/usdzfix/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	cfg := config.DefaultConfig()
	code := 0

	cmd := &cobra.Command{
		Use:           "usdzfix [root]",
		Short:         "Make every surface in USDZ archives render double-sided",
		Args:          cobra.MaximumNArgs(1),
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	flags := config.BindFlags(cmd.Flags(), &cfg)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		// Phase 1: Bootstrap. The logger doesn't exist yet, so errors are
		// returned to cobra and printed to stderr below.
		if err := flags.Apply(&cfg, args); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		code = execute(&cfg, stdin, stdout)
		return nil
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "usdzfix: %v\n", err)
		return 1
	}
	return code
}

func execute(cfg *config.Config, stdin io.Reader, stdout io.Writer) int {
	log, err := logging.NewLoggerTo(cfg, stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "usdzfix: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available.
	display.PrintBanner(stdout)
	log.Debug(cfg.Verbose, "usdzfix %s (%s), run %s", version, commit, log.RunID())
	if cfg.ConfigFile != "" {
		log.Debug(cfg.Verbose, "Config file: %s", cfg.ConfigFile)
	}

	// Phase 3: Signal handling. Cancellation stops the batch between
	// archives and abandons a pending confirmation prompt.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	confirm := func(archives []string) (bool, error) {
		return promptWithContext(ctx, stdin, stdout)
	}

	// Phase 4: Run pipeline (discover, confirm, fix).
	stats, err := pipeline.Run(ctx, cfg, log, confirm)
	switch {
	case errors.Is(err, pipeline.ErrNoArchives), errors.Is(err, pipeline.ErrNotConfirmed):
		return 0
	case err != nil:
		return 1
	}

	if stats.Fixed > 0 && !cfg.DryRun {
		display.PrintGuidance(stdout, cfg.BackupSuffix+cfg.ArchiveExt)
	}
	if stats.Failed > 0 || ctx.Err() != nil {
		return 1
	}
	log.Success("Done!")
	return 0
}

// promptWithContext asks for confirmation and returns false if ctx is
// cancelled before an answer arrives.
func promptWithContext(ctx context.Context, stdin io.Reader, stdout io.Writer) (bool, error) {
	type answer struct {
		ok  bool
		err error
	}
	ch := make(chan answer, 1)
	go func() {
		ok, err := display.Confirm(stdin, stdout, "Proceed with fixing these files?")
		ch <- answer{ok, err}
	}()
	select {
	case a := <-ch:
		return a.ok, a.err
	case <-ctx.Done():
		fmt.Fprintln(stdout)
		return false, nil
	}
}
