package config

// This file binds command-line flags onto Config.
// Flags write straight into Config; the YAML file is merged afterwards for
// every key whose flag was not changed, so precedence is
// defaults < file < flags. --color/--no-color are applied last.

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flags holds flag values that are applied to Config after parsing.
type Flags struct {
	fs         *pflag.FlagSet
	configPath string
	forceColor bool
	noColor    bool
}

// BindFlags registers all flags on fs, writing into cfg.
func BindFlags(fs *pflag.FlagSet, cfg *Config) *Flags {
	f := &Flags{fs: fs}

	// Behavior.
	fs.BoolVarP(&cfg.AssumeYes, "yes", "y", cfg.AssumeYes, "Do not prompt for confirmation")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "d", cfg.DryRun, "Report what would change; write nothing")
	fs.BoolVar(&cfg.IncludeBackups, "include-backups", cfg.IncludeBackups, "Also process archives that are backups")

	// Matching.
	fs.StringVar(&cfg.ArchiveExt, "ext", cfg.ArchiveExt, "Archive extension to discover")
	fs.StringVar(&cfg.BackupSuffix, "backup-suffix", cfg.BackupSuffix, "Suffix inserted before the extension of backups")
	fs.StringVar(&cfg.ScenePattern, "scene-pattern", cfg.ScenePattern, "Glob for scene documents inside archives")

	// Display and logging.
	fs.BoolVar(&f.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")
	fs.StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "Append JSON logs to file")
	fs.StringVar(&f.configPath, "config", "", "Config file (default: ./"+DefaultConfigFile+" if present)")

	return f
}

// Apply merges the config file, color flags and the positional root
// argument into cfg. Call it once after the flag set has been parsed.
func (f *Flags) Apply(cfg *Config, args []string) error {
	path, required := DefaultConfigFile, false
	if f.fs.Changed("config") {
		path, required = f.configPath, true
	}
	if err := LoadFile(cfg, path, required, f.fs.Changed); err != nil {
		return err
	}

	if f.noColor {
		cfg.ColorMode = ColorNever
	} else if f.forceColor {
		cfg.ColorMode = ColorAlways
	}

	switch len(args) {
	case 0:
	case 1:
		cfg.RootDir = NormalizeDirArg(args[0])
	default:
		return fmt.Errorf("expected at most one root directory, got %d", len(args))
	}
	return nil
}
