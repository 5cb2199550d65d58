// Package config holds runtime configuration: defaults, the optional YAML
// config file, CLI flag binding, and validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DefaultConfigFile is read from the working directory when --config is not
// given. It is optional.
const DefaultConfigFile = "usdzfix.yaml"

// Config holds all runtime settings. It is populated by [DefaultConfig],
// merged with the YAML file, and then overridden by explicitly set flags
// (see [Flags.Apply]) before being passed by pointer to other packages.
type Config struct {
	// Paths.
	RootDir    string // Default: "public/models". Overridden by the positional arg.
	ConfigFile string // Resolved config file path; empty when none was read.

	// Matching.
	ArchiveExt   string // Default: ".usdz". Matched case-sensitively.
	BackupSuffix string // Default: "_backup". Inserted before ArchiveExt.
	ScenePattern string // Default: "*.usd*". Base-name glob inside archives.

	// Behavior flags.
	AssumeYes      bool // Skip the confirmation prompt.
	DryRun         bool // Patch in memory only; write nothing.
	IncludeBackups bool // Also process archives that are themselves backups.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional JSON log file path.
}

// DefaultConfig returns a Config matching the behavior of the original
// fix script: scan public/models for *.usdz and write *_backup.usdz copies.
func DefaultConfig() Config {
	return Config{
		RootDir:      "public/models",
		ArchiveExt:   ".usdz",
		BackupSuffix: "_backup",
		ScenePattern: "*.usd*",
		ColorMode:    ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and the matching settings.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	if c.RootDir == "" {
		return errors.New("root directory must not be empty")
	}
	if !strings.HasPrefix(c.ArchiveExt, ".") || len(c.ArchiveExt) < 2 {
		return fmt.Errorf("invalid archive extension %q (must start with '.')", c.ArchiveExt)
	}
	if strings.ContainsAny(c.ArchiveExt, `*?[]{}\/`) {
		return fmt.Errorf("invalid archive extension %q (no glob or path characters)", c.ArchiveExt)
	}
	if c.BackupSuffix == "" || strings.ContainsAny(c.BackupSuffix, `\/`) {
		return fmt.Errorf("invalid backup suffix %q", c.BackupSuffix)
	}
	if c.ScenePattern == "" || !doublestar.ValidatePattern(c.ScenePattern) {
		return fmt.Errorf("invalid scene pattern %q", c.ScenePattern)
	}
	if strings.Contains(c.ScenePattern, "/") {
		return fmt.Errorf("scene pattern %q must match base names only", c.ScenePattern)
	}
	return nil
}

// ArchiveGlob returns the doublestar pattern that discovers archives under
// RootDir, relative to RootDir.
func (c *Config) ArchiveGlob() string {
	return "**/*" + c.ArchiveExt
}

// DisplayRoot returns RootDir with a trailing separator, as shown in messages.
func (c *Config) DisplayRoot() string {
	return filepath.Clean(c.RootDir) + string(filepath.Separator)
}
