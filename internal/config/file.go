package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML shape of the config file. Pointer fields tell an
// absent key apart from a zero value.
type fileConfig struct {
	Root           *string    `yaml:"root"`
	ArchiveExt     *string    `yaml:"archive_ext"`
	BackupSuffix   *string    `yaml:"backup_suffix"`
	ScenePattern   *string    `yaml:"scene_pattern"`
	AssumeYes      *bool      `yaml:"assume_yes"`
	DryRun         *bool      `yaml:"dry_run"`
	IncludeBackups *bool      `yaml:"include_backups"`
	Verbose        *bool      `yaml:"verbose"`
	Color          *ColorMode `yaml:"color"`
	LogFile        *string    `yaml:"log_file"`
}

// fileKey binds one YAML key to the flags that override it.
type fileKey struct {
	flags []string
	apply func(fc *fileConfig, c *Config)
}

var fileKeys = []fileKey{
	{nil, func(fc *fileConfig, c *Config) { setString(&c.RootDir, fc.Root) }},
	{[]string{"ext"}, func(fc *fileConfig, c *Config) { setString(&c.ArchiveExt, fc.ArchiveExt) }},
	{[]string{"backup-suffix"}, func(fc *fileConfig, c *Config) { setString(&c.BackupSuffix, fc.BackupSuffix) }},
	{[]string{"scene-pattern"}, func(fc *fileConfig, c *Config) { setString(&c.ScenePattern, fc.ScenePattern) }},
	{[]string{"yes"}, func(fc *fileConfig, c *Config) { setBool(&c.AssumeYes, fc.AssumeYes) }},
	{[]string{"dry-run"}, func(fc *fileConfig, c *Config) { setBool(&c.DryRun, fc.DryRun) }},
	{[]string{"include-backups"}, func(fc *fileConfig, c *Config) { setBool(&c.IncludeBackups, fc.IncludeBackups) }},
	{[]string{"verbose"}, func(fc *fileConfig, c *Config) { setBool(&c.Verbose, fc.Verbose) }},
	{[]string{"color", "no-color"}, func(fc *fileConfig, c *Config) {
		if fc.Color != nil {
			c.ColorMode = *fc.Color
		}
	}},
	{[]string{"log"}, func(fc *fileConfig, c *Config) { setString(&c.LogFile, fc.LogFile) }},
}

// LoadFile merges the YAML file at path into c. Keys whose flags were set
// on the command line (changed reports true for them) keep the flag value.
// A missing file is ignored unless required is true.
func LoadFile(c *Config, path string, required bool, changed func(flag string) bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	for _, k := range fileKeys {
		if anyChanged(k.flags, changed) {
			continue
		}
		k.apply(&fc, c)
	}
	c.ConfigFile = path
	return nil
}

func anyChanged(flags []string, changed func(string) bool) bool {
	if changed == nil {
		return false
	}
	for _, f := range flags {
		if changed(f) {
			return true
		}
	}
	return false
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
