package pipeline

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/backmassage/usdzfix/internal/config"
	"github.com/backmassage/usdzfix/internal/naming"
)

// Discover walks cfg.RootDir for files ending in cfg.ArchiveExt
// (case-sensitive) and returns them sorted lexicographically for
// deterministic processing order. Backups left by earlier runs are skipped
// unless cfg.IncludeBackups is set. A missing root yields no archives.
func Discover(cfg *config.Config) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(cfg.RootDir), cfg.ArchiveGlob(), doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	var files []string
	for _, m := range matches {
		if !cfg.IncludeBackups && naming.IsBackup(m, cfg.ArchiveExt, cfg.BackupSuffix) {
			continue
		}
		files = append(files, filepath.Join(cfg.RootDir, filepath.FromSlash(m)))
	}
	return files, nil
}
