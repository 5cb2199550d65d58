package naming

import (
	"path/filepath"
	"strings"
)

// BackupPath returns the sibling backup path for archive: the trailing ext
// is replaced by suffix+ext, so "models/grass.usdz" becomes
// "models/grass_backup.usdz". Only the final extension is rewritten; a
// directory or stem that happens to contain ext is left alone. When archive
// does not end in ext, suffix+ext is appended.
//
//	BackupPath("a/grass.usdz", ".usdz", "_backup") == "a/grass_backup.usdz"
func BackupPath(archive, ext, suffix string) string {
	stem, ok := strings.CutSuffix(archive, ext)
	if !ok {
		return archive + suffix + ext
	}
	return stem + suffix + ext
}

// IsBackup reports whether the base name of path looks like a backup made
// by [BackupPath] with the same ext and suffix.
func IsBackup(path, ext, suffix string) bool {
	return strings.HasSuffix(filepath.Base(path), suffix+ext)
}
