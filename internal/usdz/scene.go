package usdz

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// FindSceneDocuments returns the files under root whose base name matches
// pattern (case-sensitive, e.g. "*.usd*"), at any depth, sorted.
func FindSceneDocuments(root, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), "**/"+pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = filepath.Join(root, filepath.FromSlash(m))
	}
	return paths, nil
}

// IsSceneDocument reports whether the base name of an archive entry matches
// pattern.
func IsSceneDocument(name, pattern string) bool {
	ok, err := doublestar.Match(pattern, filepath.Base(filepath.FromSlash(name)))
	return err == nil && ok
}
