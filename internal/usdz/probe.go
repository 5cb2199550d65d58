package usdz

import (
	"archive/zip"
	"fmt"
	"os"
)

// ArchiveInfo summarizes an archive's central directory.
type ArchiveInfo struct {
	Path             string
	Size             int64 // on-disk size of the archive
	Entries          int
	SceneDocuments   int
	UncompressedSize uint64
	Compressed       int // entries not stored uncompressed
}

// Probe reads the central directory of the archive at path without
// extracting it. pattern selects which entries count as scene documents.
func Probe(path, pattern string) (*ArchiveInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer r.Close()

	info := &ArchiveInfo{Path: path, Size: fi.Size()}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		info.Entries++
		info.UncompressedSize += f.UncompressedSize64
		if f.Method != zip.Store {
			info.Compressed++
		}
		if IsSceneDocument(f.Name, pattern) {
			info.SceneDocuments++
		}
	}
	return info, nil
}
