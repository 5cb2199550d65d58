// Package usdz extracts, inspects and rebuilds USDZ (zip) archives.
//
// Extraction is confined to the destination directory; entries that would
// land outside it are rejected with [ErrUnsafePath]. Rebuilt archives use
// Deflate for every entry and keep the original entry order for files that
// were present before extraction.
package usdz
