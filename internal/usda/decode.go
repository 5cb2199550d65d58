package usda

import (
	"bytes"
	"strings"
)

var (
	crateMagic = []byte("PXR-USDC")
	zipMagic   = []byte("PK\x03\x04")
)

// Decode converts raw document bytes to text, dropping any bytes that are
// not valid UTF-8 instead of failing.
func Decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "")
}

// IsBinary reports whether b is a binary crate layer or a nested zip
// archive. Such files match the scene pattern but must not be rewritten.
func IsBinary(b []byte) bool {
	return bytes.HasPrefix(b, crateMagic) || bytes.HasPrefix(b, zipMagic)
}
