package usdz

import "errors"

// Sentinel errors returned by this package.
var (
	ErrUnsafePath       = errors.New("archive entry escapes extraction root")
	ErrNoSceneDocuments = errors.New("no USD files found inside archive")
)
