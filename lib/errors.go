package lib

import "github.com/pkg/errors"

// Error kinds shared by every layer of the library. The root package
// re-exports them for the public surface, so errors.Is works on both.
var (
	ErrNoTag              = errors.New("no id3 tag")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnsupportedVersion = errors.New("unsupported id3 version")
	ErrUnsupportedFeature = errors.New("unsupported feature")
	ErrStringDecoding     = errors.New("string decoding failed")
)
