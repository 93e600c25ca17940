package id3

import (
	"fmt"

	"github.com/xonyagar/id3/lib"
)

// Error kinds. Match with errors.Is; decode errors are wrapped with
// context along the way.
var (
	// ErrNoTag means the container was scanned and no ID3 header was
	// located.
	ErrNoTag = lib.ErrNoTag
	// ErrInvalidInput covers malformed magic, bad synchsafe values,
	// truncated frames, unknown encoding bytes and mismatched sizes.
	ErrInvalidInput = lib.ErrInvalidInput
	// ErrUnsupportedVersion means a v2 header claims a major version
	// outside 2, 3 and 4.
	ErrUnsupportedVersion = lib.ErrUnsupportedVersion
	// ErrUnsupportedFeature is returned when a frame carries a content
	// type the encoder does not handle. A frame that has no form in
	// the target version is dropped with a warning and does not
	// produce this error.
	ErrUnsupportedFeature = lib.ErrUnsupportedFeature
	// ErrStringDecoding means a text payload is not valid in its
	// declared encoding.
	ErrStringDecoding = lib.ErrStringDecoding
)

// PartialTagError carries the frames decoded before a fatal error cut
// the tag short. ReadTag converts it into a plain success when
// Options.PartialTagOK is set.
type PartialTagError struct {
	Tag *Tag
	Err error
}

func (e *PartialTagError) Error() string {
	return fmt.Sprintf("partially decoded tag: %v", e.Err)
}

func (e *PartialTagError) Unwrap() error {
	return e.Err
}
