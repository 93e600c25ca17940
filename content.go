package id3

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
)

// Content is the typed payload of a frame. The variant set is not
// closed: frames this package cannot decode carry Unknown, and any
// variant can be lowered back to Unknown with RawContent.
type Content interface {
	isContent()
}

// Text is the payload of a T*** frame (except TXXX). Multiple values
// are kept joined with NUL; Values splits them.
type Text struct {
	Text string
}

// Values returns the individual strings of a multi-valued text frame.
func (t Text) Values() []string {
	return splitNul(t.Text)
}

// ExtendedText is a user defined TXXX frame.
type ExtendedText struct {
	Description string
	Value       string
}

// Link is the payload of a W*** frame (except WXXX).
type Link struct {
	URL string
}

// ExtendedLink is a user defined WXXX frame.
type ExtendedLink struct {
	Description string
	URL         string
}

// Comment is a COMM frame.
type Comment struct {
	// Language is a three byte ISO-639-2 code.
	Language    string
	Description string
	Text        string
}

// Lyrics is an unsynchronised USLT frame.
type Lyrics struct {
	Language    string
	Description string
	Text        string
}

// TimestampFormat says what SynchronisedLyrics timestamps count.
type TimestampFormat byte

const (
	TimestampMpegFrames   TimestampFormat = 1
	TimestampMilliseconds TimestampFormat = 2
)

// LyricsContentType classifies a SYLT frame's entries.
type LyricsContentType byte

// SyncEntry is one timed string of a SYLT frame.
type SyncEntry struct {
	Timestamp uint32
	Text      string
}

// SynchronisedLyrics is a SYLT frame.
type SynchronisedLyrics struct {
	Language        string
	TimestampFormat TimestampFormat
	ContentType     LyricsContentType
	Description     string
	Entries         []SyncEntry
}

// PictureType classifies an attached picture.
type PictureType byte

const (
	PictureTypeOther PictureType = iota
	PictureType32x32
	PictureTypeOtherFileIcon
	PictureTypeCoverFront
	PictureTypeCoverBack
	PictureTypeLeafletPage
	PictureTypeMedia
	PictureTypeLeadArtist
	PictureTypeArtist
	PictureTypeConductor
	PictureTypeBandOrOrchestra
	PictureTypeComposer
	PictureTypeLyricist
	PictureTypeRecordingLocation
	PictureTypeDuringRecording
	PictureTypeDuringPerformance
	PictureTypeMovieOrVideoScreenCapture
	PictureTypeABrightColouredFish
	PictureTypeIllustration
	PictureTypeBandOrArtistLogotype
	PictureTypePublisherOrStudioLogotype
)

// Picture is an APIC frame (PIC on v2.2). The image bytes are kept
// opaque; Image decodes them on demand.
type Picture struct {
	MimeType    string
	PictureType PictureType
	Description string
	Data        []byte
}

// Image decodes the picture payload for the declared MIME type.
func (p Picture) Image() (image.Image, error) {
	switch p.MimeType {
	case "image/jpeg":
		return jpeg.Decode(bytes.NewReader(p.Data))
	case "image/png":
		return png.Decode(bytes.NewReader(p.Data))
	default:
		return nil, errors.New("invalid image format")
	}
}

// EncapsulatedObject is a GEOB frame.
type EncapsulatedObject struct {
	MimeType    string
	Filename    string
	Description string
	Data        []byte
}

// IgnoredOffset marks a chapter byte offset that players must ignore
// in favour of the time fields.
const IgnoredOffset = 0xffffffff

// Chapter is a CHAP frame. Its nested frames follow the same
// uniqueness rules as the tag's own list.
type Chapter struct {
	ElementID   string
	StartTime   uint32
	EndTime     uint32
	StartOffset uint32
	EndOffset   uint32
	Frames      FrameList
}

// TableOfContents is a CTOC frame.
type TableOfContents struct {
	ElementID string
	TopLevel  bool
	Ordered   bool
	Elements  []string
	Frames    FrameList
}

// Popularimeter is a POPM frame.
type Popularimeter struct {
	User    string
	Rating  uint8
	Counter uint64
}

// Private is a PRIV frame.
type Private struct {
	OwnerIdentifier string
	Data            []byte
}

// MpegLocationRef is one reference of an MLLT frame.
type MpegLocationRef struct {
	BytesDeviation  uint32
	MillisDeviation uint32
}

// MpegLocationLookupTable is an MLLT frame.
type MpegLocationLookupTable struct {
	FramesBetweenRefs      uint16
	BytesBetweenRefs       uint32
	MillisBetweenRefs      uint32
	BitsForBytesDeviation  uint8
	BitsForMillisDeviation uint8
	References             []MpegLocationRef
}

// Unknown preserves the raw body of a frame this package did not
// decode, together with the revision it was read from so it can be
// re-emitted unchanged when the target version matches.
type Unknown struct {
	Data    []byte
	Version Version
}

func (Text) isContent()                    {}
func (ExtendedText) isContent()            {}
func (Link) isContent()                    {}
func (ExtendedLink) isContent()            {}
func (Comment) isContent()                 {}
func (Lyrics) isContent()                  {}
func (SynchronisedLyrics) isContent()      {}
func (Picture) isContent()                 {}
func (EncapsulatedObject) isContent()      {}
func (Chapter) isContent()                 {}
func (TableOfContents) isContent()         {}
func (Popularimeter) isContent()           {}
func (Private) isContent()                 {}
func (MpegLocationLookupTable) isContent() {}
func (Unknown) isContent()                 {}
