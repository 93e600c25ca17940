// Package id3 reads and writes ID3 metadata: ID3v1 and ID3v1.1
// records, and ID3v2.2, v2.3 and v2.4 tags embedded in MP3, WAVE and
// AIFF files.
package id3

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/xonyagar/id3/aiff"
	"github.com/xonyagar/id3/mp3"
	v1 "github.com/xonyagar/id3/v1"
	"github.com/xonyagar/id3/wav"
)

// Kind selects the container the tag is embedded in. Raw means the
// stream holds a bare tag block.
type Kind int

const (
	Mp3 Kind = iota
	Wav
	Aiff
	Raw
)

// Options tune the read and write paths.
type Options struct {
	Kind Kind

	// Version is the wire version to write; zero means the tag's own.
	Version Version

	// PartialTagOK turns a tag that broke mid-decode into a success
	// carrying the frames decoded so far.
	PartialTagOK bool
	// NoTagOK turns a missing tag into a nil tag instead of ErrNoTag.
	NoTagOK bool
	// Strict fails the decode on problems that are otherwise absorbed
	// into opaque frames and warnings.
	Strict bool

	// Padding is the number of zero bytes appended after the last
	// frame on write.
	Padding int
	// Unsync applies frame-level unsynchronisation to v2.4 output
	// where a payload needs it. Earlier versions unsynchronise the
	// whole tag when required, regardless of this knob.
	Unsync bool
	// Footer appends the v2.4 footer; it replaces any padding.
	Footer bool

	// Logger receives warnings from the lenient decode paths.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	return zap.NewNop()
}

// ReadTag locates and decodes the ID3v2 tag of the given container
// kind. The stream must support seeking from the start.
func ReadTag(rs io.ReadSeeker, opts Options) (*Tag, error) {
	var (
		block []byte
		err   error
	)

	switch opts.Kind {
	case Mp3:
		block, err = mp3.ReadTag(rs)
	case Wav:
		block, err = wav.ReadTag(rs)
	case Aiff:
		block, err = aiff.ReadTag(rs)
	case Raw:
		block, err = readTagBlock(rs)
	default:
		return nil, errors.Wrapf(ErrInvalidInput, "unknown container kind %d", opts.Kind)
	}

	if err != nil {
		if errors.Is(err, ErrNoTag) && opts.NoTagOK {
			return nil, nil
		}

		return nil, err
	}

	tag, err := decodeTag(block, opts)
	if err != nil {
		var partial *PartialTagError
		if errors.As(err, &partial) && opts.PartialTagOK {
			return partial.Tag, nil
		}

		return nil, err
	}

	return tag, nil
}

// ReadFile opens path and reads its tag.
func ReadFile(path string, opts Options) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open audio file")
	}
	defer f.Close()

	return ReadTag(f, opts)
}

// WriteFile renders the tag and rewrites the container at path in
// place. For Mp3, Wav and Aiff the container is only replaced once the
// new bytes are fully constructed; the final rename is atomic where
// the filesystem permits. For Raw the block is written straight to
// path with os.WriteFile, without a temporary file.
func WriteFile(path string, t *Tag, opts Options) error {
	version := opts.Version
	if !version.Valid() {
		version = t.Version()
	}

	rendered, err := encodeTag(t, version, opts)
	if err != nil {
		return err
	}

	switch opts.Kind {
	case Mp3:
		return mp3.WriteTag(path, rendered)
	case Wav:
		return wav.WriteTag(path, rendered)
	case Aiff:
		return aiff.WriteTag(path, rendered)
	case Raw:
		return os.WriteFile(path, rendered, 0o644)
	default:
		return errors.Wrapf(ErrInvalidInput, "unknown container kind %d", opts.Kind)
	}
}

// WriteTo renders the tag as a bare block onto w.
func WriteTo(w io.Writer, t *Tag, opts Options) error {
	version := opts.Version
	if !version.Valid() {
		version = t.Version()
	}

	rendered, err := encodeTag(t, version, opts)
	if err != nil {
		return err
	}

	_, err = w.Write(rendered)

	return errors.Wrap(err, "write tag block")
}

// ID3 is the unified read surface over an MP3 file's leading v2 tag
// and trailing v1 record: v2 fields win, v1 fills the gaps.
type ID3 struct {
	V2 *Tag
	V1 *v1.Tag
}

// New will read file and return the unified tag reader.
func New(f io.ReadSeeker) (*ID3, error) {
	tag := new(ID3)

	var err error

	tag.V1, err = v1.New(f)
	if err != nil && !errors.Is(err, v1.ErrTagNotFound) {
		return nil, errors.WithMessage(err, "error on v1")
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "error on seek")
	}

	tag.V2, err = ReadTag(f, Options{Kind: Mp3, NoTagOK: true, PartialTagOK: true})
	if err != nil {
		return nil, errors.WithMessage(err, "error on v2")
	}

	return tag, nil
}

// Title will return the song title.
func (t ID3) Title() string {
	if t.V2 != nil {
		if title := t.V2.Title(); title != "" {
			return title
		}
	}

	if t.V1 != nil {
		return t.V1.Title
	}

	return ""
}

// Album will return the album title.
func (t ID3) Album() string {
	if t.V2 != nil {
		if album := t.V2.Album(); album != "" {
			return album
		}
	}

	if t.V1 != nil {
		return t.V1.Album
	}

	return ""
}

// Artists will return the lead performers.
func (t ID3) Artists() []string {
	if t.V2 != nil {
		if artists := t.V2.Artists(); len(artists) > 0 {
			return artists
		}
	}

	if t.V1 != nil && t.V1.Artist != "" {
		return []string{t.V1.Artist}
	}

	return []string{}
}

// AlbumArtists will return the band or accompaniment.
func (t ID3) AlbumArtists() []string {
	if t.V2 != nil {
		if artists := t.V2.AlbumArtists(); len(artists) > 0 {
			return artists
		}
	}

	if t.V1 != nil && t.V1.Artist != "" {
		return []string{t.V1.Artist}
	}

	return []string{}
}

// Year will return the recording year.
func (t ID3) Year() string {
	if t.V2 != nil {
		if year := t.V2.Year(); year != "" {
			return year
		}
	}

	if t.V1 != nil {
		return t.V1.Year
	}

	return ""
}

// Genres will return the content types.
func (t ID3) Genres() []string {
	if t.V2 != nil {
		if genres := t.V2.Genres(); len(genres) > 0 {
			return genres
		}
	}

	if t.V1 != nil {
		if genre := t.V1.GenreName(); genre != "" {
			return []string{genre}
		}
	}

	return []string{}
}

// Comment will return the first comment text.
func (t ID3) Comment() string {
	if t.V2 != nil {
		if comments := t.V2.Comments(); len(comments) > 0 {
			return comments[0].Text
		}
	}

	if t.V1 != nil {
		return t.V1.Comment
	}

	return ""
}

// TrackNumberAndPosition will return the track number and the number
// of tracks in the set, when known.
func (t ID3) TrackNumberAndPosition() (int, int) {
	if t.V2 != nil {
		if track, total := t.V2.Track(); track != 0 {
			return track, total
		}
	}

	if t.V1 != nil && t.V1.Track != 0 {
		return int(t.V1.Track), 0
	}

	return 0, 0
}

// AttachedPictures will return every attached picture.
func (t ID3) AttachedPictures() []Picture {
	if t.V2 != nil {
		return t.V2.Pictures()
	}

	return []Picture{}
}
