// Package v1 reads and writes the 128-byte ID3v1 and ID3v1.1 records
// found at the end of MP3 files.
package v1

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/xonyagar/id3/lib"
)

// TagSize is size of ID3v1 and ID3v1.1 tag
const TagSize = 128

// ErrTagNotFound is returned when the file carries no trailing tag.
var ErrTagNotFound = lib.ErrNoTag

// Tag is a decoded ID3v1 or ID3v1.1 record.
type Tag struct {
	Title   string
	Artist  string
	Album   string
	Year    string
	Comment string
	// Track is the ID3v1.1 track byte; zero means a plain v1 record.
	Track byte
	Genre byte
}

// New will read the trailing 128 bytes of f and return the decoded tag.
func New(f io.ReadSeeker) (*Tag, error) {
	if _, err := f.Seek(-TagSize, io.SeekEnd); err != nil {
		// Too small to hold a trailing record.
		return nil, ErrTagNotFound
	}

	raw := make([]byte, TagSize)

	n, err := f.Read(raw)
	if err != nil {
		return nil, errors.Wrap(err, "read trailing tag")
	}

	if n != TagSize {
		return nil, fmt.Errorf("must read '%d' bytes, but read '%d'", TagSize, n)
	}

	return Parse(raw)
}

// Parse decodes a 128-byte record.
func Parse(raw []byte) (*Tag, error) {
	if len(raw) != TagSize || string(raw[:3]) != "TAG" {
		return nil, ErrTagNotFound
	}

	tag := &Tag{
		Title:  lib.Trim(string(raw[3:33])),
		Artist: lib.Trim(string(raw[33:63])),
		Album:  lib.Trim(string(raw[63:93])),
		Year:   lib.Trim(string(raw[93:97])),
		Genre:  raw[127],
	}

	if raw[125] == 0 && raw[126] != 0 {
		// V1.1: the comment loses two bytes to the track number.
		tag.Comment = lib.Trim(string(raw[97:125]))
		tag.Track = raw[126]
	} else {
		tag.Comment = lib.Trim(string(raw[97:127]))
	}

	return tag, nil
}

// Render encodes the tag back into its 128-byte wire form. Fields
// longer than their slot are truncated.
func (tag *Tag) Render() []byte {
	raw := make([]byte, TagSize)
	copy(raw, "TAG")
	copyField(raw[3:33], tag.Title)
	copyField(raw[33:63], tag.Artist)
	copyField(raw[63:93], tag.Album)
	copyField(raw[93:97], tag.Year)

	if tag.Track != 0 {
		copyField(raw[97:125], tag.Comment)
		raw[125] = 0
		raw[126] = tag.Track
	} else {
		copyField(raw[97:127], tag.Comment)
	}

	raw[127] = tag.Genre

	return raw
}

func copyField(dst []byte, s string) {
	copy(dst, s)
}

// AlbumTrack will return the v1.1 track number as a string.
func (tag *Tag) AlbumTrack() string {
	if tag.Track == 0 {
		return ""
	}

	return fmt.Sprintf("%d", int(tag.Track))
}

// GenreName will return the genre title for the record's genre byte.
func (tag *Tag) GenreName() string {
	genre := int(tag.Genre)

	if genre < len(Genres) {
		return Genres[genre]
	}

	return ""
}
