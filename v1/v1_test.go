package v1

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xonyagar/id3/lib"
)

func TestParseRenderRoundTrip(t *testing.T) {
	tag := &Tag{
		Title:   "Some Song",
		Artist:  "Some Artist",
		Album:   "Some Album",
		Year:    "1999",
		Comment: "nice",
		Track:   7,
		Genre:   17,
	}

	raw := tag.Render()
	require.Len(t, raw, TagSize)
	assert.Equal(t, "TAG", string(raw[:3]))

	got, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, tag, got)
}

func TestParsePlainV1Comment(t *testing.T) {
	tag := &Tag{Title: "x", Comment: "a comment that runs quite long here", Genre: 1}

	got, err := Parse(tag.Render())
	require.NoError(t, err)
	assert.Zero(t, got.Track)
	assert.Equal(t, "a comment that runs quite long", got.Comment)
}

func TestNewReadsTrailingRecord(t *testing.T) {
	tag := &Tag{Title: "Trailing", Track: 2}

	file := append([]byte("lots of audio bytes"), tag.Render()...)

	got, err := New(bytes.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, "Trailing", got.Title)
	assert.Equal(t, "2", got.AlbumTrack())
}

func TestNewNoTag(t *testing.T) {
	file := make([]byte, 256)

	_, err := New(bytes.NewReader(file))
	assert.True(t, errors.Is(err, ErrTagNotFound))

	// Files smaller than a record cannot carry one.
	_, err = New(bytes.NewReader([]byte("tiny")))
	assert.True(t, errors.Is(err, lib.ErrNoTag))
}

func TestGenreName(t *testing.T) {
	assert.Equal(t, "Rock", (&Tag{Genre: 17}).GenreName())
	assert.Equal(t, "Blues", (&Tag{Genre: 0}).GenreName())
	assert.Empty(t, (&Tag{Genre: 255}).GenreName())

	assert.Equal(t, byte(17), GenreIndex("Rock"))
	assert.Equal(t, byte(255), GenreIndex("Not A Genre"))
}
