package id3

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/xonyagar/id3/v1"
)

func buildMp3(t *testing.T, tag *Tag, audio []byte, trailing *v1.Tag) []byte {
	t.Helper()

	var out []byte

	if tag != nil {
		block, err := encodeTag(tag, tag.Version(), Options{})
		require.NoError(t, err)
		out = append(out, block...)
	}

	out = append(out, audio...)

	if trailing != nil {
		out = append(out, trailing.Render()...)
	}

	return out
}

func TestUnifiedReaderPrefersV2(t *testing.T) {
	tag := NewTag()
	tag.SetTitle("New Title")

	trailing := &v1.Tag{
		Title:  "Old Title",
		Artist: "Old Artist",
		Album:  "Old Album",
		Year:   "1986",
		Track:  5,
		Genre:  17,
	}

	file := buildMp3(t, tag, []byte("audio data"), trailing)

	unified, err := New(bytes.NewReader(file))
	require.NoError(t, err)
	require.NotNil(t, unified.V2)
	require.NotNil(t, unified.V1)

	// v2 wins where it has the field.
	assert.Equal(t, "New Title", unified.Title())

	// v1 fills the gaps.
	assert.Equal(t, "Old Album", unified.Album())
	assert.Equal(t, []string{"Old Artist"}, unified.Artists())
	assert.Equal(t, "1986", unified.Year())
	assert.Equal(t, []string{"Rock"}, unified.Genres())

	track, total := unified.TrackNumberAndPosition()
	assert.Equal(t, 5, track)
	assert.Zero(t, total)
}

func TestUnifiedReaderV1Only(t *testing.T) {
	trailing := &v1.Tag{Title: "Only v1"}
	file := buildMp3(t, nil, []byte("audio"), trailing)

	unified, err := New(bytes.NewReader(file))
	require.NoError(t, err)
	assert.Nil(t, unified.V2)
	assert.Equal(t, "Only v1", unified.Title())
}

func TestUnifiedReaderNoTags(t *testing.T) {
	unified, err := New(bytes.NewReader([]byte("just some audio bytes here to fill space")))
	require.NoError(t, err)
	assert.Nil(t, unified.V2)
	assert.Nil(t, unified.V1)
	assert.Empty(t, unified.Title())
	assert.Empty(t, unified.Artists())
}
