package mp3

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xonyagar/id3/lib"
	v1 "github.com/xonyagar/id3/v1"
)

// tagBlock builds a syntactically valid v2.4 tag block around an
// opaque body; the walker never looks inside.
func tagBlock(t *testing.T, body []byte) []byte {
	t.Helper()

	size, err := lib.EncodeSynchsafe(uint32(len(body)))
	require.NoError(t, err)

	block := []byte{'I', 'D', '3', 0x04, 0x00, 0x00}
	block = append(block, size...)

	return append(block, body...)
}

func writeTemp(t *testing.T, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.mp3")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	return path
}

func TestReadTagNoTag(t *testing.T) {
	_, err := ReadTag(bytes.NewReader([]byte("no tag in this audio stream")))
	assert.True(t, errors.Is(err, lib.ErrNoTag))

	_, err = ReadTag(bytes.NewReader([]byte("x")))
	assert.True(t, errors.Is(err, lib.ErrNoTag))
}

func TestReadTagReturnsLeadingBlock(t *testing.T) {
	block := tagBlock(t, []byte{1, 2, 3, 4})
	file := append(append([]byte(nil), block...), "audio payload"...)

	got, err := ReadTag(bytes.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, block, got)
}

func TestWriteTagInsertsWhenAbsent(t *testing.T) {
	audio := []byte("raw mpeg frames go here")
	path := writeTemp(t, audio)

	block := tagBlock(t, []byte{9, 9, 9})
	require.NoError(t, WriteTag(path, block))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte(nil), block...), audio...), got)
}

func TestWriteTagReplaces(t *testing.T) {
	audio := []byte("audio bytes, unchanged")
	old := tagBlock(t, []byte{1})
	path := writeTemp(t, append(append([]byte(nil), old...), audio...))

	// Grow.
	grown := tagBlock(t, bytes.Repeat([]byte{7}, 100))
	require.NoError(t, WriteTag(path, grown))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte(nil), grown...), audio...), got)

	// Shrink.
	small := tagBlock(t, []byte{5, 5})
	require.NoError(t, WriteTag(path, small))

	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte(nil), small...), audio...), got)
}

func TestWriteTagKeepsTrailingRecord(t *testing.T) {
	trailing := (&v1.Tag{Title: "Keep me"}).Render()
	audio := append([]byte("audio"), trailing...)
	path := writeTemp(t, audio)

	block := tagBlock(t, []byte{1, 2})
	require.NoError(t, WriteTag(path, block))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := ReadV1(f)
	require.NoError(t, err)
	assert.Equal(t, "Keep me", got.Title)
}

func TestWriteTagIdempotent(t *testing.T) {
	path := writeTemp(t, []byte("some audio"))
	block := tagBlock(t, []byte{3, 1, 4})

	require.NoError(t, WriteTag(path, block))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, WriteTag(path, block))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWriteV1(t *testing.T) {
	audio := []byte("the audio part")
	path := writeTemp(t, audio)

	require.NoError(t, WriteV1(path, &v1.Tag{Title: "First", Track: 3}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, len(audio)+v1.TagSize)
	assert.Equal(t, audio, got[:len(audio)])

	// A second write replaces instead of appending.
	require.NoError(t, WriteV1(path, &v1.Tag{Title: "Second"}))

	got, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, len(audio)+v1.TagSize)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	record, err := ReadV1(f)
	require.NoError(t, err)
	assert.Equal(t, "Second", record.Title)
}
