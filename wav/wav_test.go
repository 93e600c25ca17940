package wav

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xonyagar/id3/lib"
)

func buildChunk(id string, payload []byte) []byte {
	out := make([]byte, 8)
	copy(out, id)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(payload)))
	out = append(out, payload...)

	if len(payload)%2 != 0 {
		out = append(out, 0)
	}

	return out
}

func buildWav(chunks ...[]byte) []byte {
	var body []byte
	for _, c := range chunks {
		body = append(body, c...)
	}

	out := make([]byte, riffHeaderSize)
	copy(out, "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(4+len(body)))
	copy(out[8:12], "WAVE")

	return append(out, body...)
}

func writeTemp(t *testing.T, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.wav")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	return path
}

var (
	fmtChunk  = buildChunk("fmt ", bytes.Repeat([]byte{0x11}, 16))
	dataChunk = buildChunk("data", []byte{1, 2, 3, 4, 5})
)

func TestReadTag(t *testing.T) {
	payload := []byte("tag payload")
	file := buildWav(fmtChunk, buildChunk("id3 ", payload), dataChunk)

	got, err := ReadTag(bytes.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// Upper-case chunk ID works too.
	file = buildWav(fmtChunk, buildChunk("ID3 ", payload), dataChunk)

	got, err = ReadTag(bytes.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReadTagMissing(t *testing.T) {
	_, err := ReadTag(bytes.NewReader(buildWav(fmtChunk, dataChunk)))
	assert.True(t, errors.Is(err, lib.ErrNoTag))
}

func TestReadTagRejectsNonRiff(t *testing.T) {
	_, err := ReadTag(bytes.NewReader([]byte("definitely not a wave file")))
	assert.True(t, errors.Is(err, lib.ErrInvalidInput))
}

// Inserting into a file without a tag places the chunk right after
// fmt, pads to an even byte, and grows the RIFF size by the chunk
// footprint.
func TestWriteTagInsertsAfterFmt(t *testing.T) {
	original := buildWav(fmtChunk, dataChunk)
	path := writeTemp(t, original)

	rendered := []byte("odd")
	require.NoError(t, WriteTag(path, rendered))

	got, err := os.ReadFile(path)
	require.NoError(t, err)

	oldSize := binary.LittleEndian.Uint32(original[4:8])
	newSize := binary.LittleEndian.Uint32(got[4:8])
	assert.Equal(t, oldSize+8+3+1, newSize)

	// Header and fmt chunk are untouched.
	assert.Equal(t, original[8:12+len(fmtChunk)], got[8:12+len(fmtChunk)])

	// The tag chunk sits between fmt and data.
	offset := riffHeaderSize + len(fmtChunk)
	assert.Equal(t, "id3 ", string(got[offset:offset+4]))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(got[offset+4:offset+8]))
	assert.Equal(t, rendered, got[offset+8:offset+11])
	assert.Equal(t, byte(0), got[offset+11])

	// The data chunk follows, byte for byte.
	assert.Equal(t, dataChunk, got[offset+12:])
}

func TestWriteTagReplacesInPlace(t *testing.T) {
	original := buildWav(buildChunk("id3 ", []byte("old tag")), fmtChunk, dataChunk)
	path := writeTemp(t, original)

	require.NoError(t, WriteTag(path, []byte("newer tag!")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)

	// Still exactly one tag chunk, in the original position.
	assert.Equal(t, "id3 ", string(got[riffHeaderSize:riffHeaderSize+4]))

	payload, err := ReadTag(bytes.NewReader(got))
	require.NoError(t, err)
	assert.Equal(t, []byte("newer tag!"), payload)

	// Non-tag chunks survive byte for byte.
	assert.True(t, bytes.Contains(got, fmtChunk))
	assert.True(t, bytes.Contains(got, dataChunk))
}

func TestWriteTagIdempotent(t *testing.T) {
	path := writeTemp(t, buildWav(fmtChunk, dataChunk))
	rendered := []byte("same tag bytes")

	require.NoError(t, WriteTag(path, rendered))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, WriteTag(path, rendered))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWriteTagPreservesUnknownChunks(t *testing.T) {
	extra := buildChunk("LIST", []byte("INFOsome metadata"))
	path := writeTemp(t, buildWav(fmtChunk, extra, dataChunk))

	require.NoError(t, WriteTag(path, []byte{0xaa, 0xbb}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(got, extra))
	assert.True(t, bytes.Contains(got, dataChunk))
}
