package aiff

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
	binary.BigEndian.PutUint32(out[4:8], uint32(len(payload)))
	out = append(out, payload...)

	if len(payload)%2 != 0 {
		out = append(out, 0)
	}

	return out
}

func buildAiff(form string, chunks ...[]byte) []byte {
	var body []byte
	for _, c := range chunks {
		body = append(body, c...)
	}

	out := make([]byte, formHeaderSize)
	copy(out, "FORM")
	binary.BigEndian.PutUint32(out[4:8], uint32(4+len(body)))
	copy(out[8:12], form)

	return append(out, body...)
}

func writeTemp(t *testing.T, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.aiff")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	return path
}

var (
	commChunk = buildChunk("COMM", bytes.Repeat([]byte{0x22}, 18))
	ssndChunk = buildChunk("SSND", []byte{0, 0, 0, 0, 0, 0, 0, 0, 9})
)

func TestReadTag(t *testing.T) {
	payload := []byte("aiff tag payload")
	file := buildAiff("AIFF", commChunk, buildChunk(TagChunkID, payload), ssndChunk)

	got, err := ReadTag(bytes.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// AIFF-C uses the same chunk structure.
	file = buildAiff("AIFC", buildChunk(TagChunkID, payload))

	got, err = ReadTag(bytes.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReadTagMissing(t *testing.T) {
	_, err := ReadTag(bytes.NewReader(buildAiff("AIFF", commChunk, ssndChunk)))
	assert.True(t, errors.Is(err, lib.ErrNoTag))
}

func TestReadTagRejectsNonForm(t *testing.T) {
	_, err := ReadTag(bytes.NewReader([]byte("this is not an aiff container")))
	assert.True(t, errors.Is(err, lib.ErrInvalidInput))
}

func TestWriteTagInsertAndReplace(t *testing.T) {
	original := buildAiff("AIFF", commChunk, ssndChunk)
	path := writeTemp(t, original)

	rendered := []byte("tag v1")
	require.NoError(t, WriteTag(path, rendered))

	got, err := os.ReadFile(path)
	require.NoError(t, err)

	oldSize := binary.BigEndian.Uint32(original[4:8])
	newSize := binary.BigEndian.Uint32(got[4:8])
	assert.Equal(t, oldSize+8+6, newSize)

	payload, err := ReadTag(bytes.NewReader(got))
	require.NoError(t, err)
	assert.Equal(t, rendered, payload)

	assert.True(t, bytes.Contains(got, commChunk))
	assert.True(t, bytes.Contains(got, ssndChunk))

	// Replace with a different size; other chunks stay byte for byte.
	require.NoError(t, WriteTag(path, []byte("a much longer replacement tag")))

	got, err = os.ReadFile(path)
	require.NoError(t, err)

	payload, err = ReadTag(bytes.NewReader(got))
	require.NoError(t, err)
	assert.Equal(t, []byte("a much longer replacement tag"), payload)

	assert.True(t, bytes.Contains(got, commChunk))
	assert.True(t, bytes.Contains(got, ssndChunk))
}

func TestWriteTagIdempotent(t *testing.T) {
	path := writeTemp(t, buildAiff("AIFF", commChunk, ssndChunk))
	rendered := []byte("stable bytes")

	require.NoError(t, WriteTag(path, rendered))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, WriteTag(path, rendered))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
