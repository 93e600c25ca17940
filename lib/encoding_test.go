package lib

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStringLatin1(t *testing.T) {
	s, err := DecodeString([]byte{'c', 'a', 'f', 0xe9}, EncodingLatin1)
	require.NoError(t, err)
	assert.Equal(t, "café", s)
}

func TestDecodeStringUTF16(t *testing.T) {
	// Little-endian with BOM.
	s, err := DecodeString([]byte{0xff, 0xfe, 'h', 0x00, 'i', 0x00}, EncodingUTF16)
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	// Big-endian with BOM.
	s, err = DecodeString([]byte{0xfe, 0xff, 0x00, 'h', 0x00, 'i'}, EncodingUTF16)
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	// Missing BOM falls back to little-endian.
	s, err = DecodeString([]byte{'h', 0x00, 'i', 0x00}, EncodingUTF16)
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	// Odd byte count is undecodable.
	_, err = DecodeString([]byte{0xff, 0xfe, 'h'}, EncodingUTF16)
	assert.True(t, errors.Is(err, ErrStringDecoding))
}

func TestDecodeStringUTF16BE(t *testing.T) {
	s, err := DecodeString([]byte{0x00, 'h', 0x00, 'i'}, EncodingUTF16BE)
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
}

func TestDecodeStringUTF8(t *testing.T) {
	s, err := DecodeString([]byte("héllo"), EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)

	_, err = DecodeString([]byte{0xc3, 0x28}, EncodingUTF8)
	assert.True(t, errors.Is(err, ErrStringDecoding))
}

func TestDecodeStringUnknownEncoding(t *testing.T) {
	_, err := DecodeString([]byte("x"), Encoding(9))
	assert.True(t, errors.Is(err, ErrStringDecoding))
}

func TestEncodeStringRoundTrip(t *testing.T) {
	for _, enc := range []Encoding{EncodingLatin1, EncodingUTF16, EncodingUTF16BE, EncodingUTF8} {
		for _, s := range []string{"", "plain", "café"} {
			raw, err := EncodeString(s, enc)
			require.NoError(t, err, "%s %q", enc, s)

			got, err := DecodeString(raw, enc)
			require.NoError(t, err)
			assert.Equal(t, s, got, "%s %q", enc, s)
		}
	}
}

func TestEncodeStringLatin1Unrepresentable(t *testing.T) {
	_, err := EncodeString("日本語", EncodingLatin1)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	assert.False(t, CanEncode("日本語", EncodingLatin1))
	assert.True(t, CanEncode("café", EncodingLatin1))
	assert.True(t, CanEncode("日本語", EncodingUTF8))
}

func TestTerminators(t *testing.T) {
	assert.Equal(t, []byte{0x00}, EncodingLatin1.Terminator())
	assert.Equal(t, []byte{0x00}, EncodingUTF8.Terminator())
	assert.Equal(t, []byte{0x00, 0x00}, EncodingUTF16.Terminator())
	assert.Equal(t, []byte{0x00, 0x00}, EncodingUTF16BE.Terminator())
}

func TestReadTerminated(t *testing.T) {
	s, rest, err := ReadTerminated([]byte("abc\x00def"), EncodingLatin1)
	require.NoError(t, err)
	assert.Equal(t, "abc", s)
	assert.Equal(t, []byte("def"), rest)

	// UTF-16 terminators sit on a two byte boundary; a stray single
	// zero inside a code unit does not terminate.
	in := []byte{0xff, 0xfe, 'a', 0x00, 0x00, 0x00, 'z'}
	s, rest, err = ReadTerminated(in, EncodingUTF16)
	require.NoError(t, err)
	assert.Equal(t, "a", s)
	assert.Equal(t, []byte{'z'}, rest)

	// Missing terminator consumes everything.
	s, rest, err = ReadTerminated([]byte("abc"), EncodingLatin1)
	require.NoError(t, err)
	assert.Equal(t, "abc", s)
	assert.Empty(t, rest)
}

func TestSplitTerminated(t *testing.T) {
	values, err := SplitTerminated([]byte("a\x00b\x00c"), EncodingLatin1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, values)

	values, err = SplitTerminated(nil, EncodingLatin1)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, values)
}

func TestAppendTerminated(t *testing.T) {
	out, err := AppendTerminated(nil, "hi", EncodingLatin1)
	require.NoError(t, err)
	assert.Equal(t, []byte("hi\x00"), out)

	out, err = AppendTerminated(nil, "", EncodingUTF16BE)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00}, out)
}

func TestHasBOM(t *testing.T) {
	assert.True(t, HasBOM([]byte{0xff, 0xfe, 0x00}))
	assert.True(t, HasBOM([]byte{0xfe, 0xff}))
	assert.False(t, HasBOM([]byte{'h', 0x00}))
	assert.False(t, HasBOM([]byte{0xff}))
}
