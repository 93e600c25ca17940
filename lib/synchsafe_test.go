package lib

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSynchsafe(t *testing.T) {
	tests := []struct {
		in   []byte
		want uint32
	}{
		{[]byte{0x00, 0x00, 0x00, 0x00}, 0},
		{[]byte{0x00, 0x00, 0x00, 0x7f}, 127},
		{[]byte{0x00, 0x00, 0x01, 0x00}, 128},
		{[]byte{0x00, 0x00, 0x02, 0x01}, 257},
		{[]byte{0x7f, 0x7f, 0x7f, 0x7f}, 1<<28 - 1},
	}

	for _, tt := range tests {
		got, err := DecodeSynchsafe(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestDecodeSynchsafeRejectsHighBit(t *testing.T) {
	for i := 0; i < 4; i++ {
		in := []byte{0x00, 0x00, 0x00, 0x00}
		in[i] = 0x80

		_, err := DecodeSynchsafe(in)
		assert.True(t, errors.Is(err, ErrInvalidInput), "byte %d", i)
	}

	_, err := DecodeSynchsafe([]byte{0x00, 0x00})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestEncodeSynchsafeRejectsOverflow(t *testing.T) {
	_, err := EncodeSynchsafe(1 << 28)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = EncodeSynchsafe(1<<32 - 1)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestSynchsafeRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 0x3fff, 0x4000, 0x1fffff, 0x200000, 1<<28 - 1}

	for v := uint32(0); v < 1<<28; v += 65521 {
		values = append(values, v)
	}

	for _, v := range values {
		b, err := EncodeSynchsafe(v)
		require.NoError(t, err)
		require.Len(t, b, 4)

		for i, bb := range b {
			assert.Zero(t, bb&0x80, "value %d byte %d", v, i)
		}

		got, err := DecodeSynchsafe(b)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestByteToInt(t *testing.T) {
	assert.Equal(t, 0x0102, ByteToInt([]byte{0x01, 0x02}))
	assert.Equal(t, 0xffffff, ByteToInt([]byte{0xff, 0xff, 0xff}))
	assert.Equal(t, 0, ByteToInt(nil))
	assert.Equal(t, []byte{0x01, 0x02}, IntToBytes(0x0102, 2))
	assert.Equal(t, []byte{0x00, 0x00, 0x01}, IntToBytes(1, 3))
}
