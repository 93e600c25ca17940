package lib

import "github.com/pkg/errors"

// DecodeSynchsafe decodes a 28-bit synchsafe integer from the first
// four bytes of b. Each byte carries 7 bits; bit 7 must be clear.
func DecodeSynchsafe(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, errors.Wrapf(ErrInvalidInput, "synchsafe integer needs 4 bytes, have %d", len(b))
	}

	var v uint32

	for i := 0; i < 4; i++ {
		if b[i]&0x80 != 0 {
			return 0, errors.Wrapf(ErrInvalidInput, "synchsafe byte %d has bit 7 set", i)
		}

		v = v<<7 | uint32(b[i])
	}

	return v, nil
}

// EncodeSynchsafe encodes v as a 28-bit synchsafe integer in 4 bytes.
func EncodeSynchsafe(v uint32) ([]byte, error) {
	if v >= 1<<28 {
		return nil, errors.Wrapf(ErrInvalidInput, "value %d does not fit in 28 synchsafe bits", v)
	}

	return []byte{
		byte(v >> 21 & 0x7f),
		byte(v >> 14 & 0x7f),
		byte(v >> 7 & 0x7f),
		byte(v & 0x7f),
	}, nil
}

// ByteToInt reads a big-endian unsigned integer of any width.
func ByteToInt(b []byte) int {
	size := 0
	for i := range b {
		size = size<<8 + int(b[i])
	}

	return size
}

// IntToBytes writes v big-endian into width bytes.
func IntToBytes(v int, width int) []byte {
	b := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}

	return b
}
