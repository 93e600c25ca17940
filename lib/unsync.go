package lib

// AddUnsync escapes every 0xFF that is followed by a byte with the top
// three bits set, or by 0x00, by inserting a 0x00 after it. The result
// contains no byte pair that looks like an MPEG sync word.
func AddUnsync(b []byte) []byte {
	out := make([]byte, 0, len(b)+len(b)/64)

	for i := 0; i < len(b); i++ {
		out = append(out, b[i])

		if b[i] == 0xff && i+1 < len(b) && (b[i+1]&0xe0 == 0xe0 || b[i+1] == 0x00) {
			out = append(out, 0x00)
		}
	}

	return out
}

// RemoveUnsync reverses AddUnsync by dropping any 0x00 that directly
// follows a 0xFF.
func RemoveUnsync(b []byte) []byte {
	out := make([]byte, 0, len(b))

	for i := 0; i < len(b); i++ {
		out = append(out, b[i])

		if b[i] == 0xff && i+1 < len(b) && b[i+1] == 0x00 {
			i++
		}
	}

	return out
}

// NeedsUnsync reports whether b contains a byte pair that would be
// mistaken for an MPEG sync word once embedded in an audio stream.
func NeedsUnsync(b []byte) bool {
	for i := 0; i+1 < len(b); i++ {
		if b[i] == 0xff && (b[i+1]&0xe0 == 0xe0 || b[i+1] == 0x00) {
			return true
		}
	}

	return false
}
