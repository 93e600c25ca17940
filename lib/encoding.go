package lib

import (
	"bytes"
	"unicode/utf8"

	"github.com/pkg/errors"
	textencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is the text encoding byte that leads most frame payloads.
type Encoding byte

const (
	EncodingLatin1 Encoding = iota
	EncodingUTF16
	EncodingUTF16BE
	EncodingUTF8
)

func (e Encoding) String() string {
	switch e {
	case EncodingLatin1:
		return "ISO-8859-1"
	case EncodingUTF16:
		return "UTF-16"
	case EncodingUTF16BE:
		return "UTF-16BE"
	case EncodingUTF8:
		return "UTF-8"
	default:
		return "unknown"
	}
}

// Valid reports whether e is an encoding byte the format defines.
func (e Encoding) Valid() bool {
	return e <= EncodingUTF8
}

// TerminatorSize is the width of the string terminator: one zero byte
// for single-byte encodings, an aligned zero pair for UTF-16.
func (e Encoding) TerminatorSize() int {
	if e == EncodingUTF16 || e == EncodingUTF16BE {
		return 2
	}

	return 1
}

// Terminator returns the terminator bytes for e.
func (e Encoding) Terminator() []byte {
	if e.TerminatorSize() == 2 {
		return []byte{0x00, 0x00}
	}

	return []byte{0x00}
}

var (
	latin1Decoder = charmap.ISO8859_1.NewDecoder()
	latin1Encoder = charmap.ISO8859_1.NewEncoder()
	utf16LECodec  = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	utf16BECodec  = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	utf16LEBOM    = []byte{0xff, 0xfe}
)

// HasBOM reports whether b starts with a UTF-16 byte order mark.
func HasBOM(b []byte) bool {
	if len(b) < 2 {
		return false
	}

	return (b[0] == 0xff && b[1] == 0xfe) || (b[0] == 0xfe && b[1] == 0xff)
}

// DecodeString converts a raw payload in the given encoding to UTF-8.
// A UTF-16 payload without a BOM is decoded as little-endian; callers
// that care can detect the missing mark with HasBOM first.
func DecodeString(b []byte, enc Encoding) (string, error) {
	switch enc {
	case EncodingLatin1:
		s, err := latin1Decoder.String(string(b))
		if err != nil {
			return "", errors.Wrap(ErrStringDecoding, err.Error())
		}

		return s, nil

	case EncodingUTF8:
		if !utf8.Valid(b) {
			return "", errors.Wrapf(ErrStringDecoding, "invalid UTF-8 payload % x", b)
		}

		return string(b), nil

	case EncodingUTF16:
		codec := utf16LECodec
		if len(b) >= 2 && b[0] == 0xfe && b[1] == 0xff {
			codec = utf16BECodec
			b = b[2:]
		} else if len(b) >= 2 && b[0] == 0xff && b[1] == 0xfe {
			b = b[2:]
		}

		return decodeUTF16(b, codec)

	case EncodingUTF16BE:
		return decodeUTF16(b, utf16BECodec)

	default:
		return "", errors.Wrapf(ErrStringDecoding, "unknown encoding byte %#02x", byte(enc))
	}
}

func decodeUTF16(b []byte, codec textencoding.Encoding) (string, error) {
	if len(b)%2 != 0 {
		return "", errors.Wrapf(ErrStringDecoding, "UTF-16 payload has odd length %d", len(b))
	}

	out, err := codec.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrap(ErrStringDecoding, err.Error())
	}

	return string(out), nil
}

// EncodeString converts s to raw payload bytes in the given encoding.
// UTF-16 output is little-endian and carries a BOM.
func EncodeString(s string, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingLatin1:
		out, err := latin1Encoder.Bytes([]byte(s))
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidInput, "text %q cannot be represented in ISO-8859-1", s)
		}

		return out, nil

	case EncodingUTF8:
		return []byte(s), nil

	case EncodingUTF16:
		out, err := utf16LECodec.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, errors.Wrap(ErrInvalidInput, err.Error())
		}

		return append(append([]byte{}, utf16LEBOM...), out...), nil

	case EncodingUTF16BE:
		out, err := utf16BECodec.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, errors.Wrap(ErrInvalidInput, err.Error())
		}

		return out, nil

	default:
		return nil, errors.Wrapf(ErrInvalidInput, "unknown encoding byte %#02x", byte(enc))
	}
}

// CanEncode reports whether s survives a round trip through enc.
func CanEncode(s string, enc Encoding) bool {
	if enc != EncodingLatin1 {
		return true
	}

	_, err := latin1Encoder.String(s)

	return err == nil
}

// SplitTerminator cuts b at the encoding's first string terminator.
// The terminator belongs to neither half; without one the whole buffer
// is the first half.
func SplitTerminator(b []byte, enc Encoding) (raw, rest []byte) {
	if enc.TerminatorSize() == 2 {
		for i := 0; i+1 < len(b); i += 2 {
			if b[i] == 0x00 && b[i+1] == 0x00 {
				return b[:i], b[i+2:]
			}
		}

		return b, nil
	}

	if i := bytes.IndexByte(b, 0x00); i >= 0 {
		return b[:i], b[i+1:]
	}

	return b, nil
}

// ReadTerminated decodes the string before the encoding's terminator
// and returns whatever follows it.
func ReadTerminated(b []byte, enc Encoding) (s string, rest []byte, err error) {
	raw, rest := SplitTerminator(b, enc)
	s, err = DecodeString(raw, enc)

	return s, rest, err
}

// SplitTerminated returns every terminated string in b. A trailing
// unterminated run counts as a final string.
func SplitTerminated(b []byte, enc Encoding) ([]string, error) {
	var out []string

	for len(b) > 0 {
		s, rest, err := ReadTerminated(b, enc)
		if err != nil {
			return nil, err
		}

		out = append(out, s)
		b = rest
	}

	if len(out) == 0 {
		out = []string{""}
	}

	return out, nil
}

// AppendTerminated appends the encoded form of s plus its terminator.
func AppendTerminated(dst []byte, s string, enc Encoding) ([]byte, error) {
	raw, err := EncodeString(s, enc)
	if err != nil {
		return nil, err
	}

	dst = append(dst, raw...)

	return append(dst, enc.Terminator()...), nil
}
