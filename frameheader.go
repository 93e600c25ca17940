package id3

import (
	"bytes"
	"compress/flate"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/xonyagar/id3/lib"
)

// errPadding signals that the frame walker ran into the zero bytes
// that pad out the rest of the tag.
var errPadding = errors.New("padding encountered")

// v2.3 frame header flags, %abc00000 %ijk00000.
const (
	v23FlagTagAlter    = 0x8000
	v23FlagFileAlter   = 0x4000
	v23FlagReadOnly    = 0x2000
	v23FlagCompression = 0x0080
	v23FlagEncryption  = 0x0040
	v23FlagGrouping    = 0x0020

	v23KnownFlags = v23FlagTagAlter | v23FlagFileAlter | v23FlagReadOnly |
		v23FlagCompression | v23FlagEncryption | v23FlagGrouping
)

// v2.4 frame header flags, %0abc0000 %0h00kmnp.
const (
	v24FlagTagAlter    = 0x4000
	v24FlagFileAlter   = 0x2000
	v24FlagReadOnly    = 0x1000
	v24FlagGrouping    = 0x0040
	v24FlagCompression = 0x0008
	v24FlagEncryption  = 0x0004
	v24FlagUnsync      = 0x0002
	v24FlagDataLength  = 0x0001

	v24KnownFlags = v24FlagTagAlter | v24FlagFileAlter | v24FlagReadOnly |
		v24FlagGrouping | v24FlagCompression | v24FlagEncryption |
		v24FlagUnsync | v24FlagDataLength
)

func validIDByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func validFrameID(id string) bool {
	for i := 0; i < len(id); i++ {
		if !validIDByte(id[i]) {
			return false
		}
	}

	return len(id) > 0
}

// decodeFrame reads one frame from the head of data and returns it
// together with the number of bytes consumed. errPadding means the
// walker reached the tag's padding.
func decodeFrame(data []byte, version Version, strict bool, log *zap.Logger) (*Frame, int, error) {
	if version == Version22 {
		return decodeFrame22(data, version, strict, log)
	}

	if len(data) < 10 {
		return nil, 0, errors.Wrap(lib.ErrInvalidInput, "frame header truncated")
	}

	if data[0] == 0 {
		return nil, 0, errPadding
	}

	id := string(data[:4])
	if !validFrameID(id) {
		return nil, 0, errors.Wrapf(lib.ErrInvalidInput, "invalid frame id %q", id)
	}

	var (
		size uint32
		err  error
	)

	if version == Version24 {
		size, err = lib.DecodeSynchsafe(data[4:8])
		if err != nil {
			return nil, 0, errors.WithMessagef(err, "frame %s size", id)
		}
	} else {
		size = uint32(lib.ByteToInt(data[4:8]))
	}

	flags := uint(lib.ByteToInt(data[8:10]))

	if len(data) < 10+int(size) {
		return nil, 0, errors.Wrapf(lib.ErrInvalidInput, "frame %s size %d exceeds remaining tag data", id, size)
	}

	body := data[10 : 10+int(size)]
	advance := 10 + int(size)

	frame := &Frame{ID: id, Encoding: lib.EncodingLatin1}

	var (
		compressed, encrypted, unsync, hasDataLen bool
		dataLen                                   uint32
	)

	if version == Version24 {
		if unknown := flags &^ v24KnownFlags; unknown != 0 {
			log.Warn("unknown frame flag bits, passing payload through",
				zap.String("frame", id), zap.Uint("flags", unknown))
		}

		frame.TagAlterPreservation = flags&v24FlagTagAlter != 0
		frame.FileAlterPreservation = flags&v24FlagFileAlter != 0
		compressed = flags&v24FlagCompression != 0
		encrypted = flags&v24FlagEncryption != 0
		unsync = flags&v24FlagUnsync != 0

		if flags&v24FlagGrouping != 0 {
			if len(body) < 1 {
				return nil, 0, errors.Wrapf(lib.ErrInvalidInput, "frame %s truncated before group id", id)
			}

			frame.hasGroup, frame.group = true, body[0]
			body = body[1:]
		}

		if flags&v24FlagEncryption != 0 {
			if len(body) < 1 {
				return nil, 0, errors.Wrapf(lib.ErrInvalidInput, "frame %s truncated before encryption method", id)
			}

			frame.encryptMethod = body[0]
			body = body[1:]
		}

		if flags&v24FlagDataLength != 0 {
			if len(body) < 4 {
				return nil, 0, errors.Wrapf(lib.ErrInvalidInput, "frame %s truncated before data length", id)
			}

			dataLen, err = lib.DecodeSynchsafe(body[:4])
			if err != nil {
				return nil, 0, errors.WithMessagef(err, "frame %s data length", id)
			}

			hasDataLen = true
			body = body[4:]
		}
	} else {
		if unknown := flags &^ v23KnownFlags; unknown != 0 {
			log.Warn("unknown frame flag bits, passing payload through",
				zap.String("frame", id), zap.Uint("flags", unknown))
		}

		frame.TagAlterPreservation = flags&v23FlagTagAlter != 0
		frame.FileAlterPreservation = flags&v23FlagFileAlter != 0
		compressed = flags&v23FlagCompression != 0
		encrypted = flags&v23FlagEncryption != 0

		if compressed {
			if len(body) < 4 {
				return nil, 0, errors.Wrapf(lib.ErrInvalidInput, "frame %s truncated before decompressed size", id)
			}

			dataLen = uint32(lib.ByteToInt(body[:4]))
			hasDataLen = true
			body = body[4:]
		}

		if encrypted {
			if len(body) < 1 {
				return nil, 0, errors.Wrapf(lib.ErrInvalidInput, "frame %s truncated before encryption method", id)
			}

			frame.encryptMethod = body[0]
			body = body[1:]
		}

		if flags&v23FlagGrouping != 0 {
			if len(body) < 1 {
				return nil, 0, errors.Wrapf(lib.ErrInvalidInput, "frame %s truncated before group id", id)
			}

			frame.hasGroup, frame.group = true, body[0]
			body = body[1:]
		}
	}

	if encrypted {
		// The payload stays opaque; it can be re-emitted but never
		// interpreted.
		log.Warn("encrypted frame, keeping payload opaque", zap.String("frame", id))

		frame.encrypted = true
		frame.Content = Unknown{Data: append([]byte(nil), body...), Version: version}

		return frame, advance, nil
	}

	if unsync {
		body = lib.RemoveUnsync(body)
	}

	if compressed {
		body, err = inflate(body)
		if err != nil {
			return nil, 0, errors.Wrapf(lib.ErrInvalidInput, "frame %s: %v", id, err)
		}

		frame.compressed = true
	}

	if hasDataLen && int(dataLen) != len(body) {
		if strict {
			return nil, 0, errors.Wrapf(lib.ErrInvalidInput,
				"frame %s data length %d does not match %d decoded bytes", id, dataLen, len(body))
		}

		log.Warn("frame data length indicator mismatch",
			zap.String("frame", id), zap.Uint32("declared", dataLen), zap.Int("actual", len(body)))
	}

	if err := decodeFrameContent(frame, id, body, version, strict, log); err != nil {
		return nil, 0, err
	}

	return frame, advance, nil
}

func decodeFrame22(data []byte, version Version, strict bool, log *zap.Logger) (*Frame, int, error) {
	if len(data) < 6 {
		return nil, 0, errors.Wrap(lib.ErrInvalidInput, "frame header truncated")
	}

	if data[0] == 0 {
		return nil, 0, errPadding
	}

	id := string(data[:3])
	if !validFrameID(id) {
		return nil, 0, errors.Wrapf(lib.ErrInvalidInput, "invalid frame id %q", id)
	}

	size := lib.ByteToInt(data[3:6])
	if len(data) < 6+size {
		return nil, 0, errors.Wrapf(lib.ErrInvalidInput, "frame %s size %d exceeds remaining tag data", id, size)
	}

	body := data[6 : 6+size]
	advance := 6 + size

	canonical, known := upgradeID(id)
	if !known {
		// No four character equivalent; the frame keeps its three
		// character name and only ever travels back to a v2.2 tag.
		return &Frame{
			ID:      id,
			Content: Unknown{Data: append([]byte(nil), body...), Version: version},
		}, advance, nil
	}

	frame := &Frame{ID: canonical, Encoding: lib.EncodingLatin1}

	if err := decodeFrameContent(frame, canonical, body, version, strict, log); err != nil {
		return nil, 0, err
	}

	return frame, advance, nil
}

// decodeFrameContent runs the content codec and absorbs its failures
// into Unknown so one bad frame does not take the tag down.
func decodeFrameContent(frame *Frame, id string, body []byte, version Version, strict bool, log *zap.Logger) error {
	codec := contentCodec{version: version, strict: strict, log: log}

	content, enc, err := codec.decode(id, body)
	if err != nil {
		if strict {
			return errors.WithMessagef(err, "frame %s", id)
		}

		log.Warn("undecodable frame kept as opaque data",
			zap.String("frame", id), zap.Error(err))

		content, enc = Unknown{Data: append([]byte(nil), body...), Version: version}, lib.EncodingLatin1
	}

	frame.Content = content
	frame.Encoding = enc

	return nil
}

// encodeFrame renders one frame for the target version. A nil result
// with nil error means the frame cannot travel to that version and was
// skipped.
func encodeFrame(f *Frame, version Version, allowUnsync bool, log *zap.Logger) ([]byte, error) {
	if u, ok := f.Content.(Unknown); ok {
		return encodeUnknownFrame(f, u, version, log)
	}

	wireID := f.ID

	if version == Version22 {
		short, ok := downgradeID(f.ID)
		if !ok {
			log.Warn("frame has no v2.2 equivalent, dropping", zap.String("frame", f.ID))
			return nil, nil
		}

		wireID = short
	} else if len(f.ID) != 4 {
		log.Warn("frame id not representable, dropping", zap.String("frame", f.ID))
		return nil, nil
	}

	codec := contentCodec{version: version, log: log}

	body, err := codec.encode(f)
	if err != nil {
		return nil, err
	}

	if version == Version22 {
		return renderFrame22(wireID, body)
	}

	return renderFrame(f, wireID, body, version, allowUnsync)
}

func encodeUnknownFrame(f *Frame, u Unknown, version Version, log *zap.Logger) ([]byte, error) {
	// Raw bodies only travel between revisions that share the frame
	// body layout; v2.2 bodies stay on v2.2.
	compatible := version == u.Version ||
		(version >= Version23 && u.Version >= Version23)
	if !compatible {
		log.Warn("opaque frame cannot be re-encoded for another version, dropping",
			zap.String("frame", f.ID))

		return nil, nil
	}

	if version == Version22 {
		id := f.ID
		if len(id) != 3 {
			if short, ok := downgradeID(f.ID); ok {
				id = short
			} else {
				log.Warn("opaque frame has no v2.2 name, dropping", zap.String("frame", f.ID))
				return nil, nil
			}
		}

		return renderFrame22(id, u.Data)
	}

	if len(f.ID) != 4 {
		log.Warn("opaque frame has no four character name, dropping", zap.String("frame", f.ID))
		return nil, nil
	}

	return renderFrame(f, f.ID, u.Data, version, false)
}

func renderFrame22(id string, body []byte) ([]byte, error) {
	if len(body) >= 1<<24 {
		return nil, errors.Wrapf(lib.ErrInvalidInput, "frame %s body of %d bytes exceeds v2.2 size field", id, len(body))
	}

	out := make([]byte, 0, 6+len(body))
	out = append(out, id...)
	out = append(out, lib.IntToBytes(len(body), 3)...)

	return append(out, body...), nil
}

func renderFrame(f *Frame, id string, body []byte, version Version, allowUnsync bool) ([]byte, error) {
	var (
		flags uint
		extra []byte
	)

	if version == Version24 {
		if f.TagAlterPreservation {
			flags |= v24FlagTagAlter
		}

		if f.FileAlterPreservation {
			flags |= v24FlagFileAlter
		}

		if f.hasGroup {
			flags |= v24FlagGrouping
			extra = append(extra, f.group)
		}

		if f.encrypted {
			flags |= v24FlagEncryption
			extra = append(extra, f.encryptMethod)
		}

		decodedLen := len(body)
		needDataLen := false

		if f.compressed && !f.encrypted {
			compressed, err := deflate(body)
			if err != nil {
				return nil, err
			}

			body = compressed
			flags |= v24FlagCompression
			needDataLen = true
		}

		if allowUnsync && lib.NeedsUnsync(body) {
			body = lib.AddUnsync(body)
			flags |= v24FlagUnsync
			needDataLen = true
		}

		if needDataLen {
			flags |= v24FlagDataLength

			dl, err := lib.EncodeSynchsafe(uint32(decodedLen))
			if err != nil {
				return nil, err
			}

			extra = append(extra, dl...)
		}
	} else {
		if f.TagAlterPreservation {
			flags |= v23FlagTagAlter
		}

		if f.FileAlterPreservation {
			flags |= v23FlagFileAlter
		}

		if f.compressed && !f.encrypted {
			decodedLen := len(body)

			compressed, err := deflate(body)
			if err != nil {
				return nil, err
			}

			body = compressed
			flags |= v23FlagCompression
			extra = append(extra, lib.IntToBytes(decodedLen, 4)...)
		}

		if f.encrypted {
			flags |= v23FlagEncryption
			extra = append(extra, f.encryptMethod)
		}

		if f.hasGroup {
			flags |= v23FlagGrouping
			extra = append(extra, f.group)
		}
	}

	size := len(extra) + len(body)

	var sizeBytes []byte

	if version == Version24 {
		var err error

		sizeBytes, err = lib.EncodeSynchsafe(uint32(size))
		if err != nil {
			return nil, errors.WithMessagef(err, "frame %s size", id)
		}
	} else {
		if uint64(size) >= 1<<32 {
			return nil, errors.Wrapf(lib.ErrInvalidInput, "frame %s body of %d bytes exceeds size field", id, size)
		}

		sizeBytes = lib.IntToBytes(size, 4)
	}

	out := make([]byte, 0, 10+size)
	out = append(out, id...)
	out = append(out, sizeBytes...)
	out = append(out, byte(flags>>8), byte(flags))
	out = append(out, extra...)

	return append(out, body...), nil
}

// inflate undoes the raw DEFLATE stream a compressed frame carries.
func inflate(b []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(b))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "inflate frame body")
	}

	return out, nil
}

func deflate(b []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, errors.Wrap(err, "deflate frame body")
	}

	if _, err := w.Write(b); err != nil {
		return nil, errors.Wrap(err, "deflate frame body")
	}

	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "deflate frame body")
	}

	return buf.Bytes(), nil
}
