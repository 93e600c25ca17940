package id3

import (
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/xonyagar/id3/lib"
)

// V2HeaderSize is size of the ID3v2.2, ID3v2.3 and ID3v2.4 tag header
const V2HeaderSize = 10

// Tag header flag bits.
const (
	tagFlagUnsync       = 0x80
	tagFlagExtended     = 0x40
	tagFlagExperimental = 0x20
	tagFlagFooter       = 0x10
)

// readTagBlock reads a complete tag block, header through footer, from
// the current stream position.
func readTagBlock(r io.Reader) ([]byte, error) {
	header := make([]byte, V2HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, lib.ErrNoTag
	}

	if string(header[:3]) != "ID3" {
		return nil, lib.ErrNoTag
	}

	size, err := lib.DecodeSynchsafe(header[6:10])
	if err != nil {
		return nil, errors.WithMessage(err, "tag size")
	}

	total := int(size)
	if header[5]&tagFlagFooter != 0 {
		total += V2HeaderSize
	}

	block := make([]byte, V2HeaderSize+total)
	copy(block, header)

	if _, err := io.ReadFull(r, block[V2HeaderSize:]); err != nil {
		return nil, errors.Wrapf(lib.ErrInvalidInput, "tag body truncated: %v", err)
	}

	return block, nil
}

// decodeTag parses a complete tag block into the in-memory model.
// Frame-level problems are absorbed; a fatal error mid-stream comes
// back as a PartialTagError carrying what was decoded so far.
func decodeTag(block []byte, opts Options) (*Tag, error) {
	log := opts.logger()

	if len(block) < V2HeaderSize || string(block[:3]) != "ID3" {
		return nil, lib.ErrNoTag
	}

	version := Version(block[3])
	if !version.Valid() {
		return nil, errors.Wrapf(lib.ErrUnsupportedVersion, "major version %d", block[3])
	}

	if block[4] != 0 {
		log.Warn("nonzero tag revision", zap.Uint8("revision", block[4]))
	}

	flags := block[5]

	size, err := lib.DecodeSynchsafe(block[6:10])
	if err != nil {
		return nil, errors.WithMessage(err, "tag size")
	}

	if len(block) < V2HeaderSize+int(size) {
		return nil, errors.Wrapf(lib.ErrInvalidInput,
			"tag claims %d bytes, block carries %d", size, len(block)-V2HeaderSize)
	}

	body := block[V2HeaderSize : V2HeaderSize+int(size)]

	if flags&tagFlagFooter != 0 {
		if rest := block[V2HeaderSize+int(size):]; len(rest) >= V2HeaderSize && string(rest[:3]) != "3DI" {
			log.Warn("tag footer has bad magic, ignoring")
		}
	}

	if flags&tagFlagUnsync != 0 {
		if version < Version24 {
			body = lib.RemoveUnsync(body)
		} else {
			// v2.4 moved unsynchronisation to the frame level; the
			// frame walker handles it there.
			log.Warn("tag-level unsynchronisation flag on a v2.4 tag, ignoring")
		}
	}

	tag := &Tag{version: version, flags: flags}

	if flags&tagFlagExtended != 0 && version >= Version23 {
		body, err = splitExtendedHeader(tag, body, version)
		if err != nil {
			return nil, err
		}
	}

	for len(body) > 0 {
		if body[0] == 0 {
			break
		}

		frame, advance, err := decodeFrame(body, version, opts.Strict, log)
		if err != nil {
			if errors.Is(err, errPadding) {
				break
			}

			return nil, &PartialTagError{Tag: tag, Err: err}
		}

		tag.frames.Add(frame)
		body = body[advance:]
	}

	return tag, nil
}

// splitExtendedHeader cuts the extended header off the body. Its
// contents are surfaced opaquely and never relied upon.
func splitExtendedHeader(tag *Tag, body []byte, version Version) ([]byte, error) {
	if len(body) < 4 {
		return nil, errors.Wrap(lib.ErrInvalidInput, "extended header truncated")
	}

	var total int

	if version == Version24 {
		size, err := lib.DecodeSynchsafe(body[:4])
		if err != nil {
			return nil, errors.WithMessage(err, "extended header size")
		}

		total = int(size)
	} else {
		// The v2.3 size field does not count itself.
		total = lib.ByteToInt(body[:4]) + 4
	}

	if total < 4 || total > len(body) {
		return nil, errors.Wrapf(lib.ErrInvalidInput, "extended header of %d bytes", total)
	}

	tag.extendedHeader = append([]byte(nil), body[:total]...)

	return body[total:], nil
}

// encodeTag renders the tag for the requested wire version.
func encodeTag(t *Tag, version Version, opts Options) ([]byte, error) {
	log := opts.logger()

	if !version.Valid() {
		return nil, errors.Wrapf(lib.ErrUnsupportedVersion, "major version %d", byte(version))
	}

	var flags byte

	var body []byte

	if ex := t.extendedHeader; len(ex) > 0 {
		if version == t.version {
			body = append(body, ex...)
			flags |= tagFlagExtended
		} else {
			log.Warn("extended header dropped on version change")
		}
	}

	frameUnsync := opts.Unsync && version == Version24

	for _, frame := range convertFrames(t.Frames(), version, log) {
		raw, err := encodeFrame(frame, version, frameUnsync, log)
		if err != nil {
			return nil, err
		}

		body = append(body, raw...)
	}

	if version < Version24 && lib.NeedsUnsync(body) {
		body = lib.AddUnsync(body)
		flags |= tagFlagUnsync
	}

	padding := opts.Padding

	footer := opts.Footer && version == Version24
	if footer {
		// A footer and padding are mutually exclusive.
		padding = 0
		flags |= tagFlagFooter
	}

	size, err := lib.EncodeSynchsafe(uint32(len(body) + padding))
	if err != nil {
		return nil, errors.WithMessage(err, "tag size")
	}

	out := make([]byte, 0, V2HeaderSize+len(body)+padding)
	out = append(out, 'I', 'D', '3', byte(version), 0, flags)
	out = append(out, size...)
	out = append(out, body...)
	out = append(out, make([]byte, padding)...)

	if footer {
		out = append(out, '3', 'D', 'I', byte(version), 0, flags)
		out = append(out, size...)
	}

	return out, nil
}

// convertFrames normalises the calendar frames for the target version:
// TYER, TDAT and TIME combine into TDRC on the way up, TDRC lowers to
// them on the way down. Everything else passes through.
func convertFrames(frames []*Frame, target Version, log *zap.Logger) []*Frame {
	out := make([]*Frame, 0, len(frames))

	textOf := func(id string) string {
		for _, f := range frames {
			if f.ID == id {
				if text, ok := f.Content.(Text); ok {
					return text.Text
				}
			}
		}

		return ""
	}

	if target == Version24 {
		tyer, tdat, time := textOf("TYER"), textOf("TDAT"), textOf("TIME")
		hasTDRC := textOf("TDRC") != ""

		for _, f := range frames {
			switch f.ID {
			case "TYER", "TDAT", "TIME":
				continue
			}

			out = append(out, f)
		}

		if !hasTDRC && tyer != "" {
			if tdrc := joinRecordingTime(tyer, tdat, time); tdrc != "" {
				out = append(out, &Frame{ID: "TDRC", Content: Text{Text: tdrc}, Encoding: lib.EncodingUTF8})
			}
		}

		return out
	}

	for _, f := range frames {
		if f.ID != "TDRC" {
			out = append(out, f)
			continue
		}

		text, ok := f.Content.(Text)
		if !ok {
			out = append(out, f)
			continue
		}

		tyer, tdat, time := splitRecordingTime(text.Text)

		log.Debug("lowering recording time", zap.String("tdrc", text.Text))

		if tyer != "" {
			out = append(out, &Frame{ID: "TYER", Content: Text{Text: tyer}, Encoding: f.Encoding})
		}

		if tdat != "" {
			out = append(out, &Frame{ID: "TDAT", Content: Text{Text: tdat}, Encoding: f.Encoding})
		}

		if time != "" {
			out = append(out, &Frame{ID: "TIME", Content: Text{Text: time}, Encoding: f.Encoding})
		}
	}

	return out
}
