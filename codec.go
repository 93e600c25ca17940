package id3

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/xonyagar/id3/lib"
)

// contentCodec turns frame bodies into typed content and back. Bodies
// arrive with every byte-level transformation (unsynchronisation,
// compression) already undone.
type contentCodec struct {
	version Version
	strict  bool
	log     *zap.Logger
}

func (c contentCodec) decode(id string, data []byte) (Content, lib.Encoding, error) {
	switch {
	case id == "TXXX":
		return c.decodeExtendedText(data)
	case id[0] == 'T':
		return c.decodeText(id, data)
	case id == "WXXX":
		return c.decodeExtendedLink(data)
	case id[0] == 'W':
		return c.decodeLink(data)
	}

	switch id {
	case "COMM":
		return c.decodeComment(data)
	case "USLT":
		return c.decodeLyrics(data)
	case "SYLT":
		return c.decodeSynchronisedLyrics(data)
	case "APIC":
		return c.decodePicture(data)
	case "GEOB":
		return c.decodeEncapsulatedObject(data)
	case "POPM":
		return c.decodePopularimeter(data)
	case "PRIV":
		return c.decodePrivate(data)
	case "CHAP":
		return c.decodeChapter(data)
	case "CTOC":
		return c.decodeTableOfContents(data)
	case "MLLT":
		return c.decodeLocationLookupTable(data)
	default:
		return Unknown{Data: append([]byte(nil), data...), Version: c.version}, lib.EncodingLatin1, nil
	}
}

func (c contentCodec) readEncoding(data []byte) (lib.Encoding, []byte, error) {
	if len(data) < 1 {
		return 0, nil, errors.Wrap(lib.ErrInvalidInput, "frame body is empty")
	}

	enc := lib.Encoding(data[0])
	if !enc.Valid() {
		return 0, nil, errors.Wrapf(lib.ErrInvalidInput, "unknown encoding byte %#02x", data[0])
	}

	if enc == lib.EncodingUTF16 && len(data) > 1 && !lib.HasBOM(data[1:]) {
		c.log.Warn("UTF-16 payload without BOM, assuming little-endian")
	}

	return enc, data[1:], nil
}

// decodeTail decodes the last field of a frame, which may or may not
// carry a trailing terminator.
func decodeTail(b []byte, enc lib.Encoding) (string, error) {
	if n := enc.TerminatorSize(); len(b) >= n {
		term := true
		for _, v := range b[len(b)-n:] {
			if v != 0 {
				term = false
			}
		}

		if term {
			b = b[:len(b)-n]
		}
	}

	return lib.DecodeString(b, enc)
}

func (c contentCodec) decodeText(id string, data []byte) (Content, lib.Encoding, error) {
	enc, rest, err := c.readEncoding(data)
	if err != nil {
		return nil, 0, err
	}

	values, err := lib.SplitTerminated(rest, enc)
	if err != nil {
		return nil, 0, err
	}

	if c.version < Version24 && len(values) == 1 && slashJoinedIDs[id] {
		values = strings.Split(values[0], "/")
	}

	return Text{Text: joinNul(values)}, enc, nil
}

func (c contentCodec) decodeExtendedText(data []byte) (Content, lib.Encoding, error) {
	enc, rest, err := c.readEncoding(data)
	if err != nil {
		return nil, 0, err
	}

	desc, rest, err := lib.ReadTerminated(rest, enc)
	if err != nil {
		return nil, 0, err
	}

	value, err := decodeTail(rest, enc)
	if err != nil {
		return nil, 0, err
	}

	return ExtendedText{Description: desc, Value: value}, enc, nil
}

func (c contentCodec) decodeLink(data []byte) (Content, lib.Encoding, error) {
	raw, _ := lib.SplitTerminator(data, lib.EncodingLatin1)

	url, err := lib.DecodeString(raw, lib.EncodingLatin1)
	if err != nil {
		return nil, 0, err
	}

	return Link{URL: url}, lib.EncodingLatin1, nil
}

func (c contentCodec) decodeExtendedLink(data []byte) (Content, lib.Encoding, error) {
	enc, rest, err := c.readEncoding(data)
	if err != nil {
		return nil, 0, err
	}

	desc, rest, err := lib.ReadTerminated(rest, enc)
	if err != nil {
		return nil, 0, err
	}

	url, err := decodeTail(rest, lib.EncodingLatin1)
	if err != nil {
		return nil, 0, err
	}

	return ExtendedLink{Description: desc, URL: url}, enc, nil
}

func (c contentCodec) readLanguage(data []byte) (string, []byte, error) {
	if len(data) < 3 {
		return "", nil, errors.Wrap(lib.ErrInvalidInput, "frame truncated before language code")
	}

	return string(data[:3]), data[3:], nil
}

func (c contentCodec) decodeComment(data []byte) (Content, lib.Encoding, error) {
	enc, rest, err := c.readEncoding(data)
	if err != nil {
		return nil, 0, err
	}

	lang, rest, err := c.readLanguage(rest)
	if err != nil {
		return nil, 0, err
	}

	desc, rest, err := lib.ReadTerminated(rest, enc)
	if err != nil {
		return nil, 0, err
	}

	text, err := decodeTail(rest, enc)
	if err != nil {
		return nil, 0, err
	}

	return Comment{Language: lang, Description: desc, Text: text}, enc, nil
}

func (c contentCodec) decodeLyrics(data []byte) (Content, lib.Encoding, error) {
	content, enc, err := c.decodeComment(data)
	if err != nil {
		return nil, 0, err
	}

	comment := content.(Comment)

	return Lyrics{
		Language:    comment.Language,
		Description: comment.Description,
		Text:        comment.Text,
	}, enc, nil
}

func (c contentCodec) decodeSynchronisedLyrics(data []byte) (Content, lib.Encoding, error) {
	enc, rest, err := c.readEncoding(data)
	if err != nil {
		return nil, 0, err
	}

	lang, rest, err := c.readLanguage(rest)
	if err != nil {
		return nil, 0, err
	}

	if len(rest) < 2 {
		return nil, 0, errors.Wrap(lib.ErrInvalidInput, "SYLT truncated before content type")
	}

	format := TimestampFormat(rest[0])
	if format != TimestampMpegFrames && format != TimestampMilliseconds {
		return nil, 0, errors.Wrapf(lib.ErrInvalidInput, "bad SYLT timestamp format %d", rest[0])
	}

	contentType := LyricsContentType(rest[1])
	rest = rest[2:]

	desc, rest, err := lib.ReadTerminated(rest, enc)
	if err != nil {
		return nil, 0, err
	}

	var entries []SyncEntry

	for len(rest) > 0 {
		var text string

		text, rest, err = lib.ReadTerminated(rest, enc)
		if err != nil {
			return nil, 0, err
		}

		if len(rest) < 4 {
			return nil, 0, errors.Wrap(lib.ErrInvalidInput, "SYLT entry truncated before timestamp")
		}

		entries = append(entries, SyncEntry{
			Timestamp: uint32(lib.ByteToInt(rest[:4])),
			Text:      text,
		})
		rest = rest[4:]
	}

	return SynchronisedLyrics{
		Language:        lang,
		TimestampFormat: format,
		ContentType:     contentType,
		Description:     desc,
		Entries:         entries,
	}, enc, nil
}

// v2.2 attached pictures declare a three character image format
// instead of a MIME type.
var imageFormats = map[string]string{
	"PNG": "image/png",
	"JPG": "image/jpeg",
	"BMP": "image/bmp",
	"GIF": "image/gif",
}

func mimeToImageFormat(mime string) string {
	for format, m := range imageFormats {
		if m == mime {
			return format
		}
	}

	if len(mime) == 3 {
		return mime
	}

	return "   "
}

func (c contentCodec) decodePicture(data []byte) (Content, lib.Encoding, error) {
	enc, rest, err := c.readEncoding(data)
	if err != nil {
		return nil, 0, err
	}

	var mime string

	if c.version == Version22 {
		if len(rest) < 3 {
			return nil, 0, errors.Wrap(lib.ErrInvalidInput, "PIC truncated before image format")
		}

		format := string(rest[:3])
		rest = rest[3:]

		if m, ok := imageFormats[format]; ok {
			mime = m
		} else {
			mime = format
		}
	} else {
		mime, rest, err = lib.ReadTerminated(rest, lib.EncodingLatin1)
		if err != nil {
			return nil, 0, err
		}
	}

	if len(rest) < 1 {
		return nil, 0, errors.Wrap(lib.ErrInvalidInput, "picture truncated before picture type")
	}

	pictureType := PictureType(rest[0])
	rest = rest[1:]

	desc, rest, err := lib.ReadTerminated(rest, enc)
	if err != nil {
		return nil, 0, err
	}

	return Picture{
		MimeType:    mime,
		PictureType: pictureType,
		Description: desc,
		Data:        append([]byte(nil), rest...),
	}, enc, nil
}

func (c contentCodec) decodeEncapsulatedObject(data []byte) (Content, lib.Encoding, error) {
	enc, rest, err := c.readEncoding(data)
	if err != nil {
		return nil, 0, err
	}

	mime, rest, err := lib.ReadTerminated(rest, lib.EncodingLatin1)
	if err != nil {
		return nil, 0, err
	}

	filename, rest, err := lib.ReadTerminated(rest, enc)
	if err != nil {
		return nil, 0, err
	}

	desc, rest, err := lib.ReadTerminated(rest, enc)
	if err != nil {
		return nil, 0, err
	}

	return EncapsulatedObject{
		MimeType:    mime,
		Filename:    filename,
		Description: desc,
		Data:        append([]byte(nil), rest...),
	}, enc, nil
}

func (c contentCodec) decodePopularimeter(data []byte) (Content, lib.Encoding, error) {
	user, rest, err := lib.ReadTerminated(data, lib.EncodingLatin1)
	if err != nil {
		return nil, 0, err
	}

	if len(rest) < 1 {
		return nil, 0, errors.Wrap(lib.ErrInvalidInput, "POPM truncated before rating")
	}

	rating := rest[0]
	rest = rest[1:]

	if len(rest) > 8 {
		return nil, 0, errors.Wrapf(lib.ErrInvalidInput, "POPM counter is %d bytes", len(rest))
	}

	var counter uint64
	for _, b := range rest {
		counter = counter<<8 | uint64(b)
	}

	return Popularimeter{User: user, Rating: rating, Counter: counter}, lib.EncodingLatin1, nil
}

func (c contentCodec) decodePrivate(data []byte) (Content, lib.Encoding, error) {
	owner, rest, err := lib.ReadTerminated(data, lib.EncodingLatin1)
	if err != nil {
		return nil, 0, err
	}

	return Private{
		OwnerIdentifier: owner,
		Data:            append([]byte(nil), rest...),
	}, lib.EncodingLatin1, nil
}

func (c contentCodec) decodeChapter(data []byte) (Content, lib.Encoding, error) {
	elementID, rest, err := lib.ReadTerminated(data, lib.EncodingLatin1)
	if err != nil {
		return nil, 0, err
	}

	if len(rest) < 16 {
		return nil, 0, errors.Wrap(lib.ErrInvalidInput, "CHAP truncated before time fields")
	}

	chapter := Chapter{
		ElementID:   elementID,
		StartTime:   uint32(lib.ByteToInt(rest[0:4])),
		EndTime:     uint32(lib.ByteToInt(rest[4:8])),
		StartOffset: uint32(lib.ByteToInt(rest[8:12])),
		EndOffset:   uint32(lib.ByteToInt(rest[12:16])),
	}

	chapter.Frames, err = c.decodeNestedFrames(rest[16:])
	if err != nil {
		return nil, 0, err
	}

	return chapter, lib.EncodingLatin1, nil
}

func (c contentCodec) decodeTableOfContents(data []byte) (Content, lib.Encoding, error) {
	elementID, rest, err := lib.ReadTerminated(data, lib.EncodingLatin1)
	if err != nil {
		return nil, 0, err
	}

	if len(rest) < 2 {
		return nil, 0, errors.Wrap(lib.ErrInvalidInput, "CTOC truncated before entry count")
	}

	toc := TableOfContents{
		ElementID: elementID,
		TopLevel:  rest[0]&0x02 != 0,
		Ordered:   rest[0]&0x01 != 0,
	}
	count := int(rest[1])
	rest = rest[2:]

	for i := 0; i < count; i++ {
		var element string

		element, rest, err = lib.ReadTerminated(rest, lib.EncodingLatin1)
		if err != nil {
			return nil, 0, err
		}

		toc.Elements = append(toc.Elements, element)
	}

	toc.Frames, err = c.decodeNestedFrames(rest)
	if err != nil {
		return nil, 0, err
	}

	return toc, lib.EncodingLatin1, nil
}

// decodeNestedFrames walks an embedded frame stream with the same
// codec the tag body uses, so the two paths cannot drift.
func (c contentCodec) decodeNestedFrames(data []byte) (FrameList, error) {
	var frames FrameList

	for len(data) >= c.version.frameHeaderLen() {
		frame, advance, err := decodeFrame(data, c.version, c.strict, c.log)
		if err != nil {
			if errors.Is(err, errPadding) {
				break
			}

			return nil, err
		}

		frames.Add(frame)
		data = data[advance:]
	}

	return frames, nil
}

func (c contentCodec) decodeLocationLookupTable(data []byte) (Content, lib.Encoding, error) {
	if len(data) < 10 {
		return nil, 0, errors.Wrap(lib.ErrInvalidInput, "MLLT truncated before reference data")
	}

	table := MpegLocationLookupTable{
		FramesBetweenRefs:      uint16(lib.ByteToInt(data[0:2])),
		BytesBetweenRefs:       uint32(lib.ByteToInt(data[2:5])),
		MillisBetweenRefs:      uint32(lib.ByteToInt(data[5:8])),
		BitsForBytesDeviation:  data[8],
		BitsForMillisDeviation: data[9],
	}

	refBits := uint(table.BitsForBytesDeviation) + uint(table.BitsForMillisDeviation)
	if refBits == 0 || refBits > 64 {
		return nil, 0, errors.Wrapf(lib.ErrInvalidInput, "MLLT reference width %d bits", refBits)
	}

	r := bitReader{buf: data[10:]}

	for r.remaining() >= refBits {
		table.References = append(table.References, MpegLocationRef{
			BytesDeviation:  r.readBits(uint(table.BitsForBytesDeviation)),
			MillisDeviation: r.readBits(uint(table.BitsForMillisDeviation)),
		})
	}

	return table, lib.EncodingLatin1, nil
}

//
// Encoding
//

// chooseEncoding upgrades the declared encoding to the narrowest one
// that is legal for the target version and fits every string. Nothing
// is ever lossy-downcoded.
func chooseEncoding(enc lib.Encoding, version Version, texts ...string) lib.Encoding {
	if version < Version24 && (enc == lib.EncodingUTF8 || enc == lib.EncodingUTF16BE) {
		enc = lib.EncodingUTF16
	}

	if enc == lib.EncodingLatin1 {
		for _, s := range texts {
			if !lib.CanEncode(s, lib.EncodingLatin1) {
				if version == Version24 {
					return lib.EncodingUTF8
				}

				return lib.EncodingUTF16
			}
		}
	}

	return enc
}

func (c contentCodec) encode(f *Frame) ([]byte, error) {
	switch content := f.Content.(type) {
	case Text:
		return c.encodeText(f.ID, content, f.Encoding)
	case ExtendedText:
		return c.encodeExtendedText(content, f.Encoding)
	case Link:
		return lib.EncodeString(content.URL, lib.EncodingLatin1)
	case ExtendedLink:
		return c.encodeExtendedLink(content, f.Encoding)
	case Comment:
		return c.encodeComment(content, f.Encoding)
	case Lyrics:
		return c.encodeComment(Comment(content), f.Encoding)
	case SynchronisedLyrics:
		return c.encodeSynchronisedLyrics(content, f.Encoding)
	case Picture:
		return c.encodePicture(content, f.Encoding)
	case EncapsulatedObject:
		return c.encodeEncapsulatedObject(content, f.Encoding)
	case Popularimeter:
		return c.encodePopularimeter(content)
	case Private:
		return c.encodePrivate(content)
	case Chapter:
		return c.encodeChapter(content)
	case TableOfContents:
		return c.encodeTableOfContents(content)
	case MpegLocationLookupTable:
		return c.encodeLocationLookupTable(content)
	case Unknown:
		return append([]byte(nil), content.Data...), nil
	default:
		return nil, errors.Wrapf(lib.ErrUnsupportedFeature, "cannot encode content %T", f.Content)
	}
}

func (c contentCodec) encodeText(id string, content Text, enc lib.Encoding) ([]byte, error) {
	values := content.Values()
	enc = chooseEncoding(enc, c.version, values...)

	if c.version < Version24 && len(values) > 1 && slashJoinedIDs[id] {
		values = []string{strings.Join(values, "/")}
	}

	body := []byte{byte(enc)}

	for i, value := range values {
		if i > 0 {
			body = append(body, enc.Terminator()...)
		}

		raw, err := lib.EncodeString(value, enc)
		if err != nil {
			return nil, err
		}

		body = append(body, raw...)
	}

	return body, nil
}

func (c contentCodec) encodeExtendedText(content ExtendedText, enc lib.Encoding) ([]byte, error) {
	enc = chooseEncoding(enc, c.version, content.Description, content.Value)

	body, err := lib.AppendTerminated([]byte{byte(enc)}, content.Description, enc)
	if err != nil {
		return nil, err
	}

	raw, err := lib.EncodeString(content.Value, enc)
	if err != nil {
		return nil, err
	}

	return append(body, raw...), nil
}

func (c contentCodec) encodeExtendedLink(content ExtendedLink, enc lib.Encoding) ([]byte, error) {
	enc = chooseEncoding(enc, c.version, content.Description)

	body, err := lib.AppendTerminated([]byte{byte(enc)}, content.Description, enc)
	if err != nil {
		return nil, err
	}

	raw, err := lib.EncodeString(content.URL, lib.EncodingLatin1)
	if err != nil {
		return nil, err
	}

	return append(body, raw...), nil
}

func (c contentCodec) encodeComment(content Comment, enc lib.Encoding) ([]byte, error) {
	enc = chooseEncoding(enc, c.version, content.Description, content.Text)

	if len(content.Language) != 3 {
		return nil, errors.Wrapf(lib.ErrInvalidInput, "language code %q is not 3 bytes", content.Language)
	}

	body := append([]byte{byte(enc)}, content.Language...)

	body, err := lib.AppendTerminated(body, content.Description, enc)
	if err != nil {
		return nil, err
	}

	raw, err := lib.EncodeString(content.Text, enc)
	if err != nil {
		return nil, err
	}

	return append(body, raw...), nil
}

func (c contentCodec) encodeSynchronisedLyrics(content SynchronisedLyrics, enc lib.Encoding) ([]byte, error) {
	texts := []string{content.Description}
	for _, e := range content.Entries {
		texts = append(texts, e.Text)
	}

	enc = chooseEncoding(enc, c.version, texts...)

	if len(content.Language) != 3 {
		return nil, errors.Wrapf(lib.ErrInvalidInput, "language code %q is not 3 bytes", content.Language)
	}

	body := append([]byte{byte(enc)}, content.Language...)
	body = append(body, byte(content.TimestampFormat), byte(content.ContentType))

	body, err := lib.AppendTerminated(body, content.Description, enc)
	if err != nil {
		return nil, err
	}

	for _, entry := range content.Entries {
		body, err = lib.AppendTerminated(body, entry.Text, enc)
		if err != nil {
			return nil, err
		}

		body = append(body, lib.IntToBytes(int(entry.Timestamp), 4)...)
	}

	return body, nil
}

func (c contentCodec) encodePicture(content Picture, enc lib.Encoding) ([]byte, error) {
	enc = chooseEncoding(enc, c.version, content.Description)

	body := []byte{byte(enc)}

	if c.version == Version22 {
		body = append(body, mimeToImageFormat(content.MimeType)...)
	} else {
		var err error

		body, err = lib.AppendTerminated(body, content.MimeType, lib.EncodingLatin1)
		if err != nil {
			return nil, err
		}
	}

	body = append(body, byte(content.PictureType))

	body, err := lib.AppendTerminated(body, content.Description, enc)
	if err != nil {
		return nil, err
	}

	return append(body, content.Data...), nil
}

func (c contentCodec) encodeEncapsulatedObject(content EncapsulatedObject, enc lib.Encoding) ([]byte, error) {
	enc = chooseEncoding(enc, c.version, content.Filename, content.Description)

	body, err := lib.AppendTerminated([]byte{byte(enc)}, content.MimeType, lib.EncodingLatin1)
	if err != nil {
		return nil, err
	}

	body, err = lib.AppendTerminated(body, content.Filename, enc)
	if err != nil {
		return nil, err
	}

	body, err = lib.AppendTerminated(body, content.Description, enc)
	if err != nil {
		return nil, err
	}

	return append(body, content.Data...), nil
}

func (c contentCodec) encodePopularimeter(content Popularimeter) ([]byte, error) {
	body, err := lib.AppendTerminated(nil, content.User, lib.EncodingLatin1)
	if err != nil {
		return nil, err
	}

	body = append(body, content.Rating)

	width := 4
	for width < 8 && content.Counter>>(8*uint(width)) != 0 {
		width++
	}

	counter := make([]byte, width)
	v := content.Counter

	for i := width - 1; i >= 0; i-- {
		counter[i] = byte(v)
		v >>= 8
	}

	return append(body, counter...), nil
}

func (c contentCodec) encodePrivate(content Private) ([]byte, error) {
	body, err := lib.AppendTerminated(nil, content.OwnerIdentifier, lib.EncodingLatin1)
	if err != nil {
		return nil, err
	}

	return append(body, content.Data...), nil
}

func (c contentCodec) encodeChapter(content Chapter) ([]byte, error) {
	body, err := lib.AppendTerminated(nil, content.ElementID, lib.EncodingLatin1)
	if err != nil {
		return nil, err
	}

	body = append(body, lib.IntToBytes(int(content.StartTime), 4)...)
	body = append(body, lib.IntToBytes(int(content.EndTime), 4)...)
	body = append(body, lib.IntToBytes(int(content.StartOffset), 4)...)
	body = append(body, lib.IntToBytes(int(content.EndOffset), 4)...)

	return c.appendNestedFrames(body, content.Frames)
}

func (c contentCodec) encodeTableOfContents(content TableOfContents) ([]byte, error) {
	body, err := lib.AppendTerminated(nil, content.ElementID, lib.EncodingLatin1)
	if err != nil {
		return nil, err
	}

	var flags byte
	if content.Ordered {
		flags |= 0x01
	}

	if content.TopLevel {
		flags |= 0x02
	}

	if len(content.Elements) > 0xff {
		return nil, errors.Wrapf(lib.ErrInvalidInput, "CTOC carries %d entries", len(content.Elements))
	}

	body = append(body, flags, byte(len(content.Elements)))

	for _, element := range content.Elements {
		body, err = lib.AppendTerminated(body, element, lib.EncodingLatin1)
		if err != nil {
			return nil, err
		}
	}

	return c.appendNestedFrames(body, content.Frames)
}

func (c contentCodec) appendNestedFrames(body []byte, frames FrameList) ([]byte, error) {
	for _, frame := range frames {
		raw, err := encodeFrame(frame, c.version, false, c.log)
		if err != nil {
			return nil, err
		}

		body = append(body, raw...)
	}

	return body, nil
}

func (c contentCodec) encodeLocationLookupTable(content MpegLocationLookupTable) ([]byte, error) {
	refBits := uint(content.BitsForBytesDeviation) + uint(content.BitsForMillisDeviation)
	if refBits == 0 || refBits > 64 {
		return nil, errors.Wrapf(lib.ErrInvalidInput, "MLLT reference width %d bits", refBits)
	}

	body := lib.IntToBytes(int(content.FramesBetweenRefs), 2)
	body = append(body, lib.IntToBytes(int(content.BytesBetweenRefs), 3)...)
	body = append(body, lib.IntToBytes(int(content.MillisBetweenRefs), 3)...)
	body = append(body, content.BitsForBytesDeviation, content.BitsForMillisDeviation)

	var w bitWriter
	for _, ref := range content.References {
		w.writeBits(ref.BytesDeviation, uint(content.BitsForBytesDeviation))
		w.writeBits(ref.MillisDeviation, uint(content.BitsForMillisDeviation))
	}

	return append(body, w.bytes()...), nil
}

// RawContent lowers any content variant to its wire form for the given
// version, so callers written against an earlier revision of the
// variant set can handle it as an opaque frame.
func RawContent(id string, content Content, version Version) (Unknown, error) {
	if u, ok := content.(Unknown); ok {
		return u, nil
	}

	codec := contentCodec{version: version, log: zap.NewNop()}

	data, err := codec.encode(&Frame{ID: id, Content: content, Encoding: lib.EncodingUTF8})
	if err != nil {
		return Unknown{}, err
	}

	return Unknown{Data: data, Version: version}, nil
}

//
// MLLT bitstream helpers
//

type bitReader struct {
	buf []byte
	pos uint
}

func (r *bitReader) remaining() uint {
	return uint(len(r.buf))*8 - r.pos
}

func (r *bitReader) readBits(n uint) uint32 {
	var v uint32

	for i := uint(0); i < n; i++ {
		byteIdx := r.pos / 8
		bit := r.buf[byteIdx] >> (7 - r.pos%8) & 1
		v = v<<1 | uint32(bit)
		r.pos++
	}

	return v
}

type bitWriter struct {
	buf []byte
	pos uint
}

func (w *bitWriter) writeBits(v uint32, n uint) {
	for i := n; i > 0; i-- {
		if w.pos%8 == 0 {
			w.buf = append(w.buf, 0)
		}

		bit := byte(v >> (i - 1) & 1)
		w.buf[len(w.buf)-1] |= bit << (7 - w.pos%8)
		w.pos++
	}
}

func (w *bitWriter) bytes() []byte {
	return w.buf
}
