// Package mp3 locates and rewrites the ID3 byte ranges of MPEG audio
// files: a leading ID3v2 block and a trailing 128-byte ID3v1 record.
package mp3

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/xonyagar/id3/lib"
	v1 "github.com/xonyagar/id3/v1"
)

const headerSize = 10

// tagSpan returns the number of bytes the leading ID3v2 block
// occupies, header through footer, or 0 when the file carries none.
func tagSpan(rs io.ReadSeeker) (int64, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, errors.Wrap(err, "seek to file start")
	}

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(rs, header); err != nil {
		return 0, nil
	}

	if string(header[:3]) != "ID3" {
		return 0, nil
	}

	size, err := lib.DecodeSynchsafe(header[6:10])
	if err != nil {
		// "ID3" occurring in audio data, not a tag header.
		return 0, nil
	}

	span := int64(headerSize) + int64(size)
	if header[5]&0x10 != 0 {
		span += headerSize
	}

	return span, nil
}

// ReadTag returns the leading ID3v2 block, header through footer.
func ReadTag(rs io.ReadSeeker) ([]byte, error) {
	span, err := tagSpan(rs)
	if err != nil {
		return nil, err
	}

	if span == 0 {
		return nil, lib.ErrNoTag
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seek to file start")
	}

	block := make([]byte, span)
	if _, err := io.ReadFull(rs, block); err != nil {
		return nil, errors.Wrapf(lib.ErrInvalidInput, "leading tag truncated: %v", err)
	}

	return block, nil
}

// ReadV1 decodes the trailing ID3v1 record, if present.
func ReadV1(rs io.ReadSeeker) (*v1.Tag, error) {
	return v1.New(rs)
}

// WriteTag replaces the leading ID3v2 block with rendered, shifting
// the audio payload when the sizes differ. The rewrite goes through a
// sibling temporary file and an atomic rename.
func WriteTag(path string, rendered []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open audio file")
	}
	defer f.Close()

	span, err := tagSpan(f)
	if err != nil {
		return err
	}

	return lib.ReplaceFile(path, func(w io.Writer) error {
		if _, err := w.Write(rendered); err != nil {
			return errors.Wrap(err, "write tag")
		}

		if _, err := f.Seek(span, io.SeekStart); err != nil {
			return errors.Wrap(err, "seek past old tag")
		}

		if _, err := io.Copy(w, f); err != nil {
			return errors.Wrap(err, "copy audio payload")
		}

		return nil
	})
}

// WriteV1 replaces or appends the trailing ID3v1 record.
func WriteV1(path string, tag *v1.Tag) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open audio file")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrap(err, "stat audio file")
	}

	audioEnd := info.Size()
	if _, err := v1.New(f); err == nil {
		audioEnd -= v1.TagSize
	}

	return lib.ReplaceFile(path, func(w io.Writer) error {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return errors.Wrap(err, "seek to file start")
		}

		if _, err := io.CopyN(w, f, audioEnd); err != nil {
			return errors.Wrap(err, "copy audio payload")
		}

		_, err := w.Write(tag.Render())

		return errors.Wrap(err, "write trailing tag")
	})
}
