// Package wav walks the RIFF chunks of WAVE files to locate, insert
// or replace the embedded ID3 chunk. All sizes are little-endian.
package wav

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/xonyagar/id3/lib"
)

const riffHeaderSize = 12

// chunk is one entry of the walked chunk table. offset points at the
// chunk ID; size is the payload size without the pad byte. end is the
// on-disk end offset, clamped for files whose final pad byte is
// missing.
type chunk struct {
	id     string
	offset int64
	size   uint32
	end    int64
}

func (c chunk) isTag() bool {
	return c.id == "id3 " || c.id == "ID3 "
}

// total is the on-disk footprint: header, payload, even-byte pad.
func (c chunk) total() int64 {
	return 8 + int64(c.size) + int64(c.size&1)
}

// walk validates the RIFF header and returns the chunk table.
func walk(rs io.ReadSeeker) ([]chunk, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seek to file start")
	}

	header := make([]byte, riffHeaderSize)
	if _, err := io.ReadFull(rs, header); err != nil {
		return nil, errors.Wrapf(lib.ErrInvalidInput, "short RIFF header: %v", err)
	}

	if string(header[:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, errors.Wrap(lib.ErrInvalidInput, "not a RIFF/WAVE file")
	}

	fileSize, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errors.Wrap(err, "measure file")
	}

	if _, err := rs.Seek(riffHeaderSize, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seek to first chunk")
	}

	var chunks []chunk

	offset := int64(riffHeaderSize)

	for offset < fileSize {
		hdr := make([]byte, 8)

		_, err := io.ReadFull(rs, hdr)
		if err == io.EOF {
			return chunks, nil
		} else if err != nil {
			return nil, errors.Wrapf(lib.ErrInvalidInput, "short chunk header: %v", err)
		}

		c := chunk{
			id:     string(hdr[:4]),
			offset: offset,
			size:   binary.LittleEndian.Uint32(hdr[4:8]),
		}

		c.end = offset + c.total()
		if c.end > fileSize {
			// Tolerate a missing final pad byte; anything shorter is
			// a mismatched chunk size.
			if c.end-fileSize > 1 {
				return nil, errors.Wrapf(lib.ErrInvalidInput, "chunk %q of %d bytes overruns file", c.id, c.size)
			}

			c.end = fileSize
		}

		chunks = append(chunks, c)

		offset = c.end
		if _, err := rs.Seek(offset, io.SeekStart); err != nil {
			return nil, errors.Wrap(err, "seek past chunk")
		}
	}

	return chunks, nil
}

// ReadTag returns the payload of the ID3 chunk.
func ReadTag(rs io.ReadSeeker) ([]byte, error) {
	chunks, err := walk(rs)
	if err != nil {
		return nil, err
	}

	for _, c := range chunks {
		if !c.isTag() {
			continue
		}

		if _, err := rs.Seek(c.offset+8, io.SeekStart); err != nil {
			return nil, errors.Wrap(err, "seek to tag chunk")
		}

		payload := make([]byte, c.size)
		if _, err := io.ReadFull(rs, payload); err != nil {
			return nil, errors.Wrapf(lib.ErrInvalidInput, "tag chunk truncated: %v", err)
		}

		return payload, nil
	}

	return nil, lib.ErrNoTag
}

// WriteTag inserts or replaces the ID3 chunk. A new chunk lands right
// after the fmt chunk; every other chunk is preserved byte for byte
// and the outer RIFF size is rewritten to match.
func WriteTag(path string, rendered []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open audio file")
	}
	defer f.Close()

	chunks, err := walk(f)
	if err != nil {
		return err
	}

	newChunk := chunk{id: "id3 ", size: uint32(len(rendered))}

	var riffSize int64 = 4
	for _, c := range chunks {
		if !c.isTag() {
			riffSize += c.end - c.offset
		}
	}
	riffSize += newChunk.total()

	return lib.ReplaceFile(path, func(w io.Writer) error {
		header := make([]byte, riffHeaderSize)
		copy(header, "RIFF")
		binary.LittleEndian.PutUint32(header[4:8], uint32(riffSize))
		copy(header[8:12], "WAVE")

		if _, err := w.Write(header); err != nil {
			return errors.Wrap(err, "write RIFF header")
		}

		written := false

		hasTag := false
		for _, c := range chunks {
			if c.isTag() {
				hasTag = true
			}
		}

		writeTagChunk := func() error {
			hdr := make([]byte, 8)
			copy(hdr, newChunk.id)
			binary.LittleEndian.PutUint32(hdr[4:8], newChunk.size)

			if _, err := w.Write(hdr); err != nil {
				return errors.Wrap(err, "write tag chunk header")
			}

			if _, err := w.Write(rendered); err != nil {
				return errors.Wrap(err, "write tag chunk")
			}

			if newChunk.size&1 != 0 {
				if _, err := w.Write([]byte{0}); err != nil {
					return errors.Wrap(err, "write tag chunk pad")
				}
			}

			written = true

			return nil
		}

		for _, c := range chunks {
			if c.isTag() {
				// Replace in place.
				if err := writeTagChunk(); err != nil {
					return err
				}

				continue
			}

			if _, err := f.Seek(c.offset, io.SeekStart); err != nil {
				return errors.Wrap(err, "seek to chunk")
			}

			if _, err := io.CopyN(w, f, c.end-c.offset); err != nil {
				return errors.Wrap(err, "copy chunk")
			}

			if c.id == "fmt " && !hasTag && !written {
				if err := writeTagChunk(); err != nil {
					return err
				}
			}
		}

		if !written {
			return writeTagChunk()
		}

		return nil
	})
}
