// Package aiff walks the IFF chunks of AIFF and AIFF-C files to
// locate, insert or replace the embedded ID3 chunk. All sizes are
// big-endian.
package aiff

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/xonyagar/id3/lib"
)

const formHeaderSize = 12

// TagChunkID names the chunk holding the ID3 tag.
const TagChunkID = "ID3 "

type chunk struct {
	id     string
	offset int64
	size   uint32
	end    int64
}

// total is the on-disk footprint: header, payload, odd-size pad.
func (c chunk) total() int64 {
	return 8 + int64(c.size) + int64(c.size&1)
}

func walk(rs io.ReadSeeker) ([]chunk, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seek to file start")
	}

	header := make([]byte, formHeaderSize)
	if _, err := io.ReadFull(rs, header); err != nil {
		return nil, errors.Wrapf(lib.ErrInvalidInput, "short FORM header: %v", err)
	}

	form := string(header[8:12])
	if string(header[:4]) != "FORM" || (form != "AIFF" && form != "AIFC") {
		return nil, errors.Wrap(lib.ErrInvalidInput, "not a FORM/AIFF file")
	}

	fileSize, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errors.Wrap(err, "measure file")
	}

	if _, err := rs.Seek(formHeaderSize, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seek to first chunk")
	}

	var chunks []chunk

	offset := int64(formHeaderSize)

	for offset < fileSize {
		hdr := make([]byte, 8)

		_, err := io.ReadFull(rs, hdr)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrapf(lib.ErrInvalidInput, "short chunk header: %v", err)
		}

		c := chunk{
			id:     string(hdr[:4]),
			offset: offset,
			size:   binary.BigEndian.Uint32(hdr[4:8]),
		}

		c.end = offset + c.total()
		if c.end > fileSize {
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
		if c.id != TagChunkID {
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

// WriteTag inserts or replaces the ID3 chunk, preserving every other
// chunk byte for byte and rewriting the outer FORM size.
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

	newChunk := chunk{id: TagChunkID, size: uint32(len(rendered))}

	var formSize int64 = 4
	for _, c := range chunks {
		if c.id != TagChunkID {
			formSize += c.end - c.offset
		}
	}
	formSize += newChunk.total()

	return lib.ReplaceFile(path, func(w io.Writer) error {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return errors.Wrap(err, "seek to file start")
		}

		header := make([]byte, formHeaderSize)
		if _, err := io.ReadFull(f, header); err != nil {
			return errors.Wrap(err, "reread FORM header")
		}

		binary.BigEndian.PutUint32(header[4:8], uint32(formSize))

		if _, err := w.Write(header); err != nil {
			return errors.Wrap(err, "write FORM header")
		}

		writeTagChunk := func() error {
			hdr := make([]byte, 8)
			copy(hdr, TagChunkID)
			binary.BigEndian.PutUint32(hdr[4:8], newChunk.size)

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

			return nil
		}

		written := false

		for _, c := range chunks {
			if c.id == TagChunkID {
				if err := writeTagChunk(); err != nil {
					return err
				}

				written = true

				continue
			}

			if _, err := f.Seek(c.offset, io.SeekStart); err != nil {
				return errors.Wrap(err, "seek to chunk")
			}

			if _, err := io.CopyN(w, f, c.end-c.offset); err != nil {
				return errors.Wrap(err, "copy chunk")
			}
		}

		if !written {
			return writeTagChunk()
		}

		return nil
	})
}
