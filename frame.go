package id3

import (
	"fmt"
	"strings"

	"github.com/xonyagar/id3/lib"
)

// Frame is a single ID3v2 frame: a canonical identifier plus typed
// content. Identifiers are stored in their four character v2.3/v2.4
// form; three character v2.2 identifiers are converted on read, except
// for unmapped ones, which keep their original three characters and
// only ever travel back to a v2.2 tag.
type Frame struct {
	ID      string
	Content Content

	// Encoding is the text encoding the frame was read with, reused on
	// write while it stays legal for the target version.
	Encoding lib.Encoding

	// Preservation hints for tag editors.
	TagAlterPreservation  bool
	FileAlterPreservation bool

	// compressed marks frames that arrived DEFLATE compressed; they
	// are compressed again on write. Frames are never compressed de
	// novo.
	compressed bool
	// encrypted frames keep their payload opaque in Content and the
	// method byte here.
	encrypted     bool
	encryptMethod byte
	// group is the grouping identity byte; meaningful when hasGroup.
	hasGroup bool
	group    byte
}

// NewFrame returns a frame carrying the given content.
func NewFrame(id string, content Content) *Frame {
	return &Frame{ID: id, Content: content, Encoding: lib.EncodingUTF8}
}

// Compressed reports whether the frame was read DEFLATE compressed.
func (f *Frame) Compressed() bool {
	return f.compressed
}

// Encrypted reports whether the frame carries an encrypted payload.
// Encrypted payloads are surfaced opaquely as Unknown content.
func (f *Frame) Encrypted() bool {
	return f.encrypted
}

// GroupID returns the grouping identity byte, if the frame has one.
func (f *Frame) GroupID() (byte, bool) {
	return f.group, f.hasGroup
}

func (f *Frame) String() string {
	return fmt.Sprintf("%s: %T", f.ID, f.Content)
}

// key is the uniqueness discriminator: at most one frame per key may
// live in a list. The second return is false for frames that never
// displace each other.
func (f *Frame) key() (string, bool) {
	switch c := f.Content.(type) {
	case Unknown:
		return "", false
	case ExtendedText:
		return f.ID + "\x00" + c.Description, true
	case ExtendedLink:
		return f.ID + "\x00" + c.Description, true
	case Comment:
		return f.ID + "\x00" + c.Language + "\x00" + c.Description, true
	case Lyrics:
		return f.ID + "\x00" + c.Language + "\x00" + c.Description, true
	case SynchronisedLyrics:
		return f.ID + "\x00" + c.Language + "\x00" + c.Description, true
	case Picture:
		return fmt.Sprintf("%s\x00%d", f.ID, c.PictureType), true
	case EncapsulatedObject:
		return f.ID + "\x00" + c.Description, true
	case Chapter:
		return f.ID + "\x00" + c.ElementID, true
	case TableOfContents:
		return f.ID + "\x00" + c.ElementID, true
	case Popularimeter:
		return f.ID + "\x00" + c.User, true
	case Private:
		return f.ID + "\x00" + c.OwnerIdentifier, true
	default:
		return f.ID, true
	}
}

// FrameList is an ordered frame sequence with the uniqueness rules
// shared by the tag and by chapter and table of contents frames.
type FrameList []*Frame

// Add inserts f, displacing any frame with the same discriminator at
// its old position. The displaced frame is returned.
func (l *FrameList) Add(f *Frame) *Frame {
	key, unique := f.key()
	if unique {
		for i, old := range *l {
			if k, ok := old.key(); ok && k == key {
				(*l)[i] = f
				return old
			}
		}
	}

	*l = append(*l, f)

	return nil
}

// Remove deletes every frame whose ID matches exactly, returning them.
func (l *FrameList) Remove(id string) []*Frame {
	return l.RemoveWhere(func(f *Frame) bool {
		return f.ID == id
	})
}

// RemoveWhere deletes every frame the predicate selects.
func (l *FrameList) RemoveWhere(pred func(*Frame) bool) []*Frame {
	var removed []*Frame

	kept := (*l)[:0]

	for _, f := range *l {
		if pred(f) {
			removed = append(removed, f)
		} else {
			kept = append(kept, f)
		}
	}

	*l = kept

	return removed
}

// First returns the first frame with the given ID, or nil.
func (l FrameList) First(id string) *Frame {
	for _, f := range l {
		if f.ID == id {
			return f
		}
	}

	return nil
}

func splitNul(s string) []string {
	if s == "" {
		return []string{""}
	}

	return strings.Split(s, "\x00")
}

func joinNul(values []string) string {
	return strings.Join(values, "\x00")
}
