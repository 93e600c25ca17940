package id3

// Tag is an in-memory ID3v2 tag: an ordered frame sequence plus the
// revision it was read with. The version is a hint; the write path is
// free to target another revision.
type Tag struct {
	frames  FrameList
	version Version

	// flags is the raw header flag byte from decode, surfacing the
	// extended-header-present bit on round trips.
	flags          byte
	extendedHeader []byte
}

// NewTag returns an empty tag targeting ID3v2.4.
func NewTag() *Tag {
	return &Tag{version: Version24}
}

// Version returns the revision the tag was read with or last set.
func (t *Tag) Version() Version {
	return t.version
}

// SetVersion changes the revision hint used when none is requested at
// write time.
func (t *Tag) SetVersion(v Version) {
	if v.Valid() {
		t.version = v
	}
}

// Flags returns the raw header flag byte the tag was decoded with.
func (t *Tag) Flags() byte {
	return t.flags
}

// ExtendedHeader returns the raw extended header bytes, if the tag was
// read with one. The contents are surfaced opaquely.
func (t *Tag) ExtendedHeader() []byte {
	return t.extendedHeader
}

// Frames returns the tag's frames in insertion order. The slice is
// shared with the tag; use AddFrame and Remove for mutation.
func (t *Tag) Frames() []*Frame {
	return t.frames
}

// AddFrame inserts f, displacing any frame with the same
// discriminator at its old position. The displaced frame is returned.
func (t *Tag) AddFrame(f *Frame) *Frame {
	return t.frames.Add(f)
}

// Remove deletes every frame whose ID matches exactly, returning them.
func (t *Tag) Remove(id string) []*Frame {
	return t.frames.Remove(id)
}

// RemoveWhere deletes every frame the predicate selects.
func (t *Tag) RemoveWhere(pred func(*Frame) bool) []*Frame {
	return t.frames.RemoveWhere(pred)
}

// First returns the first frame with the given ID, or nil.
func (t *Tag) First(id string) *Frame {
	return t.frames.First(id)
}

// Len returns the number of frames in the tag.
func (t *Tag) Len() int {
	return len(t.frames)
}
