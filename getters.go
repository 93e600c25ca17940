package id3

import (
	"strconv"
	"strings"

	"github.com/xonyagar/id3/lib"
	v1 "github.com/xonyagar/id3/v1"
)

// The well-known field accessors are sugar over AddFrame and Frames;
// they add no semantics of their own.

// TextFrame returns the joined value of the first text frame with the
// given ID, or "".
func (t *Tag) TextFrame(id string) string {
	if f := t.First(id); f != nil {
		if text, ok := f.Content.(Text); ok {
			return text.Text
		}
	}

	return ""
}

// SetTextFrame replaces the text frame with the given ID.
func (t *Tag) SetTextFrame(id, value string) {
	t.AddFrame(&Frame{ID: id, Content: Text{Text: value}, Encoding: lib.EncodingUTF8})
}

func (t *Tag) textValues(id string) []string {
	value := t.TextFrame(id)
	if value == "" {
		return nil
	}

	return splitNul(value)
}

// Title will return the song title.
func (t *Tag) Title() string {
	return t.TextFrame("TIT2")
}

// SetTitle sets the song title.
func (t *Tag) SetTitle(title string) {
	t.SetTextFrame("TIT2", title)
}

// Album will return the album title.
func (t *Tag) Album() string {
	return t.TextFrame("TALB")
}

// SetAlbum sets the album title.
func (t *Tag) SetAlbum(album string) {
	t.SetTextFrame("TALB", album)
}

// Artists will return the lead performers.
func (t *Tag) Artists() []string {
	return t.textValues("TPE1")
}

// SetArtists sets the lead performers.
func (t *Tag) SetArtists(artists []string) {
	t.SetTextFrame("TPE1", joinNul(artists))
}

// AlbumArtists will return the band or accompaniment.
func (t *Tag) AlbumArtists() []string {
	return t.textValues("TPE2")
}

// SetAlbumArtists sets the band or accompaniment.
func (t *Tag) SetAlbumArtists(artists []string) {
	t.SetTextFrame("TPE2", joinNul(artists))
}

// Composers will return the composers.
func (t *Tag) Composers() []string {
	return t.textValues("TCOM")
}

// Year will return the recording year, from the v2.4 recording time
// when present and the v2.3 year frame otherwise.
func (t *Tag) Year() string {
	if tdrc := t.TextFrame("TDRC"); len(tdrc) >= 4 {
		return tdrc[:4]
	}

	return t.TextFrame("TYER")
}

// SetYear sets the recording year.
func (t *Tag) SetYear(year string) {
	t.SetTextFrame("TDRC", year)
	t.Remove("TYER")
}

// Track will return the track number and the number of tracks in the
// set, when known.
func (t *Tag) Track() (int, int) {
	value := t.TextFrame("TRCK")
	if value == "" {
		return 0, 0
	}

	number, total, _ := strings.Cut(value, "/")

	n, err := strconv.Atoi(number)
	if err != nil {
		return 0, 0
	}

	m, err := strconv.Atoi(total)
	if err != nil {
		return n, 0
	}

	return n, m
}

// SetTrack sets the track number; total 0 omits the set size.
func (t *Tag) SetTrack(number, total int) {
	value := strconv.Itoa(number)
	if total > 0 {
		value += "/" + strconv.Itoa(total)
	}

	t.SetTextFrame("TRCK", value)
}

// Genres will return the content types, with numeric references
// resolved against the ID3v1 genre table.
func (t *Tag) Genres() []string {
	values := t.textValues("TCON")

	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, resolveGenre(value))
	}

	return out
}

// SetGenre sets a single content type.
func (t *Tag) SetGenre(genre string) {
	t.SetTextFrame("TCON", genre)
}

// resolveGenre maps "(17)" and bare "17" to the genre table entry.
func resolveGenre(value string) string {
	ref := value
	if strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")") {
		ref = value[1 : len(value)-1]
	}

	if n, err := strconv.Atoi(ref); err == nil && n >= 0 && n < len(v1.Genres) {
		return v1.Genres[n]
	}

	return value
}

// Comments will return every comment.
func (t *Tag) Comments() []Comment {
	var out []Comment

	for _, f := range t.frames {
		if comment, ok := f.Content.(Comment); ok {
			out = append(out, comment)
		}
	}

	return out
}

// AddComment adds a comment, replacing any with the same language and
// description.
func (t *Tag) AddComment(comment Comment) {
	t.AddFrame(&Frame{ID: "COMM", Content: comment, Encoding: lib.EncodingUTF8})
}

// Lyrics will return every unsynchronised lyrics frame.
func (t *Tag) Lyrics() []Lyrics {
	var out []Lyrics

	for _, f := range t.frames {
		if lyrics, ok := f.Content.(Lyrics); ok {
			out = append(out, lyrics)
		}
	}

	return out
}

// AddLyrics adds a lyrics frame, replacing any with the same language
// and description.
func (t *Tag) AddLyrics(lyrics Lyrics) {
	t.AddFrame(&Frame{ID: "USLT", Content: lyrics, Encoding: lib.EncodingUTF8})
}

// Pictures will return every attached picture.
func (t *Tag) Pictures() []Picture {
	var out []Picture

	for _, f := range t.frames {
		if picture, ok := f.Content.(Picture); ok {
			out = append(out, picture)
		}
	}

	return out
}

// AddPicture adds a picture, replacing any with the same picture type.
func (t *Tag) AddPicture(picture Picture) {
	t.AddFrame(&Frame{ID: "APIC", Content: picture, Encoding: lib.EncodingUTF8})
}

// Chapters will return every chapter in tag order.
func (t *Tag) Chapters() []Chapter {
	var out []Chapter

	for _, f := range t.frames {
		if chapter, ok := f.Content.(Chapter); ok {
			out = append(out, chapter)
		}
	}

	return out
}

// AddChapter adds a chapter, replacing any with the same element ID.
func (t *Tag) AddChapter(chapter Chapter) {
	t.AddFrame(&Frame{ID: "CHAP", Content: chapter, Encoding: lib.EncodingUTF8})
}
