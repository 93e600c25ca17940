package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/xonyagar/id3"
	"github.com/xonyagar/id3/lib"
)

func main() {
	app := cli.NewApp()
	app.Name = "ID3"
	app.Usage = "reads and writes id3 tags"
	app.Description = "an id3 tag reader and writer"
	app.Version = "0.2.0"
	app.Commands = commands()

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func kindFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "kind",
			Usage: "Container kind: mp3, wav or aiff",
			Value: "mp3",
		},
	}
}

func parseKind(c *cli.Context) (id3.Kind, error) {
	switch c.String("kind") {
	case "mp3", "":
		return id3.Mp3, nil
	case "wav":
		return id3.Wav, nil
	case "aiff":
		return id3.Aiff, nil
	default:
		return 0, fmt.Errorf("unknown container kind %q", c.String("kind"))
	}
}

func commands() []cli.Command {
	return []cli.Command{
		{
			Name:   "title",
			Usage:  "Return title",
			Action: commandTitle,
		},
		{
			Name:   "artists",
			Usage:  "Return artist(s)",
			Action: commandArtists,
		},
		{
			Name:   "album",
			Usage:  "Return album",
			Action: commandAlbum,
		},
		{
			Name:   "year",
			Usage:  "Return year",
			Action: commandYear,
		},
		{
			Name:   "genres",
			Usage:  "Return genre(s)",
			Action: commandGenres,
		},
		{
			Name:   "frames",
			Usage:  "List every frame in the tag",
			Action: commandFrames,
			Flags:  kindFlags(),
		},
		{
			Name:   "set",
			Usage:  "Set well-known fields and rewrite the file",
			Action: commandSet,
			Flags: append(kindFlags(),
				cli.StringFlag{Name: "title"},
				cli.StringFlag{Name: "artist"},
				cli.StringFlag{Name: "album"},
				cli.StringFlag{Name: "year"},
				cli.StringFlag{Name: "genre"},
				cli.IntFlag{Name: "to-version", Usage: "Target revision: 2, 3 or 4"},
			),
		},
	}
}

func openUnified(c *cli.Context) (*id3.ID3, func(), error) {
	f, err := os.Open(c.Args().First())
	if err != nil {
		return nil, nil, err
	}

	tag, err := id3.New(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	return tag, func() { f.Close() }, nil
}

func commandTitle(c *cli.Context) error {
	tag, done, err := openUnified(c)
	if err != nil {
		return err
	}
	defer done()

	fmt.Println(tag.Title())

	return nil
}

func commandArtists(c *cli.Context) error {
	tag, done, err := openUnified(c)
	if err != nil {
		return err
	}
	defer done()

	fmt.Println(strings.Join(tag.Artists(), ", "))

	return nil
}

func commandAlbum(c *cli.Context) error {
	tag, done, err := openUnified(c)
	if err != nil {
		return err
	}
	defer done()

	fmt.Println(tag.Album())

	return nil
}

func commandYear(c *cli.Context) error {
	tag, done, err := openUnified(c)
	if err != nil {
		return err
	}
	defer done()

	fmt.Println(tag.Year())

	return nil
}

func commandGenres(c *cli.Context) error {
	tag, done, err := openUnified(c)
	if err != nil {
		return err
	}
	defer done()

	fmt.Println(strings.Join(tag.Genres(), ", "))

	return nil
}

func commandFrames(c *cli.Context) error {
	kind, err := parseKind(c)
	if err != nil {
		return err
	}

	tag, err := id3.ReadFile(c.Args().First(), id3.Options{Kind: kind, PartialTagOK: true})
	if err != nil {
		return err
	}

	for _, f := range tag.Frames() {
		switch content := f.Content.(type) {
		case id3.Text:
			fmt.Printf("%s\t%s\n", f.ID, strings.Join(content.Values(), " / "))
		case id3.ExtendedText:
			fmt.Printf("%s\t%s: %s\n", f.ID, content.Description, content.Value)
		case id3.Link:
			fmt.Printf("%s\t%s\n", f.ID, content.URL)
		case id3.Comment:
			fmt.Printf("%s\t[%s] %s: %s\n", f.ID, content.Language, content.Description, content.Text)
		case id3.Picture:
			fmt.Printf("%s\t%s (%s)\n", f.ID, content.MimeType, lib.HumanSize(len(content.Data)))
		case id3.Chapter:
			fmt.Printf("%s\t%s %dms-%dms (%d frames)\n", f.ID,
				content.ElementID, content.StartTime, content.EndTime, len(content.Frames))
		case id3.Unknown:
			fmt.Printf("%s\t%s opaque\n", f.ID, lib.HumanSize(len(content.Data)))
		default:
			fmt.Printf("%s\t%T\n", f.ID, content)
		}
	}

	return nil
}

func commandSet(c *cli.Context) error {
	kind, err := parseKind(c)
	if err != nil {
		return err
	}

	path := c.Args().First()

	tag, err := id3.ReadFile(path, id3.Options{Kind: kind, NoTagOK: true, PartialTagOK: true})
	if err != nil {
		return err
	}

	if tag == nil {
		tag = id3.NewTag()
	}

	if v := c.String("title"); v != "" {
		tag.SetTitle(v)
	}

	if v := c.String("artist"); v != "" {
		tag.SetArtists(strings.Split(v, ","))
	}

	if v := c.String("album"); v != "" {
		tag.SetAlbum(v)
	}

	if v := c.String("year"); v != "" {
		tag.SetYear(v)
	}

	if v := c.String("genre"); v != "" {
		tag.SetGenre(v)
	}

	opts := id3.Options{Kind: kind, Padding: 1024}
	if v := c.Int("to-version"); v != 0 {
		opts.Version = id3.Version(v)
	}

	return id3.WriteFile(path, tag, opts)
}
