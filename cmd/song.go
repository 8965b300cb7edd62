package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songq/internal/catalog"
	"github.com/desertthunder/songq/internal/formatter"
	"github.com/desertthunder/songq/internal/models"
	"github.com/desertthunder/songq/internal/shared"
	"github.com/desertthunder/songq/internal/ui"
)

// SongAdd appends a song to the catalog, or places it first or at --at.
func (r *Runner) SongAdd(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("first") && cmd.IsSet("at") {
		return fmt.Errorf("%w: --first and --at cannot be combined", shared.ErrInvalidArgument)
	}

	song, err := songFromFlags(cmd, models.Today())
	if err != nil {
		return err
	}

	lib, err := r.lib()
	if err != nil {
		return err
	}

	var pos int
	err = lib.UpdateCatalog(func(c *catalog.Catalog) error {
		switch {
		case cmd.Bool("first"):
			c.Prepend(song)
		case cmd.IsSet("at"):
			pos = cmd.Int("at")
			return c.InsertAt(pos, song)
		default:
			pos = c.Size()
			c.Append(song)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Debug("song added", "title", song.Title, "position", pos)
	r.success("Added %q at position %d", song.Title, pos)
	return nil
}

// SongRemove removes the song at INDEX, or the first song equal to the one described by the flags.
func (r *Runner) SongRemove(ctx context.Context, cmd *cli.Command) error {
	arg := cmd.StringArg("index")

	var target models.Song
	if arg == "" {
		if !cmd.IsSet("title") {
			return fmt.Errorf("%w: pass an index or --title", shared.ErrMissingArgument)
		}
		var err error
		if target, err = songFromFlags(cmd, time.Time{}); err != nil {
			return err
		}
	}

	lib, err := r.lib()
	if err != nil {
		return err
	}

	var removed models.Song
	err = lib.UpdateCatalog(func(c *catalog.Catalog) error {
		if arg != "" {
			index, err := parseIndex(arg)
			if err != nil {
				return err
			}
			removed, err = c.RemoveAt(index)
			return err
		}
		if !c.RemoveByValue(target) {
			return fmt.Errorf("%w: no song matches %q by %q", shared.ErrInvalidArgument, target.Title, target.Artist)
		}
		removed = target
		return nil
	})
	if err != nil {
		return err
	}

	r.success("Removed %q", removed.Title)
	return nil
}

// SongList prints the catalog in stored order or sorted by --sort.
func (r *Runner) SongList(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}

	var (
		songs     []models.Song
		positions []int
		sortErr   error
	)
	lib.ReadCatalog(func(c *catalog.Catalog) {
		switch strings.ToLower(cmd.String("sort")) {
		case "":
			songs = c.Snapshot()
			positions = make([]int, len(songs))
			for i := range positions {
				positions[i] = i
			}
		case "title":
			songs = c.SortedByTitle()
		case "added":
			songs = c.SortedByDateAdded()
		case "released":
			songs = c.SortedByReleaseDate()
		default:
			sortErr = fmt.Errorf("%w: --sort must be title, added, or released", shared.ErrInvalidFlag)
		}
	})
	if sortErr != nil {
		return sortErr
	}

	return r.renderSongs("catalog", songs, positions, cmd.Bool("json"))
}

// SongSearch prints catalog songs whose title, artist, or platform contains QUERY.
func (r *Runner) SongSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")

	lib, err := r.lib()
	if err != nil {
		return err
	}

	var (
		songs     []models.Song
		positions []int
	)
	lib.ReadCatalog(func(c *catalog.Catalog) {
		songs = c.Search(query)
		positions = c.SearchPositions(query)
	})

	r.logger.Debug("search", "query", query, "matches", len(songs))
	return r.renderSongs("search", songs, positions, cmd.Bool("json"))
}

// SongClear removes every song from the catalog. The queue is left alone.
func (r *Runner) SongClear(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}

	var n int
	if err := lib.UpdateCatalog(func(c *catalog.Catalog) error {
		n = c.Size()
		c.Clear()
		return nil
	}); err != nil {
		return err
	}

	r.success("Cleared %d songs", n)
	return nil
}

func (r *Runner) renderSongs(name string, songs []models.Song, positions []int, asJSON bool) error {
	if asJSON {
		data, err := formatter.ExportToJSON(&formatter.Export{Name: name, Songs: songs})
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return r.writePlain("%s\n", data)
	}

	if len(songs) == 0 {
		return r.writePlain("%s\n", ui.Styles.Help("No songs."))
	}
	ui.SongTable(r.output, songs, positions)
	return nil
}

// songFromFlags builds a song from the add/remove flags. Dates use YYYY-MM-DD; added is used when --added is absent.
func songFromFlags(cmd *cli.Command, added time.Time) (models.Song, error) {
	fields := map[string]string{}
	for _, name := range []string{"title", "artist", "platform", "link"} {
		v := cmd.String(name)
		if err := checkField(name, v); err != nil {
			return models.Song{}, err
		}
		fields[name] = v
	}

	released, err := models.ParseDate(cmd.String("released"))
	if err != nil {
		return models.Song{}, fmt.Errorf("--released: %w", err)
	}
	if cmd.IsSet("added") {
		if added, err = models.ParseDate(cmd.String("added")); err != nil {
			return models.Song{}, fmt.Errorf("--added: %w", err)
		}
	}

	return models.NewSong(fields["title"], fields["artist"], fields["platform"], fields["link"], released, added), nil
}

// checkField rejects text the save files cannot hold.
func checkField(name, value string) error {
	if strings.ContainsAny(value, "|\r\n") {
		return fmt.Errorf("%w: --%s must not contain '|' or line breaks", shared.ErrInvalidInput, name)
	}
	return nil
}

func parseIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q is not a number", shared.ErrInvalidArgument, s)
	}
	return index, nil
}
