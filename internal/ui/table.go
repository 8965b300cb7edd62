package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"

	"github.com/desertthunder/songq/internal/models"
)

// Long titles and links are cut to this many terminal cells.
const maxCellWidth = 48

func clip(s string) string {
	return runewidth.Truncate(s, maxCellWidth, "…")
}

// Describe returns the one-line summary shown under a song: artist, platform, and release date.
func Describe(s models.Song) string {
	desc := s.Artist
	if s.Platform != "" {
		desc = fmt.Sprintf("%s • %s", desc, s.Platform)
	}
	if released := models.FormatDate(s.ReleaseDate); released != "" {
		desc = fmt.Sprintf("%s • %s", desc, released)
	}
	return desc
}

// SongTable writes catalog songs as a table. Positions are the catalog indices used by other commands.
func SongTable(w io.Writer, songs []models.Song, positions []int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"#", "Title", "Artist", "Platform", "Released", "Added", "Link"})
	for i, s := range songs {
		pos := i
		if i < len(positions) {
			pos = positions[i]
		}
		t.AppendRow(table.Row{
			pos,
			clip(s.Title),
			clip(s.Artist),
			s.Platform,
			models.FormatDate(s.ReleaseDate),
			models.FormatDate(s.DateAdded),
			clip(s.Link),
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d songs", len(songs))})

	t.Render()
}

// QueueTable writes queued songs in rank order with their priority and sequence.
func QueueTable(w io.Writer, songs []models.Song) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Up", "Title", "Details", "Priority", "Seq"})
	for i, s := range songs {
		marker := ""
		if s.Priority.IsHigh() {
			marker = "★"
		}
		t.AppendRow(table.Row{i + 1, clip(s.Title), clip(Describe(s)), marker, s.Sequence})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d queued", len(songs))})

	t.Render()
}

// SnapshotTable writes archived snapshots, newest first as returned by the repository.
func SnapshotTable(w io.Writer, snaps []*models.Snapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Seq", "ID", "Label", "Songs", "Queued", "Created"})
	for _, s := range snaps {
		t.AppendRow(table.Row{
			s.Sequence(),
			s.ID(),
			s.Label(),
			s.SongCount(),
			s.QueueCount(),
			s.CreatedAt().Local().Format(time.DateTime),
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d snapshots", len(snaps))})

	t.Render()
}
