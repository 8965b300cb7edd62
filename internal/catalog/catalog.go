// Package catalog implements the ordered song list.
//
// Insertion order is the natural order. Duplicates are allowed and each occupies its own position.
// Sorted views and searches return snapshots and never reorder the catalog itself.
package catalog

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/desertthunder/songq/internal/codec"
	"github.com/desertthunder/songq/internal/models"
	"github.com/desertthunder/songq/internal/shared"
)

// Catalog is an ordered sequence of songs. It is not safe for concurrent use.
type Catalog struct {
	songs []models.Song
}

// New creates a catalog holding songs in the given order.
func New(songs ...models.Song) *Catalog {
	return &Catalog{songs: slices.Clone(songs)}
}

// Append adds song to the end.
func (c *Catalog) Append(song models.Song) {
	c.songs = append(c.songs, song)
}

// Prepend adds song to the front.
func (c *Catalog) Prepend(song models.Song) {
	c.songs = slices.Insert(c.songs, 0, song)
}

// InsertAt places song at index, shifting later songs back. Valid indices are 0 through Size.
func (c *Catalog) InsertAt(index int, song models.Song) error {
	if index < 0 || index > len(c.songs) {
		return outOfRange(index, len(c.songs))
	}
	c.songs = slices.Insert(c.songs, index, song)
	return nil
}

// RemoveByValue removes the first song equal to song and reports whether one was found.
func (c *Catalog) RemoveByValue(song models.Song) bool {
	i := slices.IndexFunc(c.songs, song.Equal)
	if i < 0 {
		return false
	}
	c.songs = slices.Delete(c.songs, i, i+1)
	return true
}

// RemoveAt removes and returns the song at index.
func (c *Catalog) RemoveAt(index int) (models.Song, error) {
	if err := c.checkIndex(index); err != nil {
		return models.Song{}, err
	}
	song := c.songs[index]
	c.songs = slices.Delete(c.songs, index, index+1)
	return song, nil
}

// Get returns the song at index.
func (c *Catalog) Get(index int) (models.Song, error) {
	if err := c.checkIndex(index); err != nil {
		return models.Song{}, err
	}
	return c.songs[index], nil
}

// Snapshot returns an independent copy of the songs in catalog order.
func (c *Catalog) Snapshot() []models.Song {
	return slices.Clone(c.songs)
}

// SortedByTitle returns a snapshot ordered by case-insensitive title. Equal titles keep their relative order.
func (c *Catalog) SortedByTitle() []models.Song {
	return c.sorted(CompareTitle)
}

// SortedByDateAdded returns a snapshot ordered by date added, oldest first.
func (c *Catalog) SortedByDateAdded() []models.Song {
	return c.sorted(CompareDateAdded)
}

// SortedByReleaseDate returns a snapshot ordered by release date, oldest first.
func (c *Catalog) SortedByReleaseDate() []models.Song {
	return c.sorted(CompareReleaseDate)
}

func (c *Catalog) sorted(compare func(a, b models.Song) int) []models.Song {
	songs := c.Snapshot()
	slices.SortStableFunc(songs, compare)
	return songs
}

// ReplaceAll discards the current contents and adopts a copy of songs.
func (c *Catalog) ReplaceAll(songs []models.Song) {
	c.songs = slices.Clone(songs)
}

// Search returns the songs whose title, artist, or platform contains query, ignoring case.
// An empty query matches every song.
func (c *Catalog) Search(query string) []models.Song {
	q := strings.ToLower(query)
	return lo.Filter(c.songs, func(s models.Song, _ int) bool {
		return matches(s, q)
	})
}

// SearchPositions returns the indices of the songs [Catalog.Search] would return, in the same order.
func (c *Catalog) SearchPositions(query string) []int {
	q := strings.ToLower(query)
	return lo.FilterMap(c.songs, func(s models.Song, i int) (int, bool) {
		return i, matches(s, q)
	})
}

func matches(s models.Song, q string) bool {
	return strings.Contains(strings.ToLower(s.Title), q) ||
		strings.Contains(strings.ToLower(s.Artist), q) ||
		strings.Contains(strings.ToLower(s.Platform), q)
}

func (c *Catalog) Size() int {
	return len(c.songs)
}

func (c *Catalog) IsEmpty() bool {
	return len(c.songs) == 0
}

// Contains reports whether a song equal to song is in the catalog.
func (c *Catalog) Contains(song models.Song) bool {
	return slices.ContainsFunc(c.songs, song.Equal)
}

func (c *Catalog) Clear() {
	c.songs = nil
}

// String lists one song per line, numbered from 0.
func (c *Catalog) String() string {
	var sb strings.Builder
	for i, s := range c.songs {
		fmt.Fprintf(&sb, "%d. %s\n", i, s)
	}
	return sb.String()
}

// Save writes the catalog in save-file format.
func (c *Catalog) Save(w io.Writer) error {
	return codec.WriteCatalog(w, c.songs)
}

// Load replaces the catalog with the songs decoded from r.
//
// Malformed lines are skipped and listed in the returned report. When r fails the catalog is left unchanged.
func (c *Catalog) Load(r io.Reader) (codec.Report, error) {
	songs, report, err := codec.ReadCatalog(r)
	if err != nil {
		return report, err
	}
	c.songs = songs
	return report, nil
}

func (c *Catalog) checkIndex(index int) error {
	if index < 0 || index >= len(c.songs) {
		return outOfRange(index, len(c.songs))
	}
	return nil
}

func outOfRange(index, size int) error {
	return fmt.Errorf("%w: index %d, size %d", shared.ErrIndexOutOfRange, index, size)
}

// CompareTitle orders songs by title, ignoring case.
func CompareTitle(a, b models.Song) int {
	return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
}

// CompareDateAdded orders songs by the date they were added.
func CompareDateAdded(a, b models.Song) int {
	return a.DateAdded.Compare(b.DateAdded)
}

// CompareReleaseDate orders songs by release date.
func CompareReleaseDate(a, b models.Song) int {
	return a.ReleaseDate.Compare(b.ReleaseDate)
}
