package models

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the queue priority carried by a [Song].
//
// The zero value is [PriorityUnset], which is what every catalog record holds until it is enqueued.
type Priority uint8

const (
	PriorityUnset Priority = iota
	PriorityHigh
	PriorityNormal
)

// PriorityOf maps an enqueue flag to a [Priority].
func PriorityOf(high bool) Priority {
	if high {
		return PriorityHigh
	}
	return PriorityNormal
}

// ParsePriority decodes the persisted form of a priority flag.
//
// An empty field leaves the priority unset, "true" (any case) is high, and everything else is normal.
func ParsePriority(s string) Priority {
	switch {
	case s == "":
		return PriorityUnset
	case strings.EqualFold(s, "true"):
		return PriorityHigh
	default:
		return PriorityNormal
	}
}

// IsHigh reports whether p ranks ahead of normal and unset entries.
func (p Priority) IsHigh() bool {
	return p == PriorityHigh
}

// String returns the persisted form: "true", "false", or "" when unset.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "true"
	case PriorityNormal:
		return "false"
	default:
		return ""
	}
}

// MarshalText implements [encoding.TextMarshaler] so exports show the wire form.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Song is a single catalog record.
//
// Priority and Sequence only carry meaning while the record sits in a play queue.
type Song struct {
	Title       string
	Artist      string
	Platform    string
	Link        string
	ReleaseDate time.Time
	DateAdded   time.Time
	Priority    Priority
	Sequence    uint64
}

// NewSong creates a catalog record with no queue semantics.
func NewSong(title, artist, platform, link string, released, added time.Time) Song {
	return Song{
		Title:       title,
		Artist:      artist,
		Platform:    platform,
		Link:        link,
		ReleaseDate: released,
		DateAdded:   added,
	}
}

// Clone returns an independent copy of s, queue fields included.
func (s Song) Clone() Song {
	return s
}

// Equal reports whether s and other hold the same field values.
// Dates compare as instants so a decoded record equals the one that was encoded.
func (s Song) Equal(other Song) bool {
	return s.Title == other.Title &&
		s.Artist == other.Artist &&
		s.Platform == other.Platform &&
		s.Link == other.Link &&
		s.ReleaseDate.Equal(other.ReleaseDate) &&
		s.DateAdded.Equal(other.DateAdded) &&
		s.Priority == other.Priority &&
		s.Sequence == other.Sequence
}

func (s Song) String() string {
	return fmt.Sprintf("%s by %s (%s) released %s, added %s",
		s.Title, s.Artist, s.Platform, FormatDate(s.ReleaseDate), FormatDate(s.DateAdded))
}
