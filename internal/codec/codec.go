// Package codec reads and writes the pipe-delimited save files for the catalog and the play queue.
//
// A catalog line is
//
//	title|artist|platform|songLink|releaseDate|dateAdded
//
// and a queue file starts with a SEQUENCE:<counter> checkpoint followed by catalog lines extended with
// priorityFlag and queueSequence fields. Decoding is tolerant: a bad line is recorded in a [Report] and skipped.
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/songq/internal/models"
	"github.com/desertthunder/songq/internal/shared"
)

const (
	Delimiter      = "|"
	SequencePrefix = "SEQUENCE:"

	catalogFields = 6
	queueFields   = 8
)

// LineError describes a line that could not be decoded.
type LineError struct {
	Line int    // 1-based line number
	Text string // raw line content
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error {
	return e.Err
}

// Report summarizes a tolerant load.
type Report struct {
	Loaded  int
	Skipped []LineError
}

// OK reports whether every non-blank line decoded.
func (r Report) OK() bool {
	return len(r.Skipped) == 0
}

// Err joins the skipped-line errors, or returns nil when there were none.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, 0, len(r.Skipped))
	for _, le := range r.Skipped {
		errs = append(errs, le)
	}
	return errors.Join(errs...)
}

func (r *Report) skip(line int, text string, err error) {
	r.Skipped = append(r.Skipped, LineError{Line: line, Text: text, Err: err})
}

// EncodeSong encodes the catalog fields of s as one line without a trailing newline.
func EncodeSong(s models.Song) string {
	return strings.Join([]string{
		s.Title,
		s.Artist,
		s.Platform,
		s.Link,
		models.FormatDate(s.ReleaseDate),
		models.FormatDate(s.DateAdded),
	}, Delimiter)
}

// EncodeQueuedSong encodes s with its priority flag and sequence.
func EncodeQueuedSong(s models.Song) string {
	return EncodeSong(s) + Delimiter + s.Priority.String() + Delimiter + strconv.FormatUint(s.Sequence, 10)
}

// DecodeSong parses a catalog or queue line.
//
// At least six fields are required. A seventh field sets the priority and an eighth the sequence;
// either may be absent or empty, leaving the priority unset and the sequence at 0.
func DecodeSong(line string) (models.Song, error) {
	line = strings.TrimSuffix(line, "\r")
	fields := strings.Split(line, Delimiter)
	if len(fields) < catalogFields {
		return models.Song{}, fmt.Errorf("%w: got %d, want at least %d", shared.ErrTooFewFields, len(fields), catalogFields)
	}

	released, err := models.ParseDate(fields[4])
	if err != nil {
		return models.Song{}, fmt.Errorf("release date: %w", err)
	}
	added, err := models.ParseDate(fields[5])
	if err != nil {
		return models.Song{}, fmt.Errorf("date added: %w", err)
	}

	song := models.NewSong(fields[0], fields[1], fields[2], fields[3], released, added)

	if len(fields) > catalogFields {
		song.Priority = models.ParsePriority(strings.TrimSpace(fields[6]))
	}
	if len(fields) > catalogFields+1 {
		if raw := strings.TrimSpace(fields[7]); raw != "" {
			seq, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return models.Song{}, fmt.Errorf("%w: %q", shared.ErrInvalidSequence, raw)
			}
			song.Sequence = seq
		}
	}

	return song, nil
}

// ParseCheckpoint reads the counter out of a SEQUENCE:<n> line.
// ok is false when line is not a checkpoint at all.
func ParseCheckpoint(line string) (counter uint64, ok bool, err error) {
	line = strings.TrimSuffix(line, "\r")
	raw, found := strings.CutPrefix(line, SequencePrefix)
	if !found {
		return 0, false, nil
	}
	counter, err = strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%w: checkpoint %q", shared.ErrInvalidSequence, raw)
	}
	return counter, true, nil
}

// EncodeCheckpoint renders the queue counter checkpoint line.
func EncodeCheckpoint(counter uint64) string {
	return SequencePrefix + strconv.FormatUint(counter, 10)
}
