package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/songq/internal/models"
	"github.com/desertthunder/songq/internal/shared"
)

// QueueState is the persisted form of a play queue: its counter and entries in rank order.
type QueueState struct {
	Counter uint64
	Entries []models.Song
}

// ReadCatalog decodes catalog lines from r.
//
// Blank lines are ignored and malformed lines are skipped and recorded in the [Report].
// The returned error is only set when r itself fails.
func ReadCatalog(r io.Reader) ([]models.Song, Report, error) {
	var (
		songs  []models.Song
		report Report
	)

	err := scanLines(r, &report, func(n int, line string) {
		song, err := DecodeSong(line)
		if err != nil {
			report.skip(n, line, err)
			return
		}
		songs = append(songs, song)
		report.Loaded++
	})
	if err != nil {
		return nil, report, err
	}
	return songs, report, nil
}

// WriteCatalog writes one line per song in order.
func WriteCatalog(w io.Writer, songs []models.Song) error {
	bw := bufio.NewWriter(w)
	for _, s := range songs {
		if _, err := fmt.Fprintln(bw, EncodeSong(s)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadQueue decodes a queue file.
//
// The first non-blank line is expected to be the SEQUENCE checkpoint. When it is missing the counter
// starts at 0 and that line is decoded as an entry. A malformed checkpoint is reported and treated as 0.
func ReadQueue(r io.Reader) (QueueState, Report, error) {
	var (
		state  QueueState
		report Report
		first  = true
	)

	err := scanLines(r, &report, func(n int, line string) {
		if first {
			first = false
			counter, ok, err := ParseCheckpoint(line)
			if ok {
				if err != nil {
					report.skip(n, line, err)
					return
				}
				state.Counter = counter
				return
			}
		}

		song, err := DecodeSong(line)
		if err != nil {
			report.skip(n, line, err)
			return
		}
		state.Entries = append(state.Entries, song)
		report.Loaded++
	})
	if err != nil {
		return QueueState{}, report, err
	}
	return state, report, nil
}

// WriteQueue writes the checkpoint line and then every entry with its queue fields.
func WriteQueue(w io.Writer, state QueueState) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, EncodeCheckpoint(state.Counter)); err != nil {
		return err
	}
	for _, s := range state.Entries {
		if _, err := fmt.Fprintln(bw, EncodeQueuedSong(s)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// MaxLineLength is the longest line the decoders accept. Longer lines are skipped like any other bad line.
const MaxLineLength = 1024 * 1024

// scanLines calls fn for every non-blank line with its 1-based line number.
// Lines over [MaxLineLength] are recorded in report instead of being passed to fn.
func scanLines(r io.Reader, report *Report, fn func(n int, line string)) error {
	br := bufio.NewReader(r)

	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read line %d: %w", n, err)
		}
		if line == "" && err != nil {
			return nil
		}

		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		switch {
		case strings.TrimSpace(line) == "":
		case len(line) > MaxLineLength:
			report.skip(n, line[:64]+"...", fmt.Errorf("%w: %d bytes", shared.ErrLineTooLong, len(line)))
		default:
			fn(n, line)
		}

		if err != nil {
			return nil
		}
	}
}
