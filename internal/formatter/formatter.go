// package formatter provides functions to export catalog and queue listings to various formats (CSV, Markdown, plain text, JSON, YAML)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/desertthunder/songq/internal/models"
	"github.com/desertthunder/songq/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists the supported formats in the order they are offered on the command line.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON, FormatYAML}

// ParseFormat resolves a format name or common alias such as "markdown" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, s)
	}
}

// Export is a named listing of songs. Queued listings carry priority and sequence columns.
type Export struct {
	Name   string
	Songs  []models.Song
	Queued bool
}

// songRecord is the structured (JSON/YAML) form of a song.
type songRecord struct {
	Position int     `json:"position" yaml:"position"`
	Title    string  `json:"title" yaml:"title"`
	Artist   string  `json:"artist" yaml:"artist"`
	Platform string  `json:"platform" yaml:"platform"`
	Link     string  `json:"link" yaml:"link"`
	Released string  `json:"released,omitempty" yaml:"released,omitempty"`
	Added    string  `json:"added,omitempty" yaml:"added,omitempty"`
	Priority *bool   `json:"priority,omitempty" yaml:"priority,omitempty"`
	Sequence *uint64 `json:"sequence,omitempty" yaml:"sequence,omitempty"`
}

type exportRecord struct {
	Name  string       `json:"name" yaml:"name"`
	Count int          `json:"count" yaml:"count"`
	Songs []songRecord `json:"songs" yaml:"songs"`
}

func (e *Export) records() exportRecord {
	out := exportRecord{Name: e.Name, Count: len(e.Songs), Songs: make([]songRecord, 0, len(e.Songs))}
	for i, s := range e.Songs {
		rec := songRecord{
			Position: i + 1,
			Title:    s.Title,
			Artist:   s.Artist,
			Platform: s.Platform,
			Link:     s.Link,
			Released: models.FormatDate(s.ReleaseDate),
			Added:    models.FormatDate(s.DateAdded),
		}
		if e.Queued {
			high, seq := s.Priority.IsHigh(), s.Sequence
			rec.Priority, rec.Sequence = &high, &seq
		}
		out.Songs = append(out.Songs, rec)
	}
	return out
}

// ExportToCSV converts an Export to CSV format with columns: Position, Title, Artist, Platform, Link, Released, Added
// and, for queues, Priority and Sequence.
func ExportToCSV(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Title", "Artist", "Platform", "Link", "Released", "Added"}
	if export.Queued {
		headers = append(headers, "Priority", "Sequence")
	}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, s := range export.Songs {
		record := []string{
			strconv.Itoa(i + 1),
			s.Title,
			s.Artist,
			s.Platform,
			s.Link,
			models.FormatDate(s.ReleaseDate),
			models.FormatDate(s.DateAdded),
		}
		if export.Queued {
			record = append(record, strconv.FormatBool(s.Priority.IsHigh()), strconv.FormatUint(s.Sequence, 10))
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an Export to a Markdown document with a numbered song list
func ExportToMarkdown(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.Name)
	fmt.Fprintf(&buf, "**Songs**: %d\n", len(export.Songs))
	if export.Queued {
		fmt.Fprintf(&buf, "**Priority**: %d\n", countPriority(export.Songs))
	}
	buf.WriteString("\n## Songs\n\n")

	for i, s := range export.Songs {
		marker := ""
		if export.Queued && s.Priority.IsHigh() {
			marker = " **(priority)**"
		}
		released := ""
		if d := models.FormatDate(s.ReleaseDate); d != "" {
			released = fmt.Sprintf(" [%s]", d)
		}
		title := s.Title
		if s.Link != "" {
			title = fmt.Sprintf("[%s](%s)", s.Title, s.Link)
		}
		fmt.Fprintf(&buf, "%d. %s - %s (%s)%s%s\n", i+1, s.Artist, title, s.Platform, released, marker)
	}

	return buf.Bytes(), nil
}

// ExportToText converts an Export to plain text format
func ExportToText(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", export.Name)
	fmt.Fprintf(&buf, "Songs: %d\n\n", len(export.Songs))

	for i, s := range export.Songs {
		marker := ""
		if export.Queued && s.Priority.IsHigh() {
			marker = "* "
		}
		fmt.Fprintf(&buf, "%d. %s%s - %s\n", i+1, marker, s.Artist, s.Title)
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts an Export to indented JSON
func ExportToJSON(export *Export) ([]byte, error) {
	return shared.MarshalJSON(export.records(), true)
}

// ExportToYAML converts an Export to YAML
func ExportToYAML(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(export.records()); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// Render converts an Export to the given format.
func Render(export *Export, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	case FormatJSON:
		return ExportToJSON(export)
	case FormatYAML:
		return ExportToYAML(export)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
}

// WriteExport renders an Export and writes it to path.
//
// Defaults to {name}.{format} as the filename when path is empty.
func WriteExport(export *Export, format Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s.%s", export.Name, format)
	}

	data, err := Render(export, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

func countPriority(songs []models.Song) int {
	n := 0
	for _, s := range songs {
		if s.Priority.IsHigh() {
			n++
		}
	}
	return n
}
