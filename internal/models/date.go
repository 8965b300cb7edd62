package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/songq/internal/shared"
)

// DateLayout is the calendar-date form used in save files and on the command line.
const DateLayout = time.DateOnly

// Date builds a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date. An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", shared.ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Today returns the current local calendar date as a UTC date.
func Today() time.Time {
	y, m, d := time.Now().Date()
	return Date(y, m, d)
}
