// Package ui renders catalog and queue listings for the terminal.
//
// Listings are drawn as go-pretty tables ([SongTable], [QueueTable], [SnapshotTable]) and status lines are colored with a
// lipgloss [Palette]. Colors are dropped automatically when the output is not a terminal.
package ui
