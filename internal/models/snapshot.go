package models

import (
	"fmt"
	"time"
)

// Snapshot is an archived copy of the catalog and queue save files.
//
// CatalogData and QueueData hold the files verbatim so a restore is a plain decode.
type Snapshot struct {
	id          string
	sequence    int
	label       string
	catalogData string
	queueData   string
	songCount   int
	queueCount  int
	createdAt   time.Time
	deletedAt   *time.Time
}

// NewSnapshot creates a new [Snapshot] stamped with the current time.
func NewSnapshot(label, catalogData, queueData string, songCount, queueCount int) *Snapshot {
	return &Snapshot{
		label:       label,
		catalogData: catalogData,
		queueData:   queueData,
		songCount:   songCount,
		queueCount:  queueCount,
		createdAt:   time.Now(),
	}
}

func (s *Snapshot) ID() string                { return s.id }
func (s *Snapshot) SetID(id string)           { s.id = id }
func (s *Snapshot) Sequence() int             { return s.sequence }
func (s *Snapshot) SetSequence(seq int)       { s.sequence = seq }
func (s *Snapshot) Label() string             { return s.label }
func (s *Snapshot) CatalogData() string       { return s.catalogData }
func (s *Snapshot) QueueData() string         { return s.queueData }
func (s *Snapshot) SongCount() int            { return s.songCount }
func (s *Snapshot) QueueCount() int           { return s.queueCount }
func (s *Snapshot) CreatedAt() time.Time      { return s.createdAt }
func (s *Snapshot) SetCreatedAt(t time.Time)  { s.createdAt = t }
func (s *Snapshot) DeletedAt() *time.Time     { return s.deletedAt }
func (s *Snapshot) SetDeletedAt(t *time.Time) { s.deletedAt = t }

// Validate checks that the snapshot can be stored.
func (s *Snapshot) Validate() error {
	if s.id == "" {
		return fmt.Errorf("snapshot ID is required")
	}
	if s.songCount < 0 || s.queueCount < 0 {
		return fmt.Errorf("snapshot counts must not be negative")
	}
	if s.createdAt.IsZero() {
		return fmt.Errorf("snapshot creation time is required")
	}
	return nil
}
