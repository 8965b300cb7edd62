package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/songq/internal/models"
	"github.com/desertthunder/songq/internal/shared"
)

const snapshotColumns = `id, sequence, label, catalog_data, queue_data, song_count, queue_count, created_at, deleted_at`

// SnapshotRepository implements models.Repository[*models.Snapshot] for the snapshot archive.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the given database connection
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create inserts a new [models.Snapshot] into the database with generated ID and sequence
func (r *SnapshotRepository) Create(snap *models.Snapshot) error {
	sequence, err := NextSequence(r.db, "snapshots")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	snap.SetID(shared.GenerateID())
	snap.SetSequence(sequence)

	if err := snap.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO snapshots (id, sequence, label, catalog_data, queue_data, song_count, queue_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		snap.ID(),
		snap.Sequence(),
		snap.Label(),
		snap.CatalogData(),
		snap.QueueData(),
		snap.SongCount(),
		snap.QueueCount(),
		snap.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return nil
}

// Get retrieves a snapshot by ID, excluding soft-deleted snapshots
func (r *SnapshotRepository) Get(id string) (*models.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE id = ? AND deleted_at IS NULL`

	snap, err := scanSnapshot(r.db.QueryRow(query, id))
	if errors.Is(err, shared.ErrSnapshotNotFound) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSnapshotNotFound, id)
	}
	return snap, err
}

// Latest retrieves the most recent snapshot that has not been deleted
func (r *SnapshotRepository) Latest() (*models.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE deleted_at IS NULL ORDER BY sequence DESC LIMIT 1`
	return scanSnapshot(r.db.QueryRow(query))
}

// Delete soft-deletes a snapshot by ID
func (r *SnapshotRepository) Delete(id string) error {
	query := `
		UPDATE snapshots
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSnapshotNotFound, id)
	}

	return nil
}

// List retrieves snapshots newest first, excluding soft-deleted ones. A non-positive limit returns all of them.
func (r *SnapshotRepository) List(limit int) ([]*models.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE deleted_at IS NULL ORDER BY sequence DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return snapshots, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanSnapshot scans a single row from [sql.Row] or [sql.Rows] into a [models.Snapshot]
func scanSnapshot(row scanner) (*models.Snapshot, error) {
	var (
		id          string
		sequence    int
		label       string
		catalogData string
		queueData   string
		songCount   int
		queueCount  int
		createdAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &label, &catalogData, &queueData, &songCount, &queueCount, &createdAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	snap := models.NewSnapshot(label, catalogData, queueData, songCount, queueCount)
	snap.SetID(id)
	snap.SetSequence(sequence)
	snap.SetCreatedAt(createdAt)
	if deletedAt.Valid {
		snap.SetDeletedAt(&deletedAt.Time)
	}

	return snap, nil
}
