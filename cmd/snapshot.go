package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songq/internal/catalog"
	"github.com/desertthunder/songq/internal/models"
	"github.com/desertthunder/songq/internal/queue"
	"github.com/desertthunder/songq/internal/repositories"
	"github.com/desertthunder/songq/internal/shared"
	"github.com/desertthunder/songq/internal/ui"
)

type snapshotView struct {
	ID         string    `json:"id"`
	Sequence   int       `json:"sequence"`
	Label      string    `json:"label,omitempty"`
	SongCount  int       `json:"song_count"`
	QueueCount int       `json:"queue_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func viewSnapshot(s *models.Snapshot) snapshotView {
	return snapshotView{
		ID:         s.ID(),
		Sequence:   s.Sequence(),
		Label:      s.Label(),
		SongCount:  s.SongCount(),
		QueueCount: s.QueueCount(),
		CreatedAt:  s.CreatedAt(),
	}
}

// openArchive opens the snapshot database and returns a repository over it. Callers close the db.
func (r *Runner) openArchive() (*sql.DB, *repositories.SnapshotRepository, error) {
	db, err := shared.OpenArchive(r.config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open snapshot archive: %w", err)
	}
	return db, repositories.NewSnapshotRepository(db), nil
}

// SnapshotSave archives the current catalog and queue.
func (r *Runner) SnapshotSave(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}

	catalogData, queueData, err := lib.Encode()
	if err != nil {
		return err
	}

	var songs, queued int
	lib.ReadCatalog(func(c *catalog.Catalog) { songs = c.Size() })
	lib.ReadQueue(func(q *queue.Queue) { queued = q.Size() })

	db, repo, err := r.openArchive()
	if err != nil {
		return err
	}
	defer db.Close()

	snap := models.NewSnapshot(cmd.String("label"), catalogData, queueData, songs, queued)
	if err := repo.Create(snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	r.logger.Info("snapshot saved", "id", snap.ID(), "sequence", snap.Sequence())
	r.success("Saved snapshot %s (%d songs, %d queued)", snap.ID(), songs, queued)
	return nil
}

// SnapshotList prints archived snapshots, newest first.
func (r *Runner) SnapshotList(ctx context.Context, cmd *cli.Command) error {
	db, repo, err := r.openArchive()
	if err != nil {
		return err
	}
	defer db.Close()

	snaps, err := repo.List(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]snapshotView, len(snaps))
		for i, s := range snaps {
			views[i] = viewSnapshot(s)
		}
		return r.writeJSON(views, true)
	}

	if len(snaps) == 0 {
		return r.writePlain("%s\n", ui.Styles.Help("No snapshots."))
	}
	ui.SnapshotTable(r.output, snaps)
	return nil
}

// SnapshotRestore replaces the catalog and queue with an archived snapshot. ID may be "latest".
func (r *Runner) SnapshotRestore(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: snapshot ID or \"latest\" is required", shared.ErrMissingArgument)
	}

	db, repo, err := r.openArchive()
	if err != nil {
		return err
	}
	defer db.Close()

	var snap *models.Snapshot
	if id == "latest" {
		snap, err = repo.Latest()
	} else {
		snap, err = repo.Get(id)
	}
	if err != nil {
		return err
	}

	lib, err := r.lib()
	if err != nil {
		return err
	}

	result, err := lib.Decode(snap.CatalogData(), snap.QueueData())
	if err != nil {
		return fmt.Errorf("failed to restore snapshot %s: %w", snap.ID(), err)
	}

	r.logger.Info("snapshot restored", "id", snap.ID(), "skipped", result.Skipped())
	r.success("Restored snapshot %s (%d songs, %d queued)",
		snap.ID(), result.Catalog.Loaded, result.Queue.Loaded)
	return nil
}

// SnapshotDelete removes a snapshot from the archive.
func (r *Runner) SnapshotDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: snapshot ID is required", shared.ErrMissingArgument)
	}

	db, repo, err := r.openArchive()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repo.Delete(id); err != nil {
		return err
	}

	r.success("Deleted snapshot %s", id)
	return nil
}
