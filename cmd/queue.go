package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songq/internal/catalog"
	"github.com/desertthunder/songq/internal/formatter"
	"github.com/desertthunder/songq/internal/models"
	"github.com/desertthunder/songq/internal/queue"
	"github.com/desertthunder/songq/internal/shared"
	"github.com/desertthunder/songq/internal/ui"
)

var errQueueEmpty = errors.New("queue is empty")

// QueueAdd enqueues a copy of the catalog song at INDEX.
func (r *Runner) QueueAdd(ctx context.Context, cmd *cli.Command) error {
	arg := cmd.StringArg("index")
	if arg == "" {
		return fmt.Errorf("%w: catalog index is required", shared.ErrMissingArgument)
	}
	index, err := parseIndex(arg)
	if err != nil {
		return err
	}

	lib, err := r.lib()
	if err != nil {
		return err
	}

	var song models.Song
	lib.ReadCatalog(func(c *catalog.Catalog) {
		song, err = c.Get(index)
	})
	if err != nil {
		return err
	}

	var queued models.Song
	if err := lib.UpdateQueue(func(q *queue.Queue) error {
		queued = q.Enqueue(song, cmd.Bool("priority"))
		return nil
	}); err != nil {
		return err
	}

	r.logger.Debug("song queued", "title", queued.Title, "priority", queued.Priority, "sequence", queued.Sequence)
	label := "normal"
	if queued.Priority.IsHigh() {
		label = "priority"
	}
	r.success("Queued %q (%s, #%d)", queued.Title, label, queued.Sequence)
	return nil
}

// QueueNext removes and prints the next song to play.
func (r *Runner) QueueNext(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}

	var song models.Song
	err = lib.UpdateQueue(func(q *queue.Queue) error {
		var ok bool
		if song, ok = q.Dequeue(); !ok {
			return errQueueEmpty
		}
		return nil
	})
	if errors.Is(err, errQueueEmpty) {
		return r.writePlain("%s\n", ui.Styles.Help("Queue is empty."))
	}
	if err != nil {
		return err
	}

	return r.printQueued(song, cmd.Bool("json"))
}

// QueuePeek prints the next song to play without removing it.
func (r *Runner) QueuePeek(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}

	var (
		song models.Song
		ok   bool
	)
	lib.ReadQueue(func(q *queue.Queue) {
		song, ok = q.Peek()
	})
	if !ok {
		return r.writePlain("%s\n", ui.Styles.Help("Queue is empty."))
	}

	return r.printQueued(song, cmd.Bool("json"))
}

// QueueList prints every queued song in play order.
func (r *Runner) QueueList(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}

	var songs []models.Song
	lib.ReadQueue(func(q *queue.Queue) {
		songs = q.AllSongsInOrder()
	})

	if cmd.Bool("json") {
		data, err := formatter.ExportToJSON(&formatter.Export{Name: "queue", Songs: songs, Queued: true})
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return r.writePlain("%s\n", data)
	}

	if len(songs) == 0 {
		return r.writePlain("%s\n", ui.Styles.Help("Queue is empty."))
	}
	ui.QueueTable(r.output, songs)
	return nil
}

type queueStatus struct {
	Size    int    `json:"size"`
	Counter uint64 `json:"counter"`
}

// QueueSize prints the number of queued songs and the next sequence value.
func (r *Runner) QueueSize(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}

	var status queueStatus
	lib.ReadQueue(func(q *queue.Queue) {
		status = queueStatus{Size: q.Size(), Counter: q.Counter()}
	})

	if cmd.Bool("json") {
		return r.writeJSON(status, false)
	}
	return r.writePlain("%d queued (next sequence %d)\n", status.Size, status.Counter)
}

// QueueClear empties the queue and resets its counter.
func (r *Runner) QueueClear(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}

	var n int
	if err := lib.UpdateQueue(func(q *queue.Queue) error {
		n = q.Size()
		q.Clear()
		return nil
	}); err != nil {
		return err
	}

	r.success("Cleared %d queued songs", n)
	return nil
}

func (r *Runner) printQueued(song models.Song, asJSON bool) error {
	if asJSON {
		data, err := formatter.ExportToJSON(&formatter.Export{Name: "queue", Songs: []models.Song{song}, Queued: true})
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return r.writePlain("%s\n", data)
	}

	title := song.Title
	if song.Priority.IsHigh() {
		title = ui.Styles.Warn("★ ") + title
	}
	if err := r.writePlain("%s\n", ui.Styles.Title(title)); err != nil {
		return err
	}
	if err := r.writePlain("  %s\n", ui.Describe(song)); err != nil {
		return err
	}
	if song.Link != "" {
		return r.writePlain("  %s\n", song.Link)
	}
	return nil
}
