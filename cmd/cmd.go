// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output JSON",
	}
}

func songFlags(withAdded bool) []cli.Flag {
	addedUsage := "Date added (YYYY-MM-DD)"
	if withAdded {
		addedUsage = "Date added (YYYY-MM-DD), defaults to today"
	}
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Song title"},
		&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "Artist name"},
		&cli.StringFlag{Name: "platform", Aliases: []string{"p"}, Usage: "Streaming platform"},
		&cli.StringFlag{Name: "link", Aliases: []string{"l"}, Usage: "Link to the song"},
		&cli.StringFlag{Name: "released", Usage: "Release date (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "added", Usage: addedUsage},
	}
}

// songCommand handles catalog operations
func songCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "song",
		Aliases: []string{"songs"},
		Usage:   "Manage the song catalog",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a song to the catalog",
				Flags: append(songFlags(true),
					&cli.BoolFlag{
						Name:  "first",
						Usage: "Insert at the front of the catalog",
					},
					&cli.IntFlag{
						Name:  "at",
						Usage: "Insert at this position (0 is the front)",
					},
				),
				Action: r.SongAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a song by index, or the first song matching the given fields",
				ArgsUsage: "[INDEX]",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "index"},
				},
				Flags:  songFlags(false),
				Action: r.SongRemove,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List catalog songs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort by title, added, or released",
					},
					jsonFlag(),
				},
				Action: r.SongList,
			},
			{
				Name:      "search",
				Usage:     "Find songs by title, artist, or platform",
				ArgsUsage: "QUERY",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					jsonFlag(),
				},
				Action: r.SongSearch,
			},
			{
				Name:   "clear",
				Usage:  "Remove every song from the catalog",
				Action: r.SongClear,
			},
		},
	}
}

// queueCommand handles play queue operations
func queueCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "queue",
		Aliases: []string{"q"},
		Usage:   "Manage the play queue",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Queue a copy of the catalog song at INDEX",
				ArgsUsage: "INDEX",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "index"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "priority",
						Aliases: []string{"p"},
						Usage:   "Play ahead of normal songs",
					},
				},
				Action: r.QueueAdd,
			},
			{
				Name:   "next",
				Usage:  "Remove and show the next song",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.QueueNext,
			},
			{
				Name:   "peek",
				Usage:  "Show the next song without removing it",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.QueuePeek,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List queued songs in play order",
				Flags:   []cli.Flag{jsonFlag()},
				Action:  r.QueueList,
			},
			{
				Name:   "size",
				Usage:  "Show the queue length",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.QueueSize,
			},
			{
				Name:   "clear",
				Usage:  "Remove every queued song",
				Action: r.QueueClear,
			},
		},
	}
}

// snapshotCommand handles the snapshot archive
func snapshotCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Archive and restore the catalog and queue",
		Commands: []*cli.Command{
			{
				Name:  "save",
				Usage: "Archive the current catalog and queue",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "label",
						Usage: "Label to remember the snapshot by",
					},
				},
				Action: r.SnapshotSave,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List snapshots, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of snapshots to show (0 for all)",
						Value: 20,
					},
					jsonFlag(),
				},
				Action: r.SnapshotList,
			},
			{
				Name:      "restore",
				Usage:     "Replace the catalog and queue with a snapshot",
				ArgsUsage: "ID|latest",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.SnapshotRestore,
			},
			{
				Name:      "delete",
				Usage:     "Delete a snapshot",
				ArgsUsage: "ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.SnapshotDelete,
			},
		},
	}
}
