package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songq/internal/catalog"
	"github.com/desertthunder/songq/internal/formatter"
	"github.com/desertthunder/songq/internal/queue"
	"github.com/desertthunder/songq/internal/shared"
)

// Export writes the catalog or the queue to a file in the chosen format.
//
// Defaults to {target}.{format} in the working directory when --output is not set.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	target := strings.ToLower(cmd.String("target"))
	if target != "catalog" && target != "queue" {
		return fmt.Errorf("%w: --target must be catalog or queue", shared.ErrInvalidFlag)
	}

	lib, err := r.lib()
	if err != nil {
		return err
	}

	export := &formatter.Export{Name: target}
	if target == "queue" {
		export.Queued = true
		lib.ReadQueue(func(q *queue.Queue) {
			export.Songs = q.AllSongsInOrder()
		})
	} else {
		lib.ReadCatalog(func(c *catalog.Catalog) {
			export.Songs = c.Snapshot()
		})
	}

	path, err := formatter.WriteExport(export, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("export complete", "target", target, "format", format, "songs", len(export.Songs))
	r.success("Exported %d songs to %s", len(export.Songs), path)
	return nil
}

func exportCommand(r *Runner) *cli.Command {
	formats := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		formats[i] = string(f)
	}

	return &cli.Command{
		Name:  "export",
		Usage: "Export the catalog or the queue",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "target",
				Usage: "What to export: catalog or queue",
				Value: "catalog",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (" + strings.Join(formats, ", ") + ")",
				Value:   string(formatter.FormatCSV),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path",
			},
		},
		Action: r.Export,
	}
}
