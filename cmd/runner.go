package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songq/internal/library"
	"github.com/desertthunder/songq/internal/shared"
	"github.com/desertthunder/songq/internal/ui"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	library    *library.Library
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Library    *library.Library
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		library:    opts.Library,
	}
}

// App builds the root command.
func (r *Runner) App() *cli.Command {
	return &cli.Command{
		Name:      "songq",
		Usage:     "Keep a song catalog and a priority play queue",
		Version:   "0.1.0",
		Writer:    r.output,
		ErrWriter: r.output,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level (debug, info, warn, error)",
			},
		},
		Before:   r.configure,
		After:    r.finish,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, songCommand, queueCommand, exportCommand, snapshotCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// configure loads the config file named by --config when it exists and applies its log settings.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	r.configPath = path

	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		r.config = config
	} else if cmd.IsSet("config") {
		r.logger.Warn("config file not found, using defaults", "path", path)
	}

	if r.config.Log.File != "" {
		logger, err := shared.NewFileLogger(r.config.Log.File)
		if err != nil {
			return ctx, err
		}
		r.logger = logger
	}

	level := r.config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	ll, err := shared.ParseLogLevel(level)
	if err != nil {
		r.logger.Warn("invalid log level, using info", "level", level)
	}
	shared.SetLogLevel(r.logger, ll)

	return ctx, nil
}

// finish flushes the library if a command opened it.
func (r *Runner) finish(ctx context.Context, cmd *cli.Command) error {
	if r.library == nil {
		return nil
	}
	if err := r.library.Close(); err != nil {
		return fmt.Errorf("failed to save library: %w", err)
	}
	return nil
}

// lib returns the session library, loading both save files on first use.
//
// A file that exists but cannot be read fails the command so that a later save does not overwrite it.
func (r *Runner) lib() (*library.Library, error) {
	if r.library != nil {
		return r.library, nil
	}

	lib, err := library.FromConfig(r.config, r.logger)
	if err != nil {
		return nil, err
	}

	result, err := lib.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}
	if n := result.Skipped(); n > 0 {
		r.writePlain("%s\n", ui.Styles.Warn(fmt.Sprintf("skipped %d unreadable line(s)", n)))
	}

	r.library = lib
	return lib, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// success writes a status line prefixed with a check mark.
func (r *Runner) success(format string, args ...any) error {
	return r.writePlain("%s %s\n", ui.Styles.OK("✓"), fmt.Sprintf(format, args...))
}
