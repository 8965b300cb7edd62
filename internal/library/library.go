// Package library ties a catalog and a play queue to their save files.
//
// A [Library] is the session that loads both structures once at startup, lets callers read and mutate
// them behind one lock per structure, and writes them back on save. Mutations can trigger a
// rate-limited autosave.
package library

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/songq/internal/catalog"
	"github.com/desertthunder/songq/internal/codec"
	"github.com/desertthunder/songq/internal/queue"
	"github.com/desertthunder/songq/internal/shared"
)

// Options configures a [Library].
type Options struct {
	CatalogPath      string
	QueuePath        string
	Autosave         bool
	AutosaveInterval time.Duration
	Logger           *log.Logger
}

// LoadResult reports what a load decoded from each file.
type LoadResult struct {
	Catalog codec.Report
	Queue   codec.Report
}

// Skipped returns the number of lines dropped across both files.
func (r LoadResult) Skipped() int {
	return len(r.Catalog.Skipped) + len(r.Queue.Skipped)
}

// Library owns one catalog and one queue.
type Library struct {
	opts Options
	log  *log.Logger

	catalogMu sync.Mutex
	catalog   *catalog.Catalog

	queueMu sync.Mutex
	queue   *queue.Queue

	stateMu sync.Mutex
	dirty   bool
	limiter *rate.Limiter
}

// New creates an empty library. Nothing is read until [Library.Load].
func New(opts Options) (*Library, error) {
	if opts.CatalogPath == "" || opts.QueuePath == "" {
		return nil, fmt.Errorf("%w: catalog and queue paths are required", shared.ErrMissingConfig)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	l := &Library{
		opts:    opts,
		log:     shared.WithLogger(opts.Logger, "component", "library"),
		catalog: catalog.New(),
		queue:   queue.New(),
	}
	if opts.Autosave {
		l.limiter = rate.NewLimiter(rate.Every(opts.AutosaveInterval), 1)
	}
	return l, nil
}

// FromConfig creates a library from the storage and autosave sections of cfg.
func FromConfig(cfg *shared.Config, logger *log.Logger) (*Library, error) {
	return New(Options{
		CatalogPath:      cfg.Storage.CatalogPath,
		QueuePath:        cfg.Storage.QueuePath,
		Autosave:         cfg.Autosave.Enabled,
		AutosaveInterval: cfg.Autosave.Interval(),
		Logger:           logger,
	})
}

// Load reads both save files. A missing file yields an empty structure.
//
// Lines that fail to decode are logged and skipped. If a file cannot be read its structure keeps its
// previous contents and the error is returned alongside whatever the other file produced.
func (l *Library) Load() (LoadResult, error) {
	var (
		result LoadResult
		errs   []error
	)

	l.catalogMu.Lock()
	found, err := codec.ReadFile(l.opts.CatalogPath, func(r io.Reader) error {
		var err error
		result.Catalog, err = l.catalog.Load(r)
		return err
	})
	if !found && err == nil {
		l.catalog.Clear()
	}
	l.catalogMu.Unlock()
	if err != nil {
		l.log.Error("failed to load catalog", "path", l.opts.CatalogPath, "err", err)
		errs = append(errs, err)
	}
	l.logSkipped(l.opts.CatalogPath, result.Catalog)

	l.queueMu.Lock()
	found, err = codec.ReadFile(l.opts.QueuePath, func(r io.Reader) error {
		var err error
		result.Queue, err = l.queue.LoadState(r)
		return err
	})
	if !found && err == nil {
		l.queue.Restore(codec.QueueState{})
	}
	l.queueMu.Unlock()
	if err != nil {
		l.log.Error("failed to load queue", "path", l.opts.QueuePath, "err", err)
		errs = append(errs, err)
	}
	l.logSkipped(l.opts.QueuePath, result.Queue)

	l.log.Debug("library loaded", "songs", result.Catalog.Loaded, "queued", result.Queue.Loaded)
	return result, errors.Join(errs...)
}

// Save writes both structures to their files. Each file is replaced atomically.
func (l *Library) Save() error {
	var errs []error

	l.catalogMu.Lock()
	err := codec.WriteFileAtomic(l.opts.CatalogPath, l.catalog.Save)
	l.catalogMu.Unlock()
	if err != nil {
		l.log.Error("failed to save catalog", "path", l.opts.CatalogPath, "err", err)
		errs = append(errs, err)
	}

	l.queueMu.Lock()
	err = codec.WriteFileAtomic(l.opts.QueuePath, l.queue.SaveState)
	l.queueMu.Unlock()
	if err != nil {
		l.log.Error("failed to save queue", "path", l.opts.QueuePath, "err", err)
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	l.stateMu.Lock()
	l.dirty = false
	l.stateMu.Unlock()
	return nil
}

// ReadCatalog runs fn while holding the catalog lock. fn must not retain c.
func (l *Library) ReadCatalog(fn func(c *catalog.Catalog)) {
	l.catalogMu.Lock()
	defer l.catalogMu.Unlock()
	fn(l.catalog)
}

// UpdateCatalog runs fn while holding the catalog lock and marks the library dirty when fn succeeds.
func (l *Library) UpdateCatalog(fn func(c *catalog.Catalog) error) error {
	l.catalogMu.Lock()
	err := fn(l.catalog)
	l.catalogMu.Unlock()
	if err != nil {
		return err
	}
	return l.changed()
}

// ReadQueue runs fn while holding the queue lock. fn must not retain q.
func (l *Library) ReadQueue(fn func(q *queue.Queue)) {
	l.queueMu.Lock()
	defer l.queueMu.Unlock()
	fn(l.queue)
}

// UpdateQueue runs fn while holding the queue lock and marks the library dirty when fn succeeds.
func (l *Library) UpdateQueue(fn func(q *queue.Queue) error) error {
	l.queueMu.Lock()
	err := fn(l.queue)
	l.queueMu.Unlock()
	if err != nil {
		return err
	}
	return l.changed()
}

// MarkDirty records unsaved changes.
func (l *Library) MarkDirty() {
	l.stateMu.Lock()
	l.dirty = true
	l.stateMu.Unlock()
}

// Dirty reports whether there are changes that have not been saved.
func (l *Library) Dirty() bool {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	return l.dirty
}

// Autosave saves pending changes when autosave is enabled and the interval allows it.
// saved reports whether a save happened.
func (l *Library) Autosave() (saved bool, err error) {
	if l.limiter == nil || !l.Dirty() {
		return false, nil
	}
	if !l.limiter.Allow() {
		return false, nil
	}
	if err := l.Save(); err != nil {
		return false, err
	}
	l.log.Debug("autosaved library")
	return true, nil
}

// Close flushes unsaved changes.
func (l *Library) Close() error {
	if !l.Dirty() {
		return nil
	}
	return l.Save()
}

// Encode renders both structures in save-file format without touching disk.
func (l *Library) Encode() (catalogData, queueData string, err error) {
	var cb, qb strings.Builder

	l.catalogMu.Lock()
	err = l.catalog.Save(&cb)
	l.catalogMu.Unlock()
	if err != nil {
		return "", "", fmt.Errorf("failed to encode catalog: %w", err)
	}

	l.queueMu.Lock()
	err = l.queue.SaveState(&qb)
	l.queueMu.Unlock()
	if err != nil {
		return "", "", fmt.Errorf("failed to encode queue: %w", err)
	}

	return cb.String(), qb.String(), nil
}

// Decode replaces both structures with the given save-file contents and marks the library dirty.
//
// Both inputs are decoded before either structure changes, so a failure leaves the library as it was.
func (l *Library) Decode(catalogData, queueData string) (LoadResult, error) {
	return l.decode(strings.NewReader(catalogData), strings.NewReader(queueData))
}

func (l *Library) decode(catalogR, queueR io.Reader) (LoadResult, error) {
	var result LoadResult

	songs, report, err := codec.ReadCatalog(catalogR)
	if err != nil {
		return result, fmt.Errorf("failed to decode catalog: %w", err)
	}
	result.Catalog = report

	state, report, err := codec.ReadQueue(queueR)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to decode queue: %w", err)
	}
	result.Queue = report

	l.catalogMu.Lock()
	l.queueMu.Lock()
	l.catalog.ReplaceAll(songs)
	l.queue.Restore(state)
	l.queueMu.Unlock()
	l.catalogMu.Unlock()

	l.logSkipped("catalog snapshot", result.Catalog)
	l.logSkipped("queue snapshot", result.Queue)
	return result, l.changed()
}

func (l *Library) changed() error {
	l.MarkDirty()
	if _, err := l.Autosave(); err != nil {
		return fmt.Errorf("autosave failed: %w", err)
	}
	return nil
}

func (l *Library) logSkipped(source string, report codec.Report) {
	for _, le := range report.Skipped {
		l.log.Warn("skipped unreadable line", "source", source, "line", le.Line, "err", le.Err)
	}
}
