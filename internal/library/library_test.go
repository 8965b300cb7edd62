package library

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/songq/internal/catalog"
	"github.com/desertthunder/songq/internal/models"
	"github.com/desertthunder/songq/internal/queue"
	"github.com/desertthunder/songq/internal/shared"
	tu "github.com/desertthunder/songq/internal/testing"
)

func newTestLibrary(t *testing.T, dir string, autosave bool, interval time.Duration) (*Library, *bytes.Buffer) {
	t.Helper()

	var logs bytes.Buffer
	lib, err := New(Options{
		CatalogPath:      filepath.Join(dir, "musiclist_data.txt"),
		QueuePath:        filepath.Join(dir, "musicqueue_data.txt"),
		Autosave:         autosave,
		AutosaveInterval: interval,
		Logger:           shared.NewLogger(&logs),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return lib, &logs
}

func TestNew(t *testing.T) {
	if _, err := New(Options{CatalogPath: "a.txt"}); !errors.Is(err, shared.ErrMissingConfig) {
		t.Errorf("New() without queue path error = %v", err)
	}

	cfg := shared.DefaultConfig()
	cfg.Storage.CatalogPath = filepath.Join(t.TempDir(), "c.txt")
	lib, err := FromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	if lib.opts.QueuePath != "musicqueue_data.txt" {
		t.Errorf("queue path = %s", lib.opts.QueuePath)
	}
}

func TestLoadMissingFiles(t *testing.T) {
	lib, _ := newTestLibrary(t, t.TempDir(), false, 0)

	result, err := lib.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Catalog.Loaded != 0 || result.Queue.Loaded != 0 {
		t.Errorf("unexpected result: %+v", result)
	}

	lib.ReadCatalog(func(c *catalog.Catalog) {
		if !c.IsEmpty() {
			t.Error("catalog should be empty")
		}
	})
	lib.ReadQueue(func(q *queue.Queue) {
		if !q.IsEmpty() || q.Counter() != 0 {
			t.Error("queue should be empty with counter 0")
		}
	})
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	lib, _ := newTestLibrary(t, dir, false, 0)

	err := lib.UpdateCatalog(func(c *catalog.Catalog) error {
		c.Append(tu.Song("One", "A", "Spotify"))
		c.Append(tu.Song("Two", "B", "YouTube"))
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateCatalog() error = %v", err)
	}

	err = lib.UpdateQueue(func(q *queue.Queue) error {
		q.Enqueue(tu.Song("Two", "B", "YouTube"), false)
		q.Enqueue(tu.Song("One", "A", "Spotify"), true)
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateQueue() error = %v", err)
	}

	if !lib.Dirty() {
		t.Error("library should be dirty after updates")
	}

	if err := lib.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if lib.Dirty() {
		t.Error("library should be clean after save")
	}

	queueFile := tu.MustReadFile(t, filepath.Join(dir, "musicqueue_data.txt"))
	if !strings.HasPrefix(queueFile, "SEQUENCE:2\n") {
		t.Errorf("queue file = %q", queueFile)
	}

	reloaded, _ := newTestLibrary(t, dir, false, 0)
	result, err := reloaded.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Catalog.Loaded != 2 || result.Queue.Loaded != 2 || result.Skipped() != 0 {
		t.Errorf("unexpected result: %+v", result)
	}

	reloaded.ReadQueue(func(q *queue.Queue) {
		if got := strings.Join(tu.Titles(q.AllSongsInOrder()), ","); got != "One,Two" {
			t.Errorf("queue order = %s", got)
		}
		if q.Counter() != 2 {
			t.Errorf("counter = %d", q.Counter())
		}
	})
}

func TestLoadSkipsBadLines(t *testing.T) {
	dir := t.TempDir()
	tu.MustWriteFile(t, dir, "musiclist_data.txt", "Good|A|P|L|2020-01-01|2020-01-02\nbroken line\n")
	tu.MustWriteFile(t, dir, "musicqueue_data.txt", "SEQUENCE:1\nQ|A|P|L|2020-01-01|nope|true|0\n")

	lib, logs := newTestLibrary(t, dir, false, 0)
	result, err := lib.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Skipped() != 2 {
		t.Errorf("Skipped() = %d, want 2", result.Skipped())
	}
	if !strings.Contains(logs.String(), "skipped unreadable line") {
		t.Errorf("expected a warning in logs, got %s", logs.String())
	}

	lib.ReadCatalog(func(c *catalog.Catalog) {
		if c.Size() != 1 {
			t.Errorf("catalog size = %d", c.Size())
		}
	})
}

func TestLoadFailureKeepsState(t *testing.T) {
	dir := t.TempDir()
	lib, _ := newTestLibrary(t, dir, false, 0)
	lib.UpdateCatalog(func(c *catalog.Catalog) error {
		c.Append(tu.Song("Keep", "x", "p"))
		return nil
	})

	// A directory where the catalog file should be makes the read fail.
	if err := os.Mkdir(lib.opts.CatalogPath, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if _, err := lib.Load(); err == nil {
		t.Fatal("expected load error")
	}
	lib.ReadCatalog(func(c *catalog.Catalog) {
		if c.Size() != 1 {
			t.Errorf("catalog changed after failed load: size %d", c.Size())
		}
	})
}

func TestSaveFailure(t *testing.T) {
	dir := t.TempDir()
	lib, logs := newTestLibrary(t, dir, false, 0)
	lib.MarkDirty()

	if err := os.Mkdir(lib.opts.QueuePath, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := lib.Save(); err == nil {
		t.Fatal("expected save error")
	}
	if !lib.Dirty() {
		t.Error("failed save should leave the library dirty")
	}
	if !strings.Contains(logs.String(), "failed to save queue") {
		t.Errorf("expected error log, got %s", logs.String())
	}
}

func TestUpdateErrorDoesNotMarkDirty(t *testing.T) {
	lib, _ := newTestLibrary(t, t.TempDir(), false, 0)

	err := lib.UpdateCatalog(func(c *catalog.Catalog) error {
		return c.InsertAt(3, tu.Song("x", "y", "z"))
	})
	if !errors.Is(err, shared.ErrIndexOutOfRange) {
		t.Errorf("UpdateCatalog() error = %v", err)
	}
	if lib.Dirty() {
		t.Error("failed update marked the library dirty")
	}
}

func TestAutosave(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		lib, _ := newTestLibrary(t, t.TempDir(), false, 0)
		lib.MarkDirty()
		if saved, err := lib.Autosave(); saved || err != nil {
			t.Errorf("Autosave() = %v, %v", saved, err)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		dir := t.TempDir()
		lib, _ := newTestLibrary(t, dir, true, time.Hour)

		lib.UpdateCatalog(func(c *catalog.Catalog) error {
			c.Append(tu.Song("first", "x", "p"))
			return nil
		})
		tu.AssertFileExists(t, lib.opts.CatalogPath)
		if lib.Dirty() {
			t.Error("first update should autosave")
		}

		lib.UpdateCatalog(func(c *catalog.Catalog) error {
			c.Append(tu.Song("second", "x", "p"))
			return nil
		})
		if !lib.Dirty() {
			t.Error("second update inside the interval should not autosave")
		}
		if strings.Contains(tu.MustReadFile(t, lib.opts.CatalogPath), "second") {
			t.Error("second update reached disk early")
		}

		if err := lib.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if !strings.Contains(tu.MustReadFile(t, lib.opts.CatalogPath), "second") {
			t.Error("Close() should flush pending changes")
		}
	})
}

func TestCloseClean(t *testing.T) {
	lib, _ := newTestLibrary(t, t.TempDir(), false, 0)
	if err := lib.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	tu.AssertNoFile(t, lib.opts.CatalogPath)
}

func TestEncodeDecode(t *testing.T) {
	src, _ := newTestLibrary(t, t.TempDir(), false, 0)
	src.UpdateCatalog(func(c *catalog.Catalog) error {
		c.Append(tu.Song("One", "A", "Spotify"))
		return nil
	})
	src.UpdateQueue(func(q *queue.Queue) error {
		q.Enqueue(tu.Song("One", "A", "Spotify"), true)
		return nil
	})

	catalogData, queueData, err := src.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	dst, _ := newTestLibrary(t, t.TempDir(), false, 0)
	result, err := dst.Decode(catalogData, queueData)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if result.Catalog.Loaded != 1 || result.Queue.Loaded != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
	if !dst.Dirty() {
		t.Error("Decode() should mark the library dirty")
	}

	dst.ReadQueue(func(q *queue.Queue) {
		s, ok := q.Peek()
		if !ok || s.Priority != models.PriorityHigh || q.Counter() != 1 {
			t.Errorf("decoded queue head = %+v, counter %d", s, q.Counter())
		}
	})
}

func TestDecodeFailureKeepsState(t *testing.T) {
	lib, _ := newTestLibrary(t, t.TempDir(), false, 0)
	lib.UpdateCatalog(func(c *catalog.Catalog) error {
		c.Append(tu.Song("Old", "A", "Spotify"))
		return nil
	})
	lib.UpdateQueue(func(q *queue.Queue) error {
		q.Enqueue(tu.Song("Old", "A", "Spotify"), false)
		return nil
	})
	lib.Save()

	snapshot := "New One|B|YouTube|L|2020-01-01|2020-01-02\nNew Two|C|YouTube|L|2020-01-01|2020-01-02\n"
	if _, err := lib.decode(strings.NewReader(snapshot), &tu.FReader{}); err == nil {
		t.Fatal("expected decode error")
	}

	lib.ReadCatalog(func(c *catalog.Catalog) {
		if titles := tu.Titles(c.Snapshot()); strings.Join(titles, ",") != "Old" {
			t.Errorf("catalog changed after failed decode: %v", titles)
		}
	})
	lib.ReadQueue(func(q *queue.Queue) {
		if q.Size() != 1 || q.Counter() != 1 {
			t.Errorf("queue changed after failed decode: size %d counter %d", q.Size(), q.Counter())
		}
	})
	if lib.Dirty() {
		t.Error("failed decode should not mark the library dirty")
	}

	t.Run("oversized queue line is skipped", func(t *testing.T) {
		queueData := "SEQUENCE:0\n" + strings.Repeat("z", 2*1024*1024) + "\n"
		result, err := lib.Decode(snapshot, queueData)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if result.Catalog.Loaded != 2 || result.Skipped() != 1 {
			t.Errorf("unexpected result: loaded %d skipped %d", result.Catalog.Loaded, result.Skipped())
		}
		lib.ReadQueue(func(q *queue.Queue) {
			if !q.IsEmpty() {
				t.Errorf("queue should be replaced by the empty snapshot queue, size %d", q.Size())
			}
		})
	})
}

func TestConcurrentUpdates(t *testing.T) {
	lib, _ := newTestLibrary(t, t.TempDir(), false, 0)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lib.UpdateQueue(func(q *queue.Queue) error {
				q.Enqueue(tu.Song("s", "x", "p"), i%2 == 0)
				return nil
			})
		}()
	}
	wg.Wait()

	lib.ReadQueue(func(q *queue.Queue) {
		if q.Size() != 20 || q.Counter() != 20 {
			t.Errorf("size %d counter %d, want 20/20", q.Size(), q.Counter())
		}
	})
}
