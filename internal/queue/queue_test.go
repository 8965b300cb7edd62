package queue

import (
	"bytes"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/desertthunder/songq/internal/codec"
	"github.com/desertthunder/songq/internal/models"
	tu "github.com/desertthunder/songq/internal/testing"
)

func drain(q *Queue) []models.Song {
	var out []models.Song
	for {
		s, ok := q.Dequeue()
		if !ok {
			return out
		}
		out = append(out, s)
	}
}

func TestCompare(t *testing.T) {
	high := models.Song{Priority: models.PriorityHigh, Sequence: 9}
	normal := models.Song{Priority: models.PriorityNormal, Sequence: 0}
	unset := models.Song{Priority: models.PriorityUnset, Sequence: 1}

	tc := []struct {
		name string
		a, b models.Song
		want int
	}{
		{name: "high before normal regardless of sequence", a: high, b: normal, want: -1},
		{name: "normal after high", a: normal, b: high, want: 1},
		{name: "unset ranks with normal", a: normal, b: unset, want: -1},
		{name: "lower sequence first", a: models.Song{Priority: models.PriorityHigh, Sequence: 1}, b: high, want: -1},
		{name: "equal", a: high, b: high, want: 0},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
			if got := Before(tt.a, tt.b); got != (tt.want < 0) {
				t.Errorf("Before() = %v", got)
			}
		})
	}
}

func TestQueuePriorityOrdering(t *testing.T) {
	t.Run("fixed interleaving", func(t *testing.T) {
		q := New()
		q.Enqueue(tu.Song("n1", "x", "p"), false)
		q.Enqueue(tu.Song("h1", "x", "p"), true)
		q.Enqueue(tu.Song("n2", "x", "p"), false)
		q.Enqueue(tu.Song("h2", "x", "p"), true)
		q.Enqueue(tu.Song("n3", "x", "p"), false)

		if got := strings.Join(tu.Titles(drain(q)), ","); got != "h1,h2,n1,n2,n3" {
			t.Errorf("dequeue order = %s", got)
		}
	})

	t.Run("random interleavings", func(t *testing.T) {
		r := rand.New(rand.NewPCG(1, 2))
		for round := range 50 {
			q := New()
			var highs, normals []string
			for i := range 30 {
				title := string(rune('a'+round%26)) + string(rune('A'+i%26)) + strings.Repeat("!", i/26)
				if r.IntN(2) == 0 {
					highs = append(highs, title)
					q.Enqueue(tu.Song(title, "x", "p"), true)
				} else {
					normals = append(normals, title)
					q.Enqueue(tu.Song(title, "x", "p"), false)
				}
			}

			want := append(slices.Clone(highs), normals...)
			if got := tu.Titles(drain(q)); !slices.Equal(got, want) {
				t.Fatalf("round %d: got %v, want %v", round, got, want)
			}
		}
	})
}

func TestQueueSequence(t *testing.T) {
	t.Run("post-increment stamping", func(t *testing.T) {
		q := New()
		a := q.Enqueue(tu.Song("A", "x", "p"), false)
		b := q.Enqueue(tu.Song("B", "x", "p"), true)

		if a.Sequence != 0 || b.Sequence != 1 || q.Counter() != 2 {
			t.Errorf("sequences = %d, %d, counter = %d", a.Sequence, b.Sequence, q.Counter())
		}
		if a.Priority != models.PriorityNormal || b.Priority != models.PriorityHigh {
			t.Errorf("priorities = %v, %v", a.Priority, b.Priority)
		}
	})

	t.Run("reset after draining", func(t *testing.T) {
		q := New()
		q.Enqueue(tu.Song("A", "x", "p"), false)
		first, _ := q.Peek()

		if _, ok := q.Dequeue(); !ok {
			t.Fatal("Dequeue() on non-empty queue returned !ok")
		}
		if q.Counter() != 0 {
			t.Errorf("counter = %d after draining, want 0", q.Counter())
		}

		q.Enqueue(tu.Song("B", "x", "p"), false)
		second, _ := q.Peek()
		if second.Sequence != first.Sequence {
			t.Errorf("B sequence = %d, want %d", second.Sequence, first.Sequence)
		}
	})

	t.Run("no reset while entries remain", func(t *testing.T) {
		q := New()
		q.Enqueue(tu.Song("A", "x", "p"), false)
		q.Enqueue(tu.Song("B", "x", "p"), false)
		q.Dequeue()

		c := q.Enqueue(tu.Song("C", "x", "p"), false)
		if c.Sequence != 2 {
			t.Errorf("C sequence = %d, want 2", c.Sequence)
		}
	})

	t.Run("empty dequeue does not reset", func(t *testing.T) {
		q := New()
		q.Restore(codec.QueueState{Counter: 5})

		if _, ok := q.Dequeue(); ok {
			t.Fatal("Dequeue() on empty queue returned ok")
		}
		if q.Counter() != 5 {
			t.Errorf("counter = %d, want 5", q.Counter())
		}
	})
}

func TestQueueCopyIsolation(t *testing.T) {
	q := New()
	song := tu.Song("Original", "x", "p")
	q.Enqueue(song, true)

	song.Title = "Mutated"
	song.Priority = models.PriorityNormal
	song.Sequence = 99

	got, _ := q.Peek()
	if got.Title != "Original" || got.Priority != models.PriorityHigh || got.Sequence != 0 {
		t.Errorf("queued copy changed: %+v", got)
	}

	if song.Title != "Mutated" {
		t.Error("Enqueue modified the caller's song")
	}
}

func TestQueueEmpty(t *testing.T) {
	q := New()
	if !q.IsEmpty() || q.Size() != 0 {
		t.Error("new queue should be empty")
	}
	if _, ok := q.Peek(); ok {
		t.Error("Peek() on empty queue returned ok")
	}
	if _, ok := q.Dequeue(); ok {
		t.Error("Dequeue() on empty queue returned ok")
	}
	if songs := q.AllSongsInOrder(); len(songs) != 0 {
		t.Errorf("AllSongsInOrder() = %v", songs)
	}

	t.Run("Clear", func(t *testing.T) {
		q := New()
		q.Enqueue(tu.Song("a", "x", "p"), true)
		q.Enqueue(tu.Song("b", "x", "p"), false)
		q.Clear()

		if !q.IsEmpty() || q.Counter() != 0 {
			t.Errorf("after Clear size = %d, counter = %d", q.Size(), q.Counter())
		}
		if s := q.Enqueue(tu.Song("c", "x", "p"), false); s.Sequence != 0 {
			t.Errorf("sequence after Clear = %d, want 0", s.Sequence)
		}
	})
}

func TestQueueAllSongsInOrder(t *testing.T) {
	q := New()
	for _, title := range []string{"n1", "h1", "n2", "h2", "h3", "n3"} {
		q.Enqueue(tu.Song(title, "x", "p"), title[0] == 'h')
	}

	first := q.AllSongsInOrder()
	if got := strings.Join(tu.Titles(first), ","); got != "h1,h2,h3,n1,n2,n3" {
		t.Errorf("order = %s", got)
	}
	if q.Size() != 6 {
		t.Errorf("AllSongsInOrder() changed size to %d", q.Size())
	}

	second := q.AllSongsInOrder()
	if !slices.EqualFunc(first, second, models.Song.Equal) {
		t.Error("repeated calls should return the same order")
	}

	peek, _ := q.Peek()
	if peek.Title != "h1" {
		t.Errorf("Peek() = %s, want h1", peek.Title)
	}
}

func TestQueuePersistence(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		q := New()
		q.Enqueue(tu.Song("normal", "x", "p"), false)
		q.Enqueue(tu.Song("first", "x", "p"), true)
		q.Enqueue(tu.Song("second", "x", "p"), true)

		before := q.AllSongsInOrder()

		var buf bytes.Buffer
		if err := q.SaveState(&buf); err != nil {
			t.Fatalf("SaveState() error = %v", err)
		}

		restored := New()
		report, err := restored.LoadState(&buf)
		if err != nil {
			t.Fatalf("LoadState() error = %v", err)
		}
		if !report.OK() || report.Loaded != 3 {
			t.Errorf("unexpected report: %+v", report)
		}

		after := restored.AllSongsInOrder()
		if !slices.EqualFunc(before, after, models.Song.Equal) {
			t.Errorf("before %v, after %v", tu.Titles(before), tu.Titles(after))
		}
		if restored.Counter() != q.Counter() {
			t.Errorf("counter = %d, want %d", restored.Counter(), q.Counter())
		}
	})

	t.Run("restored counter continues", func(t *testing.T) {
		input := "SEQUENCE:7\nA|x|p|l|||false|5\nB|x|p|l|||true|6\n"
		q := New()
		if _, err := q.LoadState(strings.NewReader(input)); err != nil {
			t.Fatalf("LoadState() error = %v", err)
		}
		if q.Counter() != 7 {
			t.Errorf("counter = %d, want 7", q.Counter())
		}

		c := q.Enqueue(tu.Song("C", "x", "p"), false)
		if c.Sequence != 7 {
			t.Errorf("C sequence = %d, want 7", c.Sequence)
		}
		if got := strings.Join(tu.Titles(q.AllSongsInOrder()), ","); got != "B,A,C" {
			t.Errorf("order = %s", got)
		}
	})

	t.Run("duplicate sequences keep file order", func(t *testing.T) {
		input := "SEQUENCE:0\nA|x|p|l||||\nB|x|p|l||||\nC|x|p|l||||\n"
		q := New()
		if _, err := q.LoadState(strings.NewReader(input)); err != nil {
			t.Fatalf("LoadState() error = %v", err)
		}
		if got := strings.Join(tu.Titles(q.AllSongsInOrder()), ","); got != "A,B,C" {
			t.Errorf("order = %s", got)
		}
	})

	t.Run("failed load keeps queue", func(t *testing.T) {
		q := New()
		q.Enqueue(tu.Song("keep", "x", "p"), false)
		if _, err := q.LoadState(&tu.FReader{}); err == nil {
			t.Fatal("expected read error")
		}
		if q.Size() != 1 || q.Counter() != 1 {
			t.Errorf("failed load changed queue: size %d counter %d", q.Size(), q.Counter())
		}
	})
}
