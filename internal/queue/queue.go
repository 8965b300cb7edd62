// Package queue implements the priority play queue.
//
// Entries rank by priority flag first (high before normal or unset) and then by ascending sequence,
// so songs within a tier play in the order they were enqueued. The sequence counter restarts at zero
// whenever a dequeue leaves the queue empty.
package queue

import (
	"cmp"
	"container/heap"
	"io"
	"slices"

	"github.com/desertthunder/songq/internal/codec"
	"github.com/desertthunder/songq/internal/models"
)

// Compare orders two queued songs by rank. It returns a negative number when a plays before b.
func Compare(a, b models.Song) int {
	if a.Priority.IsHigh() != b.Priority.IsHigh() {
		if a.Priority.IsHigh() {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.Sequence, b.Sequence)
}

// Before reports whether a ranks ahead of b.
func Before(a, b models.Song) bool {
	return Compare(a, b) < 0
}

// Queue is a priority play queue. It is not safe for concurrent use.
type Queue struct {
	h       songHeap
	counter uint64
	ordinal uint64
}

// New returns an empty queue with its counter at zero.
func New() *Queue {
	return &Queue{}
}

// Enqueue adds a copy of song stamped with the priority flag and the next sequence value.
// The caller's song is never modified.
func (q *Queue) Enqueue(song models.Song, priority bool) models.Song {
	queued := song.Clone()
	queued.Priority = models.PriorityOf(priority)
	queued.Sequence = q.counter
	q.counter++
	q.push(queued)
	return queued
}

// Dequeue removes and returns the highest-ranked song. ok is false when the queue is empty.
func (q *Queue) Dequeue() (song models.Song, ok bool) {
	if q.h.Len() == 0 {
		return models.Song{}, false
	}
	e := heap.Pop(&q.h).(entry)
	if q.h.Len() == 0 {
		q.counter = 0
		q.ordinal = 0
	}
	return e.song, true
}

// Peek returns the highest-ranked song without removing it. ok is false when the queue is empty.
func (q *Queue) Peek() (song models.Song, ok bool) {
	if q.h.Len() == 0 {
		return models.Song{}, false
	}
	return q.h[0].song, true
}

func (q *Queue) IsEmpty() bool {
	return q.h.Len() == 0
}

func (q *Queue) Size() int {
	return q.h.Len()
}

// Clear drops every entry and resets the counter.
func (q *Queue) Clear() {
	q.Restore(codec.QueueState{})
}

// Counter returns the sequence value the next Enqueue will stamp.
func (q *Queue) Counter() uint64 {
	return q.counter
}

// AllSongsInOrder returns every queued song in rank order without changing the queue.
//
// Heap storage is not in rank order, so this drains a private copy of the heap.
func (q *Queue) AllSongsInOrder() []models.Song {
	drain := slices.Clone(q.h)
	songs := make([]models.Song, 0, len(drain))
	for drain.Len() > 0 {
		songs = append(songs, heap.Pop(&drain).(entry).song)
	}
	return songs
}

// State captures the counter and the entries in rank order.
func (q *Queue) State() codec.QueueState {
	return codec.QueueState{Counter: q.counter, Entries: q.AllSongsInOrder()}
}

// Restore replaces the queue with state. The counter is set first and entries keep their persisted
// priority and sequence; restoring does not advance the counter.
func (q *Queue) Restore(state codec.QueueState) {
	q.h = nil
	q.ordinal = 0
	q.counter = state.Counter
	for _, s := range state.Entries {
		q.push(s.Clone())
	}
}

// SaveState writes the queue in save-file format.
func (q *Queue) SaveState(w io.Writer) error {
	return codec.WriteQueue(w, q.State())
}

// LoadState replaces the queue with the state decoded from r.
//
// Malformed lines are skipped and listed in the returned report. When r fails the queue is left unchanged.
func (q *Queue) LoadState(r io.Reader) (codec.Report, error) {
	state, report, err := codec.ReadQueue(r)
	if err != nil {
		return report, err
	}
	q.Restore(state)
	return report, nil
}

func (q *Queue) push(song models.Song) {
	heap.Push(&q.h, entry{song: song, ordinal: q.ordinal})
	q.ordinal++
}
