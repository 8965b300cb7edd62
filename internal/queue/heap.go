package queue

import "github.com/desertthunder/songq/internal/models"

// entry is a queued song plus an insertion ordinal. Songs restored from disk may share a sequence
// value, so the ordinal keeps the ranking total.
type entry struct {
	song    models.Song
	ordinal uint64
}

// songHeap implements [container/heap.Interface] ordered by [Compare].
type songHeap []entry

func (h songHeap) Len() int { return len(h) }

func (h songHeap) Less(i, j int) bool {
	if c := Compare(h[i].song, h[j].song); c != 0 {
		return c < 0
	}
	return h[i].ordinal < h[j].ordinal
}

func (h songHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

// Push appends x to the heap. Called by [container/heap.Push]; callers must
// not invoke this directly.
func (h *songHeap) Push(x any) {
	*h = append(*h, x.(entry))
}

// Pop removes and returns the last element. Called by [container/heap.Pop];
// callers must not invoke this directly.
func (h *songHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = entry{}
	*h = old[:n-1]
	return e
}
