package store

import "github.com/mhaugen/flowforge/pkg/graph"

// DefaultHistoryCap bounds the number of undo snapshots.
const DefaultHistoryCap = 50

// history is a bounded buffer of immutable document snapshots with an
// explicit cursor. snapshots[cursor] is always the current state, entries
// before it are the undo chain, entries after it the redo chain. Pushing
// discards the redo chain; exceeding the cap discards the oldest snapshot.
type history struct {
	snapshots []*graph.Document
	cursor    int
	cap       int
}

func newHistory(capacity int, initial *graph.Document) *history {
	if capacity < 2 {
		capacity = 2
	}
	return &history{
		snapshots: []*graph.Document{initial.Clone()},
		cursor:    0,
		cap:       capacity,
	}
}

// push records a new committed state.
func (h *history) push(doc *graph.Document) {
	h.snapshots = append(h.snapshots[:h.cursor+1], doc.Clone())
	if len(h.snapshots) > h.cap {
		h.snapshots = h.snapshots[1:]
	}
	h.cursor = len(h.snapshots) - 1
}

// undo steps the cursor back and returns a copy of that snapshot.
func (h *history) undo() (*graph.Document, bool) {
	if h.cursor == 0 {
		return nil, false
	}
	h.cursor--
	return h.snapshots[h.cursor].Clone(), true
}

// redo steps the cursor forward and returns a copy of that snapshot.
func (h *history) redo() (*graph.Document, bool) {
	if h.cursor >= len(h.snapshots)-1 {
		return nil, false
	}
	h.cursor++
	return h.snapshots[h.cursor].Clone(), true
}

// depth returns the number of undo steps available.
func (h *history) depth() int { return h.cursor }
