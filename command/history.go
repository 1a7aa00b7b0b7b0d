package command

import (
	"errors"
	"sync"

	"github.com/fluxrt/fluxrt/graph"
)

// Sentinel errors for History navigation.
var (
	// ErrNothingToUndo indicates the history is already at its start.
	ErrNothingToUndo = errors.New("command: nothing to undo")
	// ErrNothingToRedo indicates the history is already at its end.
	ErrNothingToRedo = errors.New("command: nothing to redo")
)

// HistoryOption configures a History at construction, a functional
// option.
type HistoryOption func(h *History)

// WithMaxSize bounds the history to at most n entries; once exceeded,
// the oldest entry is dropped on the next Do. n <= 0 means unbounded
// (the default).
func WithMaxSize(n int) HistoryOption {
	return func(h *History) { h.maxSize = n }
}

// WithCoalescing enables folding consecutive SetInputDefault commands
// on the same (node, input) into a single history entry — modeling a
// UI "drag" gesture as one undo step instead of one per intermediate
// value. Off by default, so a freshly constructed History records one
// entry per mutation.
func WithCoalescing() HistoryOption {
	return func(h *History) { h.coalesce = true }
}

// History is a linear undo/redo stack with a current position: Do
// truncates any redo-able future and appends; Undo/Redo move position
// by one and replay the corresponding Undo/Execute. A "saved position"
// bookmark (see MarkSaved) lets a host ask IsDirty without maintaining
// its own dirty bit.
type History struct {
	mu sync.Mutex

	entries []Command
	pos     int

	savedPos   int
	savedValid bool

	maxSize  int
	coalesce bool
}

// NewHistory returns an empty History configured by opts.
func NewHistory(opts ...HistoryOption) *History {
	h := &History{savedValid: true}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Do executes cmd against g and, on success, records it as the new
// head of history, discarding any undone-but-not-yet-overwritten
// future entries. If WithCoalescing is set and cmd is a
// *SetInputDefault targeting the same (node, input) as the current
// head entry, the two coalesce into one entry whose Undo still
// restores the value from before the first of the pair.
func (h *History) Do(g *graph.Graph, cmd Command) error {
	if err := cmd.Execute(g); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.coalesce && h.coalesceWithHead(cmd) {
		h.entries = h.entries[:h.pos]
		return nil
	}

	h.entries = h.entries[:h.pos]
	h.entries = append(h.entries, cmd)
	h.pos++

	if h.maxSize > 0 && len(h.entries) > h.maxSize {
		drop := len(h.entries) - h.maxSize
		h.entries = h.entries[drop:]
		h.pos -= drop
		if h.savedValid {
			h.savedPos -= drop
			if h.savedPos < 0 {
				h.savedValid = false
			}
		}
	}
	return nil
}

// coalesceWithHead reports whether cmd was folded into the entry just
// before the current position, and performs that fold if so. Caller
// must hold h.mu.
func (h *History) coalesceWithHead(cmd Command) bool {
	next, ok := cmd.(*SetInputDefault)
	if !ok || h.pos == 0 {
		return false
	}
	head, ok := h.entries[h.pos-1].(*SetInputDefault)
	if !ok {
		return false
	}
	if head.Target.Resolve() != next.Target.Resolve() || head.Input != next.Input {
		return false
	}
	// Keep head's original prevValue (the state before the gesture
	// began) but adopt next's executed state as the coalesced entry's
	// "redo" value.
	head.Value = next.Value
	head.executed = true
	return true
}

// Undo reverts the most recently done command and moves position back
// by one. It returns ErrNothingToUndo if position is already at 0.
func (h *History) Undo(g *graph.Graph) error {
	h.mu.Lock()
	if h.pos == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	cmd := h.entries[h.pos-1]
	h.mu.Unlock()

	if err := cmd.Undo(g); err != nil {
		return err
	}

	h.mu.Lock()
	h.pos--
	h.mu.Unlock()
	return nil
}

// Redo re-executes the command most recently undone and moves position
// forward by one. It returns ErrNothingToRedo if position is already
// at the end.
func (h *History) Redo(g *graph.Graph) error {
	h.mu.Lock()
	if h.pos == len(h.entries) {
		h.mu.Unlock()
		return ErrNothingToRedo
	}
	cmd := h.entries[h.pos]
	h.mu.Unlock()

	if err := cmd.Execute(g); err != nil {
		return err
	}

	h.mu.Lock()
	h.pos++
	h.mu.Unlock()
	return nil
}

// MarkSaved records the current position as "saved"; IsDirty reports
// false until the next Do/Undo/Redo moves position away from it.
func (h *History) MarkSaved() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.savedPos = h.pos
	h.savedValid = true
}

// IsDirty reports whether the current position differs from the last
// MarkSaved position (or, if MarkSaved has never been called, from the
// initial empty position).
func (h *History) IsDirty() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.savedValid {
		return true
	}
	return h.pos != h.savedPos
}

// Len reports how many entries are currently recorded (done + undone).
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Position reports the current index into the history (equal to the
// number of commands currently "done").
func (h *History) Position() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos
}
