// Package history implements snapshot-based undo/redo for canvas documents.
//
// A checkpoint captures the document state immediately before a change; the
// drag controller pushes one on the first confirmed movement of a gesture,
// so every drag that changed geometry is exactly one undo step. Undo and
// redo exchange snapshots with the caller's current state, keeping the two
// stacks consistent without the stack ever reaching into the document.
package history

// DefaultLimit is the default maximum undo depth. When the limit is
// exceeded the oldest checkpoint is dropped.
const DefaultLimit = 100

// Stack is a bounded undo/redo stack of document snapshots. Snapshots must
// be self-contained values; the stack never mutates them. Not safe for
// concurrent use, matching the single-threaded canvas engine.
type Stack[T any] struct {
	undo  []T
	redo  []T
	limit int
}

// New creates a stack with the given depth limit; zero or negative means
// DefaultLimit.
func New[T any](limit int) *Stack[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack[T]{limit: limit}
}

// Checkpoint records a snapshot taken before a change. Any redo states are
// invalidated, and the oldest checkpoint is dropped once the depth limit is
// reached.
func (s *Stack[T]) Checkpoint(snapshot T) {
	s.undo = append(s.undo, snapshot)
	if len(s.undo) > s.limit {
		s.undo = s.undo[1:]
	}
	s.redo = s.redo[:0]
}

// Undo pops the most recent checkpoint, pushing current onto the redo stack.
// Returns the snapshot to restore and true, or the zero value and false when
// there is nothing to undo.
func (s *Stack[T]) Undo(current T) (T, bool) {
	if len(s.undo) == 0 {
		var zero T
		return zero, false
	}
	last := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, current)
	return last, true
}

// Redo pops the most recent undone state, pushing current back onto the
// undo stack. Returns the snapshot to restore and true, or the zero value
// and false when there is nothing to redo.
func (s *Stack[T]) Redo(current T) (T, bool) {
	if len(s.redo) == 0 {
		var zero T
		return zero, false
	}
	last := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, current)
	return last, true
}

// CanUndo reports whether an undo step is available.
func (s *Stack[T]) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether a redo step is available.
func (s *Stack[T]) CanRedo() bool { return len(s.redo) > 0 }

// Depth returns the number of undo steps currently recorded.
func (s *Stack[T]) Depth() int { return len(s.undo) }

// Clear drops all recorded history.
func (s *Stack[T]) Clear() {
	s.undo = s.undo[:0]
	s.redo = s.redo[:0]
}
