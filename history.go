package easel

// history is a bounded, linear undo/redo stack of full-resolution buffer
// snapshots. The engine pushes a snapshot of the target buffer before each
// mutating operation; Undo restores the most recent snapshot and moves the
// displaced state onto the redo stack.
//
// The stack is linear: any new push clears the redo side. Once the bound is
// exceeded the oldest snapshot is dropped outright, never reused, so the
// oldest retained snapshot is the floor Undo can restore to.
type history struct {
	undo    []*Pixmap
	redo    []*Pixmap
	maxSize int
}

func newHistory(maxSize int) *history {
	if maxSize < 1 {
		maxSize = 1
	}
	return &history{maxSize: maxSize}
}

// setMaxSize rebounds the stack, evicting oldest snapshots if needed.
func (h *history) setMaxSize(n int) {
	if n < 1 {
		n = 1
	}
	h.maxSize = n
	if len(h.undo) > n {
		h.undo = append(h.undo[:0], h.undo[len(h.undo)-n:]...)
	}
}

// push records a pre-mutation snapshot and clears the redo stack.
func (h *history) push(snapshot *Pixmap) {
	if len(h.undo) >= h.maxSize {
		copy(h.undo, h.undo[1:])
		h.undo = h.undo[:len(h.undo)-1]
	}
	h.undo = append(h.undo, snapshot)
	h.redo = h.redo[:0]
}

// popUndo exchanges the current state for the most recent snapshot:
// current goes onto the redo stack, and the snapshot to restore is
// returned. Returns nil when the undo stack is exhausted.
func (h *history) popUndo(current *Pixmap) *Pixmap {
	if len(h.undo) == 0 {
		return nil
	}
	s := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return s
}

// popRedo is the inverse of popUndo. Returns nil when there is nothing
// to redo.
func (h *history) popRedo(current *Pixmap) *Pixmap {
	if len(h.redo) == 0 {
		return nil
	}
	s := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return s
}

// clear drops both stacks. Called on target rebinds and canvas resizes.
func (h *history) clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}

func (h *history) canUndo() bool { return len(h.undo) > 0 }
func (h *history) canRedo() bool { return len(h.redo) > 0 }
