// Package history is the bounded, linear undo/redo log.
package history

import (
	"bytes"
	"errors"

	"github.com/C0d3-5t3w/C-textedit/internal/log"
)

const (
	DefaultCapacity   = 100
	DefaultPayloadCap = 1024
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History keeps at most capacity ops. ops[:index] can be undone and
// ops[index:] redone. Recording drops the redo tail; when full the oldest
// op is evicted.
type History struct {
	ops        []Op
	index      int
	capacity   int
	payloadCap int
}

// New returns an empty history. Non-positive arguments use the defaults.
func New(capacity, payloadCap int) *History {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	if payloadCap < 1 {
		payloadCap = DefaultPayloadCap
	}
	return &History{
		ops:        make([]Op, 0, capacity),
		capacity:   capacity,
		payloadCap: payloadCap,
	}
}

// Record appends op. The payload is copied and silently capped.
func (h *History) Record(op Op) {
	if len(op.Data) > h.payloadCap {
		op.Data = op.Data[:h.payloadCap]
	}
	op.Data = bytes.Clone(op.Data)

	h.ops = h.ops[:h.index]
	if len(h.ops) >= h.capacity {
		copy(h.ops, h.ops[1:])
		h.ops = h.ops[:len(h.ops)-1]
	}
	h.ops = append(h.ops, op)
	h.index = len(h.ops)
	log.Debug(log.CatUndo, "record", "kind", op.Kind, "cx", op.Cx, "cy", op.Cy, "len", h.index)
}

// Undo reverses the op before the cursor position in the log.
func (h *History) Undo(t Target) (Op, error) {
	if h.index == 0 {
		return Op{}, ErrNothingToUndo
	}
	h.index--
	op := h.ops[h.index]
	op.invert(t)
	log.Debug(log.CatUndo, "undo", "kind", op.Kind, "index", h.index)
	return op, nil
}

// Redo re-applies the op after the cursor position in the log.
func (h *History) Redo(t Target) (Op, error) {
	if h.index >= len(h.ops) {
		return Op{}, ErrNothingToRedo
	}
	op := h.ops[h.index]
	op.apply(t)
	h.index++
	log.Debug(log.CatUndo, "redo", "kind", op.Kind, "index", h.index)
	return op, nil
}

// CanUndo returns true if there are ops to undo.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo returns true if there are ops to redo.
func (h *History) CanRedo() bool { return h.index < len(h.ops) }

// Len returns the number of ops retained.
func (h *History) Len() int { return len(h.ops) }

// Index returns the number of ops currently applied.
func (h *History) Index() int { return h.index }

// Capacity returns the maximum number of retained ops.
func (h *History) Capacity() int { return h.capacity }

// At returns the i-th retained op, oldest first.
func (h *History) At(i int) Op { return h.ops[i] }

// Clear forgets everything, e.g. after loading a different document.
func (h *History) Clear() {
	h.ops = h.ops[:0]
	h.index = 0
}
