// Package reorder tracks a column drag inside one table and computes the
// resulting column order when the column is dropped.
//
// The engine is a small state machine driven by three events:
//
//	DragStart(sourceID)          Idle -> Dragging
//	DragOver(hoveredID, pointerY) Dragging, updates the insertion indicator
//	Drop(table) / Cancel()       Dragging -> Idle
//
// Row geometry is supplied through a [Geometry] so the engine can be
// exercised without real pointer events.
package reorder

import (
	"github.com/tordrt/dbcanvas/internal/schema"
)

// Position is where the dragged column lands relative to the hovered one
type Position int

const (
	Above Position = iota
	Below
)

func (p Position) String() string {
	if p == Below {
		return "below"
	}
	return "above"
}

// State of the engine
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Geometry reports the vertical extent of a rendered column row
type Geometry interface {
	RowBounds(columnID int64) (top, height float64, ok bool)
}

// GeometryFunc adapts a function to a Geometry
type GeometryFunc func(columnID int64) (top, height float64, ok bool)

// RowBounds implements Geometry
func (f GeometryFunc) RowBounds(columnID int64) (float64, float64, bool) {
	return f(columnID)
}

// Hover is the current insertion indicator
type Hover struct {
	ColumnID int64
	Position Position
}

// Engine tracks one drag at a time. A DragStart while dragging replaces the
// source; there is no queue.
type Engine struct {
	geometry Geometry
	state    State
	source   int64
	hover    *Hover
}

// NewEngine returns an idle engine
func NewEngine(geometry Geometry) *Engine {
	return &Engine{geometry: geometry}
}

// State returns the current state
func (e *Engine) State() State {
	return e.state
}

// Source returns the dragged column id while dragging
func (e *Engine) Source() (int64, bool) {
	return e.source, e.state == Dragging
}

// Indicator returns the hovered row and the side the column would land on
func (e *Engine) Indicator() (Hover, bool) {
	if e.hover == nil {
		return Hover{}, false
	}
	return *e.hover, true
}

// DragStart records the dragged column. Nothing is mutated yet.
func (e *Engine) DragStart(columnID int64) {
	e.state = Dragging
	e.source = columnID
}

// DragOver classifies the pointer against the hovered row's midpoint and
// keeps only the latest classification. Rows with unknown bounds, and hovers
// outside a drag, are ignored.
func (e *Engine) DragOver(columnID int64, pointerY float64) {
	if e.state != Dragging || e.geometry == nil {
		return
	}
	top, height, ok := e.geometry.RowBounds(columnID)
	if !ok {
		return
	}

	pos := Below
	if pointerY < top+height/2 {
		pos = Above
	}
	e.hover = &Hover{ColumnID: columnID, Position: pos}
}

// Drop resolves the drag against t and returns to Idle. The second result
// reports whether the order changed. A drop without a prior DragStart, without
// a hovered row, or onto the dragged column itself is a no-op.
func (e *Engine) Drop(t schema.Table) (schema.Table, bool) {
	defer e.reset()

	if e.state != Dragging || e.hover == nil {
		return t, false
	}
	return Move(t, e.source, e.hover.ColumnID, e.hover.Position)
}

// Cancel abandons the drag, e.g. when the pointer leaves the table
func (e *Engine) Cancel() {
	e.reset()
}

func (e *Engine) reset() {
	e.state = Idle
	e.source = 0
	e.hover = nil
}

// Move relocates the source column next to the target column. The source is
// removed first and the target's index is looked up again afterwards, since
// the removal shifts it when the source sat earlier in the sequence. A move
// that leaves the order as it was reports false.
func Move(t schema.Table, sourceID, targetID int64, pos Position) (schema.Table, bool) {
	if sourceID == targetID {
		return t, false
	}
	from := t.ColumnIndex(sourceID)
	if from < 0 || t.ColumnIndex(targetID) < 0 {
		return t, false
	}

	out := t.Clone()
	moved := out.Columns[from]
	cols := make([]schema.Column, 0, len(out.Columns))
	cols = append(cols, out.Columns[:from]...)
	cols = append(cols, out.Columns[from+1:]...)

	at := -1
	for i, col := range cols {
		if col.ID == targetID {
			at = i
			break
		}
	}
	if pos == Below {
		at++
	}
	if at == from {
		return t, false
	}

	cols = append(cols, schema.Column{})
	copy(cols[at+1:], cols[at:])
	cols[at] = moved
	out.Columns = cols

	return out, true
}
