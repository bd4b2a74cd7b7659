package designer

import (
	"github.com/tordrt/dbcanvas/internal/reorder"
	"github.com/tordrt/dbcanvas/internal/schema"
)

// engine returns the drag engine of a node, creating it on first use
func (d *Designer) engine(nodeID string) *reorder.Engine {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.engines[nodeID]
	if !ok {
		var g reorder.Geometry
		if d.geometry != nil {
			g = d.geometry(nodeID)
		}
		e = reorder.NewEngine(g)
		d.engines[nodeID] = e
	}
	return e
}

// DragStart begins dragging a column within its table
func (d *Designer) DragStart(nodeID string, columnID int64) {
	d.engine(nodeID).DragStart(columnID)
}

// DragOver reports the pointer over a column row
func (d *Designer) DragOver(nodeID string, columnID int64, pointerY float64) {
	d.engine(nodeID).DragOver(columnID, pointerY)
}

// DragIndicator returns where the dragged column would land
func (d *Designer) DragIndicator(nodeID string) (reorder.Hover, bool) {
	return d.engine(nodeID).Indicator()
}

// CancelDrag abandons the drag in a table
func (d *Designer) CancelDrag(nodeID string) {
	d.engine(nodeID).Cancel()
}

// Drop completes the drag in a table and reports whether the order changed
func (d *Designer) Drop(nodeID string) bool {
	e := d.engine(nodeID)
	n, ok := d.node(nodeID)
	if !ok {
		e.Cancel()
		return false
	}

	table, changed := e.Drop(n.Data.Table)
	if !changed {
		return false
	}
	return d.updateTable(nodeID, func(schema.Table) schema.Table { return table })
}

// MoveColumn places a column directly above or below another one in the
// same table, without going through a pointer drag.
func (d *Designer) MoveColumn(nodeID string, columnID, targetID int64, pos reorder.Position) bool {
	n, ok := d.node(nodeID)
	if !ok {
		return false
	}
	table, changed := reorder.Move(n.Data.Table, columnID, targetID, pos)
	if !changed {
		return false
	}
	return d.updateTable(nodeID, func(schema.Table) schema.Table { return table })
}
