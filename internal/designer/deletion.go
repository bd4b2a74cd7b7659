package designer

import (
	"github.com/tordrt/dbcanvas/internal/canvas"
	"github.com/tordrt/dbcanvas/internal/logging"
	"github.com/tordrt/dbcanvas/internal/schema"
)

// DeleteTable marks a table for removal and takes it off the canvas, along
// with every connection touching it, once the deletion delay has passed.
// A table already marked, or one that does not exist, is left alone.
func (d *Designer) DeleteTable(nodeID string) bool {
	if _, ok := d.node(nodeID); !ok {
		return false
	}

	d.mu.Lock()
	if d.deleting[nodeID] {
		d.mu.Unlock()
		return false
	}
	d.deleting[nodeID] = true
	epoch := d.epoch
	d.mu.Unlock()

	logging.Log(d.ctx, d.logger, logging.LevelDebug, "table marked for removal",
		logging.Field{Key: "node", Value: nodeID},
		logging.Field{Key: "delay", Value: d.delay},
	)
	d.scheduler.AfterFunc(d.delay, func() { d.finishDelete(nodeID, epoch) })
	return true
}

// IsDeleting reports whether a table is marked for removal
func (d *Designer) IsDeleting(nodeID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deleting[nodeID]
}

func (d *Designer) finishDelete(nodeID string, epoch int) {
	d.mu.Lock()
	if d.epoch != epoch || !d.deleting[nodeID] {
		// the diagram was replaced in the meantime
		d.mu.Unlock()
		return
	}
	delete(d.deleting, nodeID)
	delete(d.engines, nodeID)
	d.mu.Unlock()

	d.removeNodes(map[string]bool{nodeID: true}, nil)
	logging.Log(d.ctx, d.logger, logging.LevelInfo, "deleted table", logging.Field{Key: "node", Value: nodeID})
}

// DeleteSelected immediately removes the selected tables and connections,
// plus any connection touching a removed table. It returns how many tables
// and connections were removed.
func (d *Designer) DeleteSelected() (tables, connections int) {
	diagram := d.Diagram()
	nodes := make(map[string]bool)
	for _, n := range diagram.Nodes {
		if n.Selected {
			nodes[n.ID] = true
		}
	}
	edges := make(map[string]bool)
	for _, e := range diagram.Edges {
		if e.Selected {
			edges[e.ID] = true
		}
	}
	if len(nodes) == 0 && len(edges) == 0 {
		return 0, 0
	}

	d.mu.Lock()
	for id := range nodes {
		delete(d.deleting, id)
		delete(d.engines, id)
	}
	d.mu.Unlock()

	return d.removeNodes(nodes, edges)
}

// removeNodes filters nodes by id and edges by id or by touching a removed node
func (d *Designer) removeNodes(nodeIDs, edgeIDs map[string]bool) (tables, connections int) {
	before := d.Diagram()

	if len(nodeIDs) > 0 {
		d.canvas.SetNodes(func(nodes []schema.Node) []schema.Node {
			out := make([]schema.Node, 0, len(nodes))
			for _, n := range nodes {
				if !nodeIDs[n.ID] {
					out = append(out, n)
				}
			}
			return out
		})
	}

	d.canvas.SetEdges(func(edges []schema.Edge) []schema.Edge {
		out := make([]schema.Edge, 0, len(edges))
		for _, e := range edges {
			if edgeIDs[e.ID] || touchesAny(e, nodeIDs) {
				continue
			}
			out = append(out, e)
		}
		return out
	})
	d.changed()

	after := d.Diagram()
	return len(before.Nodes) - len(after.Nodes), len(before.Edges) - len(after.Edges)
}

func touchesAny(e schema.Edge, nodeIDs map[string]bool) bool {
	for id := range nodeIDs {
		if canvas.Touches(e, id) {
			return true
		}
	}
	return false
}
