// Package designer drives the schema editor: it applies table, column and
// connection edits to a canvas, stages table deletions, tracks column drags
// and keeps the autosave slot in step with the canvas.
package designer

import (
	"context"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/tordrt/dbcanvas/internal/canvas"
	"github.com/tordrt/dbcanvas/internal/formatter"
	"github.com/tordrt/dbcanvas/internal/logging"
	"github.com/tordrt/dbcanvas/internal/persist"
	"github.com/tordrt/dbcanvas/internal/reorder"
	"github.com/tordrt/dbcanvas/internal/schema"
)

// Notifier is implemented by canvases that report their own changes, such as
// moves made directly by the rendering engine.
type Notifier interface {
	OnChange(func(schema.Diagram))
}

// Designer methods are meant to be called from a single goroutine. Staged
// deletions complete on the scheduler's goroutine.
type Designer struct {
	ctx       context.Context
	canvas    canvas.Canvas
	saver     *persist.Autosaver
	logger    logging.Logger
	scheduler Scheduler
	delay     time.Duration
	placer    Placer
	geometry  GeometryFunc
	ids       *schema.IDGenerator

	// subscribed is set when autosave follows canvas notifications
	subscribed bool

	mu       sync.Mutex
	deleting map[string]bool
	engines  map[string]*reorder.Engine
	epoch    int
}

// New restores the saved diagram onto c, when an autosaver is configured, and
// starts autosaving. ctx is used for every autosave.
func New(ctx context.Context, c canvas.Canvas, opts ...Option) *Designer {
	d := &Designer{
		ctx:       ctx,
		canvas:    c,
		scheduler: TimerScheduler,
		delay:     DeletionDelay,
		placer:    RandomPlacer,
		ids:       schema.NewIDGenerator(time.Now().UnixMilli()),
		deleting:  make(map[string]bool),
		engines:   make(map[string]*reorder.Engine),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.saver != nil {
		canvas.Load(c, d.saver.Restore(ctx))
		if n, ok := c.(Notifier); ok {
			n.OnChange(d.autosave)
			d.subscribed = true
		}
	}
	d.ids.SeedFrom(canvas.Diagram(c))
	return d
}

// Diagram returns a snapshot of the current diagram
func (d *Designer) Diagram() schema.Diagram {
	return canvas.Diagram(d.canvas)
}

func (d *Designer) autosave(diagram schema.Diagram) {
	if err := d.saver.Save(d.ctx, diagram); err != nil {
		logging.Log(d.ctx, d.logger, logging.LevelError, "autosave failed",
			logging.Field{Key: "error", Value: err},
		)
	}
}

// changed saves after an edit unless the canvas already reported it
func (d *Designer) changed() {
	if d.saver == nil || d.subscribed {
		return
	}
	d.autosave(d.Diagram())
}

func (d *Designer) node(nodeID string) (schema.Node, bool) {
	return d.Diagram().FindNode(nodeID)
}

// updateNode applies fn to one node. It reports false without touching the
// canvas when the node does not exist.
func (d *Designer) updateNode(nodeID string, fn func(schema.Node) schema.Node) bool {
	if _, ok := d.node(nodeID); !ok {
		return false
	}
	d.canvas.SetNodes(func(nodes []schema.Node) []schema.Node {
		out := make([]schema.Node, len(nodes))
		for i, n := range nodes {
			if n.ID == nodeID {
				n = fn(n)
			}
			out[i] = n
		}
		return out
	})
	d.changed()
	return true
}

func (d *Designer) updateTable(nodeID string, fn func(schema.Table) schema.Table) bool {
	return d.updateNode(nodeID, func(n schema.Node) schema.Node {
		n.Data.Table = fn(n.Data.Table)
		return n
	})
}

// AddTable appends an empty table named NewTable and returns its node id
func (d *Designer) AddTable() string {
	id := d.ids.Next()
	nodeID := strconv.FormatInt(id, 10)
	node := schema.Node{
		ID:       nodeID,
		Type:     schema.NodeType,
		Position: d.placer(),
		Data: schema.NodeData{Table: schema.Table{
			ID:      id,
			Name:    "NewTable",
			Columns: []schema.Column{},
		}},
	}

	d.canvas.SetNodes(func(nodes []schema.Node) []schema.Node {
		return append(nodes, node)
	})
	d.changed()
	logging.Log(d.ctx, d.logger, logging.LevelDebug, "added table", logging.Field{Key: "node", Value: nodeID})
	return nodeID
}

// DuplicateSelected copies the first selected table with fresh table and
// column ids, offset by 40 in each direction. It reports false when nothing
// is selected.
func (d *Designer) DuplicateSelected() (string, bool) {
	var src schema.Node
	found := false
	for _, n := range d.canvas.Nodes() {
		if n.Selected {
			src, found = n, true
			break
		}
	}
	if !found {
		return "", false
	}

	id := d.ids.Next()
	dup := src.Clone()
	dup.ID = strconv.FormatInt(id, 10)
	dup.Selected = false
	dup.Position = schema.Position{X: src.Position.X + 40, Y: src.Position.Y + 40}
	dup.Data.Table.ID = id
	dup.Data.Table.Name = src.Data.Table.Name + "_copy"
	for i := range dup.Data.Table.Columns {
		dup.Data.Table.Columns[i].ID = d.ids.Next()
	}

	d.canvas.SetNodes(func(nodes []schema.Node) []schema.Node {
		return append(nodes, dup)
	})
	d.changed()
	return dup.ID, true
}

// RenameTable sets the table name verbatim
func (d *Designer) RenameTable(nodeID, name string) bool {
	return d.updateTable(nodeID, func(t schema.Table) schema.Table {
		return schema.RenameTable(t, name)
	})
}

// MoveNode places a node at pos
func (d *Designer) MoveNode(nodeID string, pos schema.Position) bool {
	return d.updateNode(nodeID, func(n schema.Node) schema.Node {
		n.Position = pos
		return n
	})
}

// Select makes exactly the given nodes selected
func (d *Designer) Select(nodeIDs ...string) {
	want := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		want[id] = true
	}
	d.canvas.SetNodes(func(nodes []schema.Node) []schema.Node {
		out := make([]schema.Node, len(nodes))
		for i, n := range nodes {
			n.Selected = want[n.ID]
			out[i] = n
		}
		return out
	})
}

// SelectEdges makes exactly the given edges selected
func (d *Designer) SelectEdges(edgeIDs ...string) {
	want := make(map[string]bool, len(edgeIDs))
	for _, id := range edgeIDs {
		want[id] = true
	}
	d.canvas.SetEdges(func(edges []schema.Edge) []schema.Edge {
		out := make([]schema.Edge, len(edges))
		for i, e := range edges {
			e.Selected = want[e.ID]
			out[i] = e
		}
		return out
	})
}

// AddColumn appends a default column and returns its id
func (d *Designer) AddColumn(nodeID string) (int64, bool) {
	var added int64
	ok := d.updateTable(nodeID, func(t schema.Table) schema.Table {
		out := schema.AddColumn(t, d.ids)
		added = out.Columns[len(out.Columns)-1].ID
		return out
	})
	return added, ok
}

// UpdateColumn replaces one field of one column
func (d *Designer) UpdateColumn(nodeID string, columnID int64, field schema.Field, value any) bool {
	n, ok := d.node(nodeID)
	if !ok || n.Data.Table.ColumnIndex(columnID) < 0 {
		return false
	}
	return d.updateTable(nodeID, func(t schema.Table) schema.Table {
		return schema.UpdateColumnField(t, columnID, field, value)
	})
}

// DeleteColumn removes a column and every connection attached to it
func (d *Designer) DeleteColumn(nodeID string, columnID int64) bool {
	n, ok := d.node(nodeID)
	if !ok || n.Data.Table.ColumnIndex(columnID) < 0 {
		return false
	}
	d.updateTable(nodeID, func(t schema.Table) schema.Table {
		return schema.DeleteColumn(t, columnID)
	})

	d.canvas.SetEdges(func(edges []schema.Edge) []schema.Edge {
		out := make([]schema.Edge, 0, len(edges))
		for _, e := range edges {
			if !attachedTo(e, nodeID, columnID) {
				out = append(out, e)
			}
		}
		return out
	})
	d.changed()
	return true
}

func attachedTo(e schema.Edge, nodeID string, columnID int64) bool {
	if e.Source == nodeID {
		if id, ok := schema.HandleColumn(e.SourceHandle); ok && id == columnID {
			return true
		}
	}
	if e.Target == nodeID {
		if id, ok := schema.HandleColumn(e.TargetHandle); ok && id == columnID {
			return true
		}
	}
	return false
}

// Connect adds an animated connection between two column handles. It reports
// false when either node is missing or the connection already exists.
func (d *Designer) Connect(e schema.Edge) bool {
	diagram := d.Diagram()
	if _, ok := diagram.FindNode(e.Source); !ok {
		return false
	}
	if _, ok := diagram.FindNode(e.Target); !ok {
		return false
	}
	for _, existing := range diagram.Edges {
		if canvas.SameEndpoints(existing, e) {
			return false
		}
	}

	e.Animated = true
	d.canvas.SetEdges(func(edges []schema.Edge) []schema.Edge {
		return canvas.AddEdge(edges, e)
	})
	d.changed()
	return true
}

// Export writes the current diagram document to w
func (d *Designer) Export(w io.Writer) error {
	return persist.Export(w, d.Diagram())
}

// Import replaces the whole diagram with the document read from r. On error
// the current diagram is left untouched.
func (d *Designer) Import(r io.Reader) error {
	diagram, err := persist.Import(r)
	if err != nil {
		return err
	}
	d.replace(diagram)
	logging.Log(d.ctx, d.logger, logging.LevelInfo, "imported diagram",
		logging.Field{Key: "tables", Value: len(diagram.Nodes)},
		logging.Field{Key: "connections", Value: len(diagram.Edges)},
	)
	return nil
}

// Reset replaces the diagram with the default one
func (d *Designer) Reset() {
	d.replace(schema.DefaultDiagram())
}

// replace drops pending deletions and drag state, since their ids refer to
// the old diagram.
func (d *Designer) replace(diagram schema.Diagram) {
	d.mu.Lock()
	d.epoch++
	d.deleting = make(map[string]bool)
	d.engines = make(map[string]*reorder.Engine)
	d.mu.Unlock()

	canvas.Load(d.canvas, diagram)
	d.ids.SeedFrom(diagram)
	d.changed()
}

// GenerateDDL renders the current diagram as CREATE TABLE statements
func (d *Designer) GenerateDDL() string {
	return formatter.GenerateDDL(d.Diagram())
}
