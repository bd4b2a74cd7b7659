// Package canvas defines the boundary between the designer core and the
// rendering engine that owns node positions, selection and connections.
package canvas

import (
	"fmt"
	"slices"
	"sync"

	"github.com/tordrt/dbcanvas/internal/schema"
)

// Canvas is what the core needs from a rendering engine. Setters take an
// updater so the engine can apply them against its latest state.
type Canvas interface {
	Nodes() []schema.Node
	SetNodes(func([]schema.Node) []schema.Node)
	Edges() []schema.Edge
	SetEdges(func([]schema.Edge) []schema.Edge)
}

// Diagram snapshots a canvas
func Diagram(c Canvas) schema.Diagram {
	return schema.Diagram{Nodes: c.Nodes(), Edges: c.Edges()}
}

// Load replaces the whole canvas state with d
func Load(c Canvas, d schema.Diagram) {
	d = d.Clone()
	c.SetNodes(func([]schema.Node) []schema.Node { return d.Nodes })
	c.SetEdges(func([]schema.Edge) []schema.Edge { return d.Edges })
}

// Memory is an in-process Canvas. Listeners registered with OnChange run
// after every update, outside the lock.
type Memory struct {
	mu        sync.Mutex
	nodes     []schema.Node
	edges     []schema.Edge
	listeners []func(schema.Diagram)
}

// NewMemory returns a canvas holding a copy of d
func NewMemory(d schema.Diagram) *Memory {
	d = d.Clone()
	return &Memory{nodes: d.Nodes, edges: d.Edges}
}

// OnChange registers fn to receive a snapshot after each update
func (m *Memory) OnChange(fn func(schema.Diagram)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Memory) Nodes() []schema.Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot().Nodes
}

func (m *Memory) Edges() []schema.Edge {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot().Edges
}

func (m *Memory) SetNodes(fn func([]schema.Node) []schema.Node) {
	m.mu.Lock()
	m.nodes = fn(m.snapshot().Nodes)
	m.notify()
}

func (m *Memory) SetEdges(fn func([]schema.Edge) []schema.Edge) {
	m.mu.Lock()
	m.edges = fn(m.snapshot().Edges)
	m.notify()
}

// snapshot must be called with mu held
func (m *Memory) snapshot() schema.Diagram {
	return schema.Diagram{Nodes: m.nodes, Edges: m.edges}.Clone()
}

// notify releases mu before calling listeners
func (m *Memory) notify() {
	d := m.snapshot()
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(d)
	}
}

// EdgeID derives the identifier the canvas engine assigns to a connection
func EdgeID(e schema.Edge) string {
	return fmt.Sprintf("xy-edge__%s%s-%s%s", e.Source, e.SourceHandle, e.Target, e.TargetHandle)
}

// SameEndpoints reports whether two edges join the same handles
func SameEndpoints(a, b schema.Edge) bool {
	return a.Source == b.Source && a.Target == b.Target &&
		a.SourceHandle == b.SourceHandle && a.TargetHandle == b.TargetHandle
}

// AddEdge appends e unless an edge with the same endpoints exists. A missing
// id is derived with EdgeID.
func AddEdge(edges []schema.Edge, e schema.Edge) []schema.Edge {
	for _, existing := range edges {
		if SameEndpoints(existing, e) {
			return edges
		}
	}
	if e.ID == "" {
		e.ID = EdgeID(e)
	}
	return append(edges, e)
}

// Touches reports whether the edge starts or ends at the node
func Touches(e schema.Edge, nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}
