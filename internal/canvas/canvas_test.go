package canvas_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/tordrt/dbcanvas/internal/canvas"
	"github.com/tordrt/dbcanvas/internal/schema"
)

func TestMemoryGettersReturnCopies(t *testing.T) {
	t.Parallel()
	c := canvas.NewMemory(schema.DefaultDiagram())

	nodes := c.Nodes()
	nodes[0].Data.Table.Name = "changed"
	nodes[0].Data.Table.Columns[0].Name = "changed"

	check.Equal(t, "", cmp.Diff(schema.DefaultDiagram(), canvas.Diagram(c)))
}

func TestMemoryNotifiesListeners(t *testing.T) {
	t.Parallel()
	c := canvas.NewMemory(schema.DefaultDiagram())

	var seen []schema.Diagram
	c.OnChange(func(d schema.Diagram) { seen = append(seen, d) })

	c.SetNodes(func(nodes []schema.Node) []schema.Node {
		nodes[0].Position = schema.Position{X: 5, Y: 6}
		return nodes
	})
	c.SetEdges(func(edges []schema.Edge) []schema.Edge {
		return canvas.AddEdge(edges, schema.Edge{Source: "1", Target: "1", SourceHandle: "source-1", TargetHandle: "target-1"})
	})

	assert.Equal(t, 2, len(seen))
	check.Equal(t, schema.Position{X: 5, Y: 6}, seen[0].Nodes[0].Position)
	check.Equal(t, 0, len(seen[0].Edges))
	check.Equal(t, 1, len(seen[1].Edges))
}

func TestListenerMayReadCanvas(t *testing.T) {
	t.Parallel()
	c := canvas.NewMemory(schema.DefaultDiagram())

	var names []string
	c.OnChange(func(schema.Diagram) {
		names = append(names, c.Nodes()[0].Data.Table.Name)
	})
	c.SetNodes(func(nodes []schema.Node) []schema.Node {
		nodes[0].Data.Table.Name = "People"
		return nodes
	})

	check.Equal(t, []string{"People"}, names)
}

func TestLoadReplaces(t *testing.T) {
	t.Parallel()
	c := canvas.NewMemory(schema.Diagram{Nodes: []schema.Node{{ID: "a"}, {ID: "b"}}})

	canvas.Load(c, schema.DefaultDiagram())
	check.Equal(t, "", cmp.Diff(schema.DefaultDiagram(), canvas.Diagram(c)))
}

func TestAddEdge(t *testing.T) {
	t.Parallel()
	e := schema.Edge{Source: "1", Target: "2", SourceHandle: "source-1", TargetHandle: "target-7"}

	edges := canvas.AddEdge(nil, e)
	assert.Equal(t, 1, len(edges))
	check.Equal(t, "xy-edge__1source-1-2target-7", edges[0].ID)

	// duplicates are ignored even with a different id
	e.ID = "custom"
	edges = canvas.AddEdge(edges, e)
	check.Equal(t, 1, len(edges))

	// a different handle is a different connection
	e.TargetHandle = "target-8"
	edges = canvas.AddEdge(edges, e)
	assert.Equal(t, 2, len(edges))
	check.Equal(t, "custom", edges[1].ID)
}

func TestTouches(t *testing.T) {
	t.Parallel()
	e := schema.Edge{Source: "1", Target: "2"}
	check.Equal(t, true, canvas.Touches(e, "1"))
	check.Equal(t, true, canvas.Touches(e, "2"))
	check.Equal(t, false, canvas.Touches(e, "3"))
}
