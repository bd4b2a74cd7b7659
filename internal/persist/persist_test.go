package persist_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/tordrt/dbcanvas/internal/logging"
	"github.com/tordrt/dbcanvas/internal/persist"
	"github.com/tordrt/dbcanvas/internal/schema"
	"github.com/tordrt/dbcanvas/internal/store"
)

func intp(n int) *int { return &n }

func sampleDiagram() schema.Diagram {
	d := schema.DefaultDiagram()
	d.Nodes = append(d.Nodes, schema.Node{
		ID:       "1700000000000",
		Type:     schema.NodeType,
		Position: schema.Position{X: 320.5, Y: 48},
		Data: schema.NodeData{Table: schema.Table{
			ID:   1700000000000,
			Name: "Orders",
			Columns: []schema.Column{
				{ID: 1700000000001, Name: "UserId", Type: schema.TypeInt, IsNullable: false},
				{ID: 1700000000002, Name: "Note", Type: schema.TypeNVarChar, TypeLength: intp(255), IsNullable: true},
			},
		}},
	})
	d.Edges = append(d.Edges, schema.Edge{
		ID:           "xy-edge__1700000000000source-1700000000001-1target-1",
		Source:       "1700000000000",
		Target:       "1",
		SourceHandle: schema.SourceHandle(1700000000001),
		TargetHandle: schema.TargetHandle(1),
		Animated:     true,
	})
	return d
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	d := sampleDiagram()

	data, err := persist.Serialize(d)
	assert.Nil(t, err)
	got, err := persist.Deserialize(data)
	assert.Nil(t, err)
	check.Equal(t, "", cmp.Diff(d, got))
}

func TestSerializeDropsSelection(t *testing.T) {
	t.Parallel()
	d := sampleDiagram()
	d.Nodes[0].Selected = true
	d.Edges[0].Selected = true

	data, err := persist.Serialize(d)
	assert.Nil(t, err)
	check.Equal(t, false, bytes.Contains(data, []byte("selected")))
	check.True(t, bytes.HasPrefix(data, []byte("{\n  \"nodes\": [")))

	got, err := persist.Deserialize(data)
	assert.Nil(t, err)
	check.Equal(t, false, got.Nodes[0].Selected)
	check.Equal(t, false, got.Edges[0].Selected)
}

func TestSerializeDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	d := schema.Diagram{Nodes: []schema.Node{{ID: "1"}}}

	_, err := persist.Serialize(d)
	assert.Nil(t, err)
	check.Equal(t, "", d.Nodes[0].Type)
	check.True(t, d.Edges == nil)
}

func TestDeserializeMissingArrays(t *testing.T) {
	t.Parallel()
	for _, doc := range []string{`{}`, `{"nodes": null}`, ` {"edges": []} `} {
		t.Run(doc, func(t *testing.T) {
			d, err := persist.Deserialize([]byte(doc))
			assert.Nil(t, err)
			check.Equal(t, 0, len(d.Nodes))
			check.Equal(t, 0, len(d.Edges))
			check.True(t, d.Nodes != nil)
			check.True(t, d.Edges != nil)
		})
	}
}

func TestDeserializeMalformed(t *testing.T) {
	t.Parallel()
	for _, doc := range []string{``, `not json`, `[]`, `{"nodes": 5}`, `{"nodes": [`} {
		t.Run(doc, func(t *testing.T) {
			_, err := persist.Deserialize([]byte(doc))
			check.True(t, errors.Is(err, persist.ErrMalformed))
		})
	}
}

func TestDeserializeTolerantColumns(t *testing.T) {
	t.Parallel()
	doc := `{
		"nodes": [{
			"id": "1",
			"position": {"x": 10, "y": 20},
			"data": {"table": {"id": 1, "name": "T", "columns": [
				{"id": 1, "name": "a", "type": "NVARCHAR", "typeLength": "50", "isPrimary": false, "isNullable": true},
				{"id": 2, "name": "b", "type": "INT", "typeLength": "", "isPrimary": true, "isNullable": false},
				{"id": 3, "name": "c", "type": "CHAR", "typeLength": 10, "isPrimary": false, "isNullable": true}
			]}}
		}],
		"edges": []
	}`

	d, err := persist.Deserialize([]byte(doc))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(d.Nodes))
	check.Equal(t, schema.NodeType, d.Nodes[0].Type)

	cols := d.Nodes[0].Data.Table.Columns
	assert.Equal(t, 3, len(cols))
	check.Equal(t, []int64{1, 2, 3}, []int64{cols[0].ID, cols[1].ID, cols[2].ID})
	assert.Equal(t, true, cols[0].TypeLength != nil)
	check.Equal(t, 50, *cols[0].TypeLength)
	check.True(t, cols[1].TypeLength == nil)
	assert.Equal(t, true, cols[2].TypeLength != nil)
	check.Equal(t, 10, *cols[2].TypeLength)
}

// duplicatedTableDoc is a table copied by an older editor: its column ids are
// fractional and share one integer part. Edges name the columns by that text.
const duplicatedTableDoc = `{
	"nodes": [
		{"id": "1", "position": {"x": 0, "y": 0}, "data": {"table": {"id": 1, "name": "users", "columns": [
			{"id": 1, "name": "id", "type": "INT", "isPrimary": true, "isNullable": false}
		]}}},
		{"id": "1700000000000", "position": {"x": 40, "y": 40}, "data": {"table": {"id": 1700000000000, "name": "users_copy", "columns": [
			{"id": 1700000000000.123, "name": "owner", "type": "INT", "isPrimary": false, "isNullable": false},
			{"id": 1700000000000.456, "name": "editor", "type": "INT", "isPrimary": false, "isNullable": true}
		]}}}
	],
	"edges": [
		{"id": "owner", "source": "1700000000000", "target": "1", "sourceHandle": "source-1700000000000.123", "targetHandle": "target-1"},
		{"id": "editor", "source": "1700000000000", "target": "1", "sourceHandle": "source-1700000000000.456", "targetHandle": "target-1"}
	]
}`

func TestDeserializeCollidingColumnIDs(t *testing.T) {
	t.Parallel()
	d, err := persist.Deserialize([]byte(duplicatedTableDoc))
	assert.Nil(t, err)

	node, ok := d.FindNode("1700000000000")
	assert.Equal(t, true, ok)
	cols := node.Data.Table.Columns
	assert.Equal(t, 2, len(cols))
	check.NotEqual(t, cols[0].ID, cols[1].ID)

	assert.Equal(t, 2, len(d.Edges))
	for i, want := range []string{"owner", "editor"} {
		id, ok := schema.HandleColumn(d.Edges[i].SourceHandle)
		assert.Equal(t, true, ok)
		col, found := node.Data.Table.FindColumn(id)
		assert.Equal(t, true, found)
		check.Equal(t, want, col.Name)
		check.Equal(t, "target-1", d.Edges[i].TargetHandle)
	}
}

func TestDeserializeFillsEdgeIDs(t *testing.T) {
	t.Parallel()
	doc := `{"nodes": [], "edges": [
		{"source": "1", "target": "2", "sourceHandle": "source-1", "targetHandle": "target-3"},
		{"id": "", "source": "2", "target": "1", "sourceHandle": "source-3", "targetHandle": "target-1"}
	]}`

	d, err := persist.Deserialize([]byte(doc))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(d.Edges))
	check.Equal(t, "xy-edge__1source-1-2target-3", d.Edges[0].ID)
	check.Equal(t, "xy-edge__2source-3-1target-1", d.Edges[1].ID)
}

func TestExportImport(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	assert.Nil(t, persist.Export(&buf, sampleDiagram()))

	got, err := persist.Import(&buf)
	assert.Nil(t, err)
	check.Equal(t, "", cmp.Diff(sampleDiagram(), got))

	_, err = persist.Import(strings.NewReader("garbage"))
	check.True(t, errors.Is(err, persist.ErrMalformed))
}

type brokenSlot struct{ store.Slot }

func (brokenSlot) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk on fire")
}

func (brokenSlot) Put(context.Context, string, []byte) error {
	return errors.New("disk on fire")
}

func TestAutosaver(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	slot := store.NewMemory()
	saver := persist.NewAutosaver(slot, "", logging.NewTestLogger(t))
	check.Equal(t, persist.DefaultKey, saver.Key())

	// nothing saved yet
	check.Equal(t, "", cmp.Diff(schema.DefaultDiagram(), saver.Restore(ctx)))

	assert.Nil(t, saver.Save(ctx, sampleDiagram()))
	check.Equal(t, "", cmp.Diff(sampleDiagram(), saver.Restore(ctx)))

	// a corrupt slot falls back to the default
	assert.Nil(t, slot.Put(ctx, persist.DefaultKey, []byte("{{{")))
	check.Equal(t, "", cmp.Diff(schema.DefaultDiagram(), saver.Restore(ctx)))
}

func TestAutosaverBrokenSlot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	saver := persist.NewAutosaver(brokenSlot{}, "custom", logging.NewTestLogger(t))

	check.Error(t, saver.Save(ctx, sampleDiagram()))
	check.Equal(t, "", cmp.Diff(schema.DefaultDiagram(), saver.Restore(ctx)))
}
