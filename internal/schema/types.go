package schema

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NodeType is the canvas node type used for every table node
const NodeType = "tableNode"

// Diagram is the persisted unit: tables as nodes plus the connections between their columns
type Diagram struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is the visual wrapper around one table
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type,omitempty"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
	Selected bool     `json:"-"`
}

// NodeData carries the table embedded in a node
type NodeData struct {
	Table Table `json:"table"`
}

// Position is a 2D canvas coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Edge is an illustrative connection between two column endpoints
type Edge struct {
	ID           string `json:"id,omitempty"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle"`
	TargetHandle string `json:"targetHandle"`
	Animated     bool   `json:"animated,omitempty"`
	Selected     bool   `json:"-"`
}

// Table represents a designed database table
type Table struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Column represents a table column
type Column struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	TypeLength *int   `json:"typeLength,omitempty"`
	IsPrimary  bool   `json:"isPrimary"`
	IsNullable bool   `json:"isNullable"`
}

// UnmarshalJSON accepts the shapes older editors produced: ids that are not
// whole numbers and lengths stored as raw text input.
func (c *Column) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         json.Number     `json:"id"`
		Name       string          `json:"name"`
		Type       string          `json:"type"`
		TypeLength json.RawMessage `json:"typeLength"`
		IsPrimary  bool            `json:"isPrimary"`
		IsNullable bool            `json:"isNullable"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	*c = Column{
		ID:         parseID(raw.ID),
		Name:       raw.Name,
		Type:       raw.Type,
		TypeLength: parseLength(raw.TypeLength),
		IsPrimary:  raw.IsPrimary,
		IsNullable: raw.IsNullable,
	}
	return nil
}

func parseID(n json.Number) int64 {
	if n == "" {
		return 0
	}
	if id, err := n.Int64(); err == nil {
		return id
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}

func parseLength(raw json.RawMessage) *int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		text = string(raw)
	}
	return ParseLength(text)
}

// ParseLength turns user input into a length qualifier. Blank or
// non-numeric input yields nil.
func ParseLength(text string) *int {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if n, err := strconv.Atoi(text); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(f)
	return &n
}

// Clone returns a copy that shares no memory with c
func (c Column) Clone() Column {
	if c.TypeLength != nil {
		n := *c.TypeLength
		c.TypeLength = &n
	}
	return c
}

// Clone returns a deep copy of the table
func (t Table) Clone() Table {
	if t.Columns != nil {
		cols := make([]Column, len(t.Columns))
		for i, col := range t.Columns {
			cols[i] = col.Clone()
		}
		t.Columns = cols
	}
	return t
}

// Clone returns a deep copy of the node
func (n Node) Clone() Node {
	n.Data.Table = n.Data.Table.Clone()
	return n
}

// Clone returns a deep copy of the diagram
func (d Diagram) Clone() Diagram {
	out := Diagram{
		Nodes: make([]Node, len(d.Nodes)),
		Edges: make([]Edge, len(d.Edges)),
	}
	for i, n := range d.Nodes {
		out.Nodes[i] = n.Clone()
	}
	copy(out.Edges, d.Edges)
	return out
}

// FindNode returns the node with the given id
func (d Diagram) FindNode(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// ColumnIndex returns the position of the column with the given id, or -1
func (t Table) ColumnIndex(columnID int64) int {
	for i, col := range t.Columns {
		if col.ID == columnID {
			return i
		}
	}
	return -1
}

// FindColumn returns the column with the given id
func (t Table) FindColumn(columnID int64) (Column, bool) {
	if i := t.ColumnIndex(columnID); i >= 0 {
		return t.Columns[i], true
	}
	return Column{}, false
}

// DefaultDiagram is the diagram shown when nothing has been saved yet
func DefaultDiagram() Diagram {
	return Diagram{
		Nodes: []Node{
			{
				ID:       "1",
				Type:     NodeType,
				Position: Position{X: 100, Y: 100},
				Data: NodeData{Table: Table{
					ID:   1,
					Name: "Users",
					Columns: []Column{
						{ID: 1, Name: "Id", Type: TypeInt, IsPrimary: true, IsNullable: false},
					},
				}},
			},
		},
		Edges: []Edge{},
	}
}
