package formatter

import (
	"github.com/tordrt/dbcanvas/internal/schema"
)

// Relation is a connection resolved to table and column names
type Relation struct {
	SourceTable  string
	SourceColumn string
	TargetTable  string
	TargetColumn string
}

// Relations resolves every edge whose endpoints still exist. Edges pointing at
// missing nodes or columns are skipped.
func Relations(d schema.Diagram) []Relation {
	var out []Relation
	for _, e := range d.Edges {
		srcTable, srcCol, ok := resolveEndpoint(d, e.Source, e.SourceHandle)
		if !ok {
			continue
		}
		dstTable, dstCol, ok := resolveEndpoint(d, e.Target, e.TargetHandle)
		if !ok {
			continue
		}
		out = append(out, Relation{
			SourceTable:  srcTable,
			SourceColumn: srcCol,
			TargetTable:  dstTable,
			TargetColumn: dstCol,
		})
	}
	return out
}

func resolveEndpoint(d schema.Diagram, nodeID, handle string) (string, string, bool) {
	n, ok := d.FindNode(nodeID)
	if !ok {
		return "", "", false
	}
	colID, ok := schema.HandleColumn(handle)
	if !ok {
		return "", "", false
	}
	col, ok := n.Data.Table.FindColumn(colID)
	if !ok {
		return "", "", false
	}
	return n.Data.Table.Name, col.Name, true
}

// outgoing returns the relations whose source is the named table
func outgoing(rels []Relation, table string) []Relation {
	var out []Relation
	for _, r := range rels {
		if r.SourceTable == table {
			out = append(out, r)
		}
	}
	return out
}

// incoming returns the relations whose target is the named table
func incoming(rels []Relation, table string) []Relation {
	var out []Relation
	for _, r := range rels {
		if r.TargetTable == table {
			out = append(out, r)
		}
	}
	return out
}
