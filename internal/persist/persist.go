// Package persist converts diagrams to and from their JSON document form,
// both for the autosave slot and for export files.
package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tordrt/dbcanvas/internal/canvas"
	"github.com/tordrt/dbcanvas/internal/schema"
)

// DefaultKey is the storage slot the designer autosaves into
const DefaultKey = "er-diagram"

// ExportFileName is the suggested file name for exported diagrams
const ExportFileName = "er-diagram.json"

// ErrMalformed is returned for documents that are not a JSON diagram
var ErrMalformed = errors.New("persist: malformed diagram document")

// Serialize encodes the diagram as an indented JSON document. Selection state
// is not part of the document.
func Serialize(d schema.Diagram) ([]byte, error) {
	d = normalize(d)
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode diagram: %w", err)
	}
	return data, nil
}

// Deserialize decodes a diagram document. Missing node or edge arrays are
// treated as empty; anything that is not a JSON object is ErrMalformed.
func Deserialize(data []byte) (schema.Diagram, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return schema.Diagram{}, ErrMalformed
	}

	var d schema.Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return schema.Diagram{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var refs columnRefs
	if err := json.Unmarshal(data, &refs); err != nil {
		return schema.Diagram{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return normalize(resolveColumnIDs(d, refs)), nil
}

// Export writes the diagram document to w
func Export(w io.Writer, d schema.Diagram) error {
	data, err := Serialize(d)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// Import reads a full diagram document from r
func Import(r io.Reader) (schema.Diagram, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return schema.Diagram{}, fmt.Errorf("failed to read import: %w", err)
	}
	return Deserialize(data)
}

// normalize returns a copy that always carries both arrays, a node type on
// every node and an id on every edge.
func normalize(d schema.Diagram) schema.Diagram {
	d = d.Clone()
	for i := range d.Nodes {
		if d.Nodes[i].Type == "" {
			d.Nodes[i].Type = schema.NodeType
		}
		if d.Nodes[i].Data.Table.Columns == nil {
			d.Nodes[i].Data.Table.Columns = []schema.Column{}
		}
	}
	for i := range d.Edges {
		if d.Edges[i].ID == "" {
			d.Edges[i].ID = canvas.EdgeID(d.Edges[i])
		}
	}
	return d
}
