package persist

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tordrt/dbcanvas/internal/schema"
)

// columnRefs mirrors a document down to its column ids, keeping the id text
// exactly as written.
type columnRefs struct {
	Nodes []struct {
		Data struct {
			Table struct {
				Columns []struct {
					ID json.Number `json:"id"`
				} `json:"columns"`
			} `json:"table"`
		} `json:"data"`
	} `json:"nodes"`
}

// resolveColumnIDs gives every column of a table its own integer id. Documents
// written by older editors carry fractional ids that collapse onto the same
// integer; the later columns get fresh ids. Handles that named a column by its
// written id are rewritten to the id it ends up with.
func resolveColumnIDs(d schema.Diagram, refs columnRefs) schema.Diagram {
	ids := schema.NewIDGenerator(0)
	ids.SeedFrom(d)

	for i := range d.Nodes {
		var written []string
		if i < len(refs.Nodes) {
			for _, col := range refs.Nodes[i].Data.Table.Columns {
				written = append(written, col.ID.String())
			}
		}

		cols := d.Nodes[i].Data.Table.Columns
		seen := make(map[int64]bool, len(cols))
		claimed := make(map[string]bool, len(cols))
		renamed := make(map[string]int64)
		for j := range cols {
			if seen[cols[j].ID] {
				cols[j].ID = ids.Next()
			}
			seen[cols[j].ID] = true

			if j >= len(written) || written[j] == "" || claimed[written[j]] {
				continue
			}
			// the first column written with an id owns handles naming it
			claimed[written[j]] = true
			if written[j] != strconv.FormatInt(cols[j].ID, 10) {
				renamed[written[j]] = cols[j].ID
			}
		}

		if len(renamed) == 0 {
			continue
		}
		nodeID := d.Nodes[i].ID
		for k := range d.Edges {
			e := &d.Edges[k]
			if e.Source == nodeID {
				e.SourceHandle = rewriteHandle(e.SourceHandle, renamed)
			}
			if e.Target == nodeID {
				e.TargetHandle = rewriteHandle(e.TargetHandle, renamed)
			}
		}
	}
	return d
}

func rewriteHandle(handle string, renamed map[string]int64) string {
	for _, prefix := range []string{schema.SourceHandlePrefix, schema.TargetHandlePrefix} {
		if rest, ok := strings.CutPrefix(handle, prefix); ok {
			if id, ok := renamed[rest]; ok {
				return prefix + strconv.FormatInt(id, 10)
			}
			return handle
		}
	}
	return handle
}
