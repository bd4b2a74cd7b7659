package schema

import "sync"

// IDGenerator mints numeric identifiers for tables and columns. It is a
// monotonic counter scoped to one diagram, so two entities created in the
// same instant never share an id.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
}

// NewIDGenerator returns a generator whose first id is seed+1
func NewIDGenerator(seed int64) *IDGenerator {
	return &IDGenerator{last: seed}
}

// Next returns a fresh identifier
func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last++
	return g.last
}

// Observe moves the counter past id so it will never be handed out
func (g *IDGenerator) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}

// SeedFrom observes every table and column id in the diagram, along with
// numeric node ids.
func (g *IDGenerator) SeedFrom(d Diagram) {
	for _, n := range d.Nodes {
		if id, ok := parseNodeID(n.ID); ok {
			g.Observe(id)
		}
		g.Observe(n.Data.Table.ID)
		for _, col := range n.Data.Table.Columns {
			g.Observe(col.ID)
		}
	}
}
