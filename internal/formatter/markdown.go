package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/dbcanvas/internal/schema"
)

// MarkdownFormatter formats a diagram as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the diagram in markdown format
func (f *MarkdownFormatter) Format(d schema.Diagram) error {
	_, _ = fmt.Fprintln(f.writer, "# Database Schema")
	_, _ = fmt.Fprintln(f.writer)

	rels := Relations(d)
	for _, n := range d.Nodes {
		if err := f.FormatTable(n.Data.Table, rels); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable formats a single table (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(table schema.Table, rels []Relation) error {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", table.Name)

	_, _ = fmt.Fprintln(f.writer, "### Columns")
	_, _ = fmt.Fprintln(f.writer)

	for _, col := range table.Columns {
		constraintStr := f.formatConstraints(col)
		if constraintStr != "" {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s, %s\n", col.Name, ColumnType(col), constraintStr)
		} else {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", col.Name, ColumnType(col))
		}
	}
	_, _ = fmt.Fprintln(f.writer)

	// Connections drawn from this table
	if refs := outgoing(rels, table.Name); len(refs) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### References")
		_, _ = fmt.Fprintln(f.writer)
		for _, rel := range refs {
			_, _ = fmt.Fprintf(f.writer, "- %s → %s.%s\n", rel.SourceColumn, rel.TargetTable, rel.TargetColumn)
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	return nil
}

func (f *MarkdownFormatter) formatConstraints(col schema.Column) string {
	var constraints []string

	if col.IsPrimary {
		constraints = append(constraints, "PK")
	}

	if !col.IsNullable {
		constraints = append(constraints, "NOT NULL")
	}

	return strings.Join(constraints, ", ")
}
