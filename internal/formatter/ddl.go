package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/dbcanvas/internal/schema"
)

// GenerateDDL renders one CREATE TABLE statement per node, in node order,
// separated by a blank line. Names and types are emitted verbatim.
func GenerateDDL(d schema.Diagram) string {
	var b strings.Builder
	_ = NewDDLFormatter(&b).Format(d)
	return b.String()
}

// DDLFormatter writes a diagram as CREATE TABLE statements
type DDLFormatter struct {
	writer io.Writer
}

// NewDDLFormatter creates a new DDL formatter
func NewDDLFormatter(w io.Writer) *DDLFormatter {
	return &DDLFormatter{writer: w}
}

// Format writes every table of the diagram
func (f *DDLFormatter) Format(d schema.Diagram) error {
	for i, n := range d.Nodes {
		if i > 0 {
			if _, err := fmt.Fprintln(f.writer); err != nil {
				return err
			}
		}
		if err := f.FormatTable(n.Data.Table); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable writes a single CREATE TABLE statement
func (f *DDLFormatter) FormatTable(table schema.Table) error {
	lines := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		lines = append(lines, "  "+ColumnDefinition(col))
	}

	body := strings.Join(lines, ",\n")
	if body != "" {
		body += "\n"
	}
	_, err := fmt.Fprintf(f.writer, "CREATE TABLE %s (\n%s);\n", table.Name, body)
	return err
}

// ColumnDefinition renders `<name> <type>[(<len>)][ NOT NULL][ PRIMARY KEY]`.
// A length on a type that takes none is ignored.
func ColumnDefinition(col schema.Column) string {
	var b strings.Builder
	b.WriteString(col.Name)
	b.WriteString(" ")
	b.WriteString(ColumnType(col))
	if !col.IsNullable {
		b.WriteString(" NOT NULL")
	}
	if col.IsPrimary {
		b.WriteString(" PRIMARY KEY")
	}
	return b.String()
}

// ColumnType renders the type token with its size qualifier, if any
func ColumnType(col schema.Column) string {
	if col.TypeLength != nil && schema.TakesLength(col.Type) {
		return fmt.Sprintf("%s(%d)", col.Type, *col.TypeLength)
	}
	return col.Type
}
