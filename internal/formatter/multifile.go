package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/dbcanvas/internal/schema"
)

// Output formats understood by the formatters
const (
	FormatMarkdown = "markdown"
	FormatSQL      = "sql"
)

// MultiFileFormatter writes a diagram to one file per table in a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "sql" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the overview and the per-table files
func (f *MultiFileFormatter) Format(d schema.Diagram) error {
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rels := Relations(d)
	if err := f.writeOverview(d, rels); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, n := range d.Nodes {
		table := n.Data.Table
		if err := f.writeTableFile(table, rels); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", table.Name, err)
		}
	}

	return nil
}

func (f *MultiFileFormatter) writeOverview(d schema.Diagram, rels []Relation) error {
	filename := filepath.Join(f.OutputDir, "_overview"+f.fileExtension())

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	tables := make([]string, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		tables = append(tables, n.Data.Table.Name)
	}
	sort.Strings(tables)

	if f.OutputFormat == FormatMarkdown {
		_, _ = fmt.Fprintf(file, "# Schema Overview\n\n")
		_, _ = fmt.Fprintf(file, "Each table has a corresponding file: `<table_name>%s`\n\n", f.fileExtension())
		_, _ = fmt.Fprintf(file, "## Tables\n\n")
		for _, name := range tables {
			_, _ = fmt.Fprintf(file, "- **%s**%s\n", name, referenceSuffix(rels, name, ", "))
		}
		return nil
	}

	_, _ = fmt.Fprintf(file, "-- SCHEMA OVERVIEW\n")
	_, _ = fmt.Fprintf(file, "-- Each table has a file: <table_name>%s\n\n", f.fileExtension())
	for _, name := range tables {
		_, _ = fmt.Fprintf(file, "-- %s%s\n", name, referenceSuffix(rels, name, ","))
	}
	return nil
}

func referenceSuffix(rels []Relation, table, sep string) string {
	refs := outgoing(rels, table)
	if len(refs) == 0 {
		return ""
	}
	targets := make([]string, 0, len(refs))
	for _, rel := range refs {
		targets = append(targets, rel.TargetTable)
	}
	return fmt.Sprintf(" (references: %s)", strings.Join(targets, sep))
}

func (f *MultiFileFormatter) writeTableFile(table schema.Table, rels []Relation) error {
	filename := filepath.Join(f.OutputDir, fileName(table.Name)+f.fileExtension())

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == FormatMarkdown {
		if err := NewMarkdownFormatter(file).FormatTable(table, rels); err != nil {
			return err
		}
		writeReferencedBy(file, incoming(rels, table.Name))
		return nil
	}

	return NewDDLFormatter(file).FormatTable(table)
}

func writeReferencedBy(w io.Writer, rels []Relation) {
	if len(rels) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "### Referenced by\n\n")
	for _, rel := range rels {
		_, _ = fmt.Fprintf(w, "- %s.%s → %s\n", rel.SourceTable, rel.SourceColumn, rel.TargetColumn)
	}
	_, _ = fmt.Fprintln(w)
}

// fileName keeps degenerate table names from escaping the output directory
func fileName(table string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, table)
	if name == "" || name == "." || name == ".." {
		return "_unnamed"
	}
	return name
}

func (f *MultiFileFormatter) fileExtension() string {
	if f.OutputFormat == FormatMarkdown {
		return ".md"
	}
	return ".sql"
}
