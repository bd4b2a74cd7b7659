package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tordrt/dbcanvas"
	"github.com/tordrt/dbcanvas/internal/formatter"
	"github.com/tordrt/dbcanvas/internal/persist"
)

var (
	outputFile string
	outputDir  string
	format     string
	tables     string
	exclude    string
	exportFile string
)

var ddlCmd = &cobra.Command{
	Use:   "ddl [file]",
	Short: "Generate CREATE TABLE statements (or markdown) for a diagram",
	Long: `Render a diagram as DDL. The diagram is read from the given JSON file, or from the
configured storage slot when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDDL,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored diagram as a JSON document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		if exportFile == "-" {
			return s.designer.Export(cmd.OutOrStdout())
		}
		f, err := os.Create(exportFile)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		if err := s.designer.Export(f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		color.Green("exported %s", exportFile)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored diagram with a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer func() { _ = f.Close() }()

		s, err := openSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		if err := s.designer.Import(f); err != nil {
			return err
		}
		d := s.designer.Diagram()
		color.Green("imported %d tables and %d connections", len(d.Nodes), len(d.Edges))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the stored diagram with the starter diagram",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		s.designer.Reset()
		color.Green("diagram reset")
		return nil
	},
}

func init() {
	ddlCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	ddlCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for multi-file output")
	ddlCmd.Flags().StringVarP(&format, "format", "f", formatter.FormatSQL, "Output format: sql or markdown")
	ddlCmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	ddlCmd.Flags().StringVar(&exclude, "exclude", "", "Tables to leave out (comma-separated, optional)")

	exportCmd.Flags().StringVarP(&exportFile, "output", "o", persist.ExportFileName, "Export file, or - for stdout")
}

func runDDL(cmd *cobra.Command, args []string) error {
	// Validate flag combinations
	if outputDir != "" && outputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}

	source := cfg.Store + "#" + cfg.Key
	if len(args) == 1 {
		source = args[0]
	}

	opts := &dbcanvas.Options{
		Tables:        parseTableList(tables),
		ExcludeTables: parseTableList(exclude),
	}
	outOpts := &dbcanvas.OutputOptions{OutputDir: outputDir, Format: format}

	if outputDir == "" {
		var writer io.Writer = cmd.OutOrStdout()
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() {
				if err := f.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
				}
			}()
			writer = f
		}
		outOpts.Writer = writer
	}

	if err := dbcanvas.LoadAndFormat(cmd.Context(), source, opts, outOpts); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}
