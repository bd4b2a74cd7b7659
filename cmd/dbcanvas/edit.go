package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tordrt/dbcanvas/internal/reorder"
	"github.com/tordrt/dbcanvas/internal/schema"
)

var (
	tableName  string
	columnName string
	columnType string
	typeLength string
	primary    bool
	notNull    bool
	below      bool
)

var addTableCmd = &cobra.Command{
	Use:   "add-table",
	Short: "Add a table to the stored diagram",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		id := s.designer.AddTable()
		if tableName != "" {
			s.designer.RenameTable(id, tableName)
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var addColumnCmd = &cobra.Command{
	Use:   "add-column <table-id>",
	Short: "Append a column to a table",
	Long: `Append a column to a table. New columns default to a nullable NVARCHAR(255);
the flags override individual fields.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		nodeID := args[0]
		colID, ok := s.designer.AddColumn(nodeID)
		if !ok {
			return fmt.Errorf("no table with id %s", nodeID)
		}

		for field, value := range columnEdits(cmd) {
			s.designer.UpdateColumn(nodeID, colID, field, value)
		}
		fmt.Fprintln(cmd.OutOrStdout(), colID)
		return nil
	},
}

// columnEdits collects the fields set on the command line
func columnEdits(cmd *cobra.Command) map[schema.Field]any {
	edits := map[schema.Field]any{}
	if columnName != "" {
		edits[schema.FieldName] = columnName
	}
	if columnType != "" {
		edits[schema.FieldType] = columnType
	}
	if cmd.Flags().Changed("length") {
		edits[schema.FieldTypeLength] = typeLength
	}
	if cmd.Flags().Changed("primary") {
		edits[schema.FieldIsPrimary] = primary
	}
	if cmd.Flags().Changed("not-null") {
		edits[schema.FieldIsNullable] = !notNull
	}
	return edits
}

var moveColumnCmd = &cobra.Command{
	Use:   "move-column <table-id> <column-id> <target-column-id>",
	Short: "Move a column above (or --below) another column of the same table",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		columnID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid column id %q: %w", args[1], err)
		}
		targetID, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid column id %q: %w", args[2], err)
		}

		s, err := openSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		pos := reorder.Above
		if below {
			pos = reorder.Below
		}
		if !s.designer.MoveColumn(args[0], columnID, targetID, pos) {
			color.Yellow("nothing moved")
		}
		return nil
	},
}

var deleteTableCmd = &cobra.Command{
	Use:   "delete-table <table-id>",
	Short: "Remove a table and every connection touching it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		if !s.designer.DeleteTable(args[0]) {
			return fmt.Errorf("no table with id %s", args[0])
		}
		color.Green("deleted %s", args[0])
		return nil
	},
}

func init() {
	addTableCmd.Flags().StringVarP(&tableName, "name", "n", "", "Table name (default NewTable)")

	addColumnCmd.Flags().StringVarP(&columnName, "name", "n", "", "Column name")
	addColumnCmd.Flags().StringVarP(&columnType, "type", "t", "", "Column type, e.g. INT or VARCHAR")
	addColumnCmd.Flags().StringVar(&typeLength, "length", "", "Length for CHAR/VARCHAR/BINARY types, empty to clear")
	addColumnCmd.Flags().BoolVar(&primary, "primary", false, "Mark the column as primary key")
	addColumnCmd.Flags().BoolVar(&notNull, "not-null", false, "Disallow NULL values")

	moveColumnCmd.Flags().BoolVar(&below, "below", false, "Place the column below the target instead of above")
}
