package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/tordrt/dbcanvas/internal/schema"
)

func intp(n int) *int { return &n }

func sampleTable() schema.Table {
	return schema.Table{
		ID:   10,
		Name: "orders",
		Columns: []schema.Column{
			{ID: 1, Name: "id", Type: schema.TypeInt, IsPrimary: true},
			{ID: 2, Name: "customer", Type: schema.TypeVarChar, TypeLength: intp(80), IsNullable: true},
			{ID: 3, Name: "placed_at", Type: schema.TypeDateTime, IsNullable: true},
		},
	}
}

func columnIDs(t schema.Table) []int64 {
	ids := make([]int64, 0, len(t.Columns))
	for _, col := range t.Columns {
		ids = append(ids, col.ID)
	}
	return ids
}

func TestAddColumnAppendsDefaults(t *testing.T) {
	t.Parallel()
	table := sampleTable()
	ids := schema.NewIDGenerator(100)

	out := schema.AddColumn(table, ids)
	assert.Equal(t, 4, len(out.Columns))
	check.Equal(t, 3, len(table.Columns))

	added := out.Columns[3]
	check.Equal(t, int64(101), added.ID)
	check.Equal(t, "", added.Name)
	check.Equal(t, schema.DefaultColumnType, added.Type)
	check.Equal(t, false, added.IsPrimary)
	check.Equal(t, true, added.IsNullable)
	assert.Equal(t, true, added.TypeLength != nil)
	check.Equal(t, schema.DefaultColumnLength, *added.TypeLength)
	check.Equal(t, []int64{1, 2, 3, 101}, columnIDs(out))
}

func TestAddColumnSkipsCollidingIDs(t *testing.T) {
	t.Parallel()
	table := sampleTable()
	ids := schema.NewIDGenerator(0)

	out := schema.AddColumn(table, ids)
	check.Equal(t, []int64{1, 2, 3, 4}, columnIDs(out))

	out = schema.AddColumn(out, ids)
	check.Equal(t, []int64{1, 2, 3, 4, 5}, columnIDs(out))
}

func TestUpdateColumnField(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		id     int64
		field  schema.Field
		value  any
		verify func(t *testing.T, col schema.Column)
	}{
		{
			name:  "rename",
			id:    2,
			field: schema.FieldName,
			value: "buyer",
			verify: func(t *testing.T, col schema.Column) {
				check.Equal(t, "buyer", col.Name)
			},
		},
		{
			name:  "change type",
			id:    3,
			field: schema.FieldType,
			value: schema.TypeDate,
			verify: func(t *testing.T, col schema.Column) {
				check.Equal(t, schema.TypeDate, col.Type)
			},
		},
		{
			name:  "length from text input",
			id:    2,
			field: schema.FieldTypeLength,
			value: "120",
			verify: func(t *testing.T, col schema.Column) {
				assert.Equal(t, true, col.TypeLength != nil)
				check.Equal(t, 120, *col.TypeLength)
			},
		},
		{
			name:  "blank length clears",
			id:    2,
			field: schema.FieldTypeLength,
			value: "",
			verify: func(t *testing.T, col schema.Column) {
				check.True(t, col.TypeLength == nil)
			},
		},
		{
			name:  "toggle nullable",
			id:    2,
			field: schema.FieldIsNullable,
			value: false,
			verify: func(t *testing.T, col schema.Column) {
				check.Equal(t, false, col.IsNullable)
			},
		},
		{
			name:  "second primary key is allowed",
			id:    2,
			field: schema.FieldIsPrimary,
			value: true,
			verify: func(t *testing.T, col schema.Column) {
				check.Equal(t, true, col.IsPrimary)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := sampleTable()
			before := table.Clone()

			out := schema.UpdateColumnField(table, tt.id, tt.field, tt.value)
			check.Equal(t, columnIDs(before), columnIDs(out))
			check.Equal(t, "", cmp.Diff(before, table))

			col, ok := out.FindColumn(tt.id)
			assert.Equal(t, true, ok)
			tt.verify(t, col)

			for _, other := range out.Columns {
				if other.ID == tt.id {
					continue
				}
				orig, _ := before.FindColumn(other.ID)
				check.Equal(t, "", cmp.Diff(orig, other))
			}
		})
	}
}

func TestUpdateColumnFieldNoops(t *testing.T) {
	t.Parallel()
	table := sampleTable()

	for name, out := range map[string]schema.Table{
		"stale id":      schema.UpdateColumnField(table, 99, schema.FieldName, "x"),
		"unknown field": schema.UpdateColumnField(table, 1, schema.Field("color"), "red"),
		"wrong shape":   schema.UpdateColumnField(table, 1, schema.FieldIsPrimary, 42),
		"bad length":    schema.UpdateColumnField(table, 2, schema.FieldTypeLength, "wide"),
	} {
		t.Run(name, func(t *testing.T) {
			check.Equal(t, "", cmp.Diff(table, out))
		})
	}
}

func TestDeleteColumnKeepsOrder(t *testing.T) {
	t.Parallel()
	table := sampleTable()

	out := schema.DeleteColumn(table, 2)
	check.Equal(t, []int64{1, 3}, columnIDs(out))
	check.Equal(t, []int64{1, 2, 3}, columnIDs(table))

	check.Equal(t, "", cmp.Diff(table, schema.DeleteColumn(table, 42)))
}

func TestRenameTable(t *testing.T) {
	t.Parallel()
	table := sampleTable()

	out := schema.RenameTable(table, "purchases")
	check.Equal(t, "purchases", out.Name)
	check.Equal(t, "orders", table.Name)
	check.Equal(t, columnIDs(table), columnIDs(out))
}

func TestCloneDoesNotAlias(t *testing.T) {
	t.Parallel()
	table := sampleTable()
	clone := table.Clone()

	clone.Columns[0].Name = "changed"
	*clone.Columns[1].TypeLength = 1

	check.Equal(t, "id", table.Columns[0].Name)
	check.Equal(t, 80, *table.Columns[1].TypeLength)
}

func TestIDGeneratorSeedFrom(t *testing.T) {
	t.Parallel()
	d := schema.DefaultDiagram()
	d.Nodes = append(d.Nodes, schema.Node{
		ID: "1700000000000",
		Data: schema.NodeData{Table: schema.Table{
			ID:      7,
			Columns: []schema.Column{{ID: 42}},
		}},
	})

	ids := schema.NewIDGenerator(0)
	ids.SeedFrom(d)
	check.Equal(t, int64(1700000000001), ids.Next())
}
