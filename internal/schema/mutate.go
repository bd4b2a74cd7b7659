package schema

import (
	"strconv"
	"strings"
)

// Field names a user-editable column attribute
type Field string

const (
	FieldName       Field = "name"
	FieldType       Field = "type"
	FieldTypeLength Field = "typeLength"
	FieldIsPrimary  Field = "isPrimary"
	FieldIsNullable Field = "isNullable"
)

// Defaults for freshly added columns
const (
	DefaultColumnType   = TypeNVarChar
	DefaultColumnLength = 255
)

// NewColumn returns a column with the editor defaults
func NewColumn(id int64) Column {
	length := DefaultColumnLength
	return Column{
		ID:         id,
		Name:       "",
		Type:       DefaultColumnType,
		TypeLength: &length,
		IsPrimary:  false,
		IsNullable: true,
	}
}

// AddColumn returns t with a new default column appended. The id is drawn
// from ids until it does not collide with an existing column.
func AddColumn(t Table, ids *IDGenerator) Table {
	id := ids.Next()
	for t.ColumnIndex(id) >= 0 {
		id = ids.Next()
	}

	out := t.Clone()
	out.Columns = append(out.Columns, NewColumn(id))
	return out
}

// UpdateColumnField returns t with exactly one field of one column replaced.
// A stale column id, an unknown field or a value of the wrong shape leaves
// the table unchanged.
func UpdateColumnField(t Table, columnID int64, field Field, value any) Table {
	i := t.ColumnIndex(columnID)
	if i < 0 {
		return t
	}

	col, ok := setField(t.Columns[i].Clone(), field, value)
	if !ok {
		return t
	}

	out := t.Clone()
	out.Columns[i] = col
	return out
}

func setField(col Column, field Field, value any) (Column, bool) {
	switch field {
	case FieldName:
		s, ok := value.(string)
		if !ok {
			return col, false
		}
		col.Name = s
	case FieldType:
		s, ok := value.(string)
		if !ok {
			return col, false
		}
		col.Type = s
	case FieldTypeLength:
		length, ok := lengthValue(value)
		if !ok {
			return col, false
		}
		col.TypeLength = length
	case FieldIsPrimary:
		b, ok := boolValue(value)
		if !ok {
			return col, false
		}
		col.IsPrimary = b
	case FieldIsNullable:
		b, ok := boolValue(value)
		if !ok {
			return col, false
		}
		col.IsNullable = b
	default:
		return col, false
	}
	return col, true
}

func lengthValue(value any) (*int, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case int:
		return &v, true
	case int64:
		n := int(v)
		return &n, true
	case float64:
		n := int(v)
		return &n, true
	case *int:
		if v == nil {
			return nil, true
		}
		n := *v
		return &n, true
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, true
		}
		n := ParseLength(v)
		return n, n != nil
	default:
		return nil, false
	}
}

func boolValue(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(v)
		return b, err == nil
	default:
		return false, false
	}
}

// DeleteColumn returns t without the given column
func DeleteColumn(t Table, columnID int64) Table {
	if t.ColumnIndex(columnID) < 0 {
		return t
	}

	out := t.Clone()
	cols := make([]Column, 0, len(out.Columns)-1)
	for _, col := range out.Columns {
		if col.ID != columnID {
			cols = append(cols, col)
		}
	}
	out.Columns = cols
	return out
}

// RenameTable returns t with a new name
func RenameTable(t Table, name string) Table {
	out := t.Clone()
	out.Name = name
	return out
}

func parseNodeID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	return n, err == nil
}
