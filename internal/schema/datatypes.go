package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Data type tokens offered by the editor
const (
	TypeBigInt           = "BIGINT"
	TypeInt              = "INT"
	TypeSmallInt         = "SMALLINT"
	TypeTinyInt          = "TINYINT"
	TypeBit              = "BIT"
	TypeDecimal          = "DECIMAL"
	TypeNumeric          = "NUMERIC"
	TypeMoney            = "MONEY"
	TypeSmallMoney       = "SMALLMONEY"
	TypeFloat            = "FLOAT"
	TypeReal             = "REAL"
	TypeChar             = "CHAR"
	TypeVarChar          = "VARCHAR"
	TypeNChar            = "NCHAR"
	TypeNVarChar         = "NVARCHAR"
	TypeBinary           = "BINARY"
	TypeVarBinaryMax     = "VARBINARY(MAX)"
	TypeDate             = "DATE"
	TypeDateTime         = "DATETIME"
	TypeDateTime2        = "DATETIME2"
	TypeSmallDateTime    = "SMALLDATETIME"
	TypeDateTimeOffset   = "DATETIMEOFFSET"
	TypeTime             = "TIME"
	TypeUniqueIdentifier = "UNIQUEIDENTIFIER"
	TypeXML              = "XML"
	TypeTable            = "TABLE"
	TypeSQLVariant       = "SQL_VARIANT"
)

// DataTypes is the vocabulary in display order. Columns may carry tokens
// outside of it; they are rendered verbatim.
var DataTypes = []string{
	TypeBigInt, TypeInt, TypeSmallInt, TypeTinyInt, TypeBit,
	TypeDecimal, TypeNumeric, TypeMoney, TypeSmallMoney, TypeFloat, TypeReal,
	TypeChar, TypeVarChar, TypeNChar, TypeNVarChar, TypeBinary, TypeVarBinaryMax,
	TypeDate, TypeDateTime, TypeDateTime2, TypeSmallDateTime, TypeDateTimeOffset, TypeTime,
	TypeUniqueIdentifier, TypeXML, TypeTable, TypeSQLVariant,
}

var lengthTypes = map[string]bool{
	TypeChar:     true,
	TypeVarChar:  true,
	TypeNChar:    true,
	TypeNVarChar: true,
	TypeBinary:   true,
	"VARBINARY":  true,
}

// TakesLength reports whether a type renders a parenthesized size qualifier
func TakesLength(dataType string) bool {
	return lengthTypes[strings.ToUpper(strings.TrimSpace(dataType))]
}

// Handle prefixes used by the canvas for column endpoints
const (
	SourceHandlePrefix = "source-"
	TargetHandlePrefix = "target-"
)

// SourceHandle returns the outgoing handle id of a column
func SourceHandle(columnID int64) string {
	return fmt.Sprintf("%s%d", SourceHandlePrefix, columnID)
}

// TargetHandle returns the incoming handle id of a column
func TargetHandle(columnID int64) string {
	return fmt.Sprintf("%s%d", TargetHandlePrefix, columnID)
}

// HandleColumn extracts the column id from a handle id
func HandleColumn(handle string) (int64, bool) {
	for _, prefix := range []string{SourceHandlePrefix, TargetHandlePrefix} {
		if rest, ok := strings.CutPrefix(handle, prefix); ok {
			id, err := strconv.ParseInt(rest, 10, 64)
			return id, err == nil
		}
	}
	return 0, false
}
