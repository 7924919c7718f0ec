package schema

import "strings"

// Kind is the semantic value-type tag of a column.
type Kind int

const (
	KindUnknown Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindText
	KindDate
	KindDateTime
	KindInterval
	KindBytes
	KindUUID
	KindJSON
	KindArray
)

var kindNames = map[Kind]string{
	KindUnknown:  "unknown",
	KindBool:     "bool",
	KindInteger:  "integer",
	KindFloat:    "float",
	KindText:     "text",
	KindDate:     "date",
	KindDateTime: "datetime",
	KindInterval: "interval",
	KindBytes:    "bytes",
	KindUUID:     "uuid",
	KindJSON:     "json",
	KindArray:    "array",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// ColumnType is the declared type of a column. Elem is set for arrays.
type ColumnType struct {
	Kind   Kind
	Elem   *ColumnType
	DBType string
}

// TypeOf returns a ColumnType of the given kind.
func TypeOf(k Kind) ColumnType {
	return ColumnType{Kind: k}
}

// ArrayOf returns an array ColumnType with the given element type.
func ArrayOf(elem ColumnType) ColumnType {
	return ColumnType{Kind: KindArray, Elem: &elem}
}

// Element returns the element type of an array, or an unknown type.
func (t ColumnType) Element() ColumnType {
	if t.Elem == nil {
		return ColumnType{}
	}
	return *t.Elem
}

func (t ColumnType) String() string {
	if t.Kind == KindArray {
		return t.Element().String() + "[]"
	}
	return t.Kind.String()
}

// ParseType maps a database or gorm data type name to a ColumnType.
// Postgres style array suffixes ("text[]") and "_text" names are recognised.
func ParseType(dbType string) ColumnType {
	name := strings.ToLower(strings.TrimSpace(dbType))
	if open := strings.IndexByte(name, '('); open >= 0 {
		rest := ""
		if end := strings.IndexByte(name, ')'); end > open {
			rest = name[end+1:]
		}
		name = strings.TrimSpace(name[:open]) + rest
	}
	if strings.HasSuffix(name, "[]") {
		t := ArrayOf(ParseType(strings.TrimSuffix(name, "[]")))
		t.DBType = dbType
		return t
	}
	if strings.HasPrefix(name, "_") && len(name) > 1 {
		t := ArrayOf(ParseType(name[1:]))
		t.DBType = dbType
		return t
	}
	return ColumnType{Kind: kindOf(name), DBType: dbType}
}

func kindOf(name string) Kind {
	switch name {
	case "bool", "boolean":
		return KindBool
	case "int", "uint", "integer", "smallint", "bigint", "tinyint", "mediumint",
		"int2", "int4", "int8", "serial", "bigserial", "smallserial":
		return KindInteger
	case "float", "float4", "float8", "real", "double", "double precision", "numeric", "decimal":
		return KindFloat
	case "string", "text", "varchar", "character varying", "char", "character",
		"nvarchar", "citext", "tinytext", "mediumtext", "longtext", "enum":
		return KindText
	case "date":
		return KindDate
	case "time", "datetime", "timestamp", "timestamptz", "timestamp with time zone",
		"timestamp without time zone", "datetime2":
		return KindDateTime
	case "interval":
		return KindInterval
	case "bytes", "blob", "bytea", "binary", "varbinary", "longblob":
		return KindBytes
	case "uuid", "uniqueidentifier":
		return KindUUID
	case "json", "jsonb":
		return KindJSON
	}
	return KindUnknown
}
