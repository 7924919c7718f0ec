package schema

// Column is a named, typed column.
type Column struct {
	Name string
	Type ColumnType
}

// Table is a named table with columns in declaration order.
type Table struct {
	Name    string
	Columns []Column
}

// NewTable builds a table from columns.
func NewTable(name string, columns ...Column) Table {
	return Table{Name: name, Columns: columns}
}

// Col is shorthand for a Column of the given kind.
func Col(name string, kind Kind) Column {
	return Column{Name: name, Type: TypeOf(kind)}
}

// ColumnNames returns the column names in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the table has a column with the given name.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Registry exposes tables in dependency order.
type Registry interface {
	Tables() []Table
}

// StaticRegistry is a Registry over a fixed, already ordered list of tables.
type StaticRegistry struct {
	tables []Table
}

// Static returns a Registry that yields tables in the given order.
func Static(tables ...Table) *StaticRegistry {
	return &StaticRegistry{tables: tables}
}

// Tables returns a copy of the registered tables.
func (r *StaticRegistry) Tables() []Table {
	out := make([]Table, len(r.tables))
	copy(out, r.tables)
	return out
}
