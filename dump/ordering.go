package dump

import "github.com/kbukum/sqlcache/schema"

// OrderingPolicy picks the columns a table's rows are sorted by when dumped.
type OrderingPolicy interface {
	OrderBy(table schema.Table) []string
}

// OrderingFunc adapts a function to OrderingPolicy.
type OrderingFunc func(table schema.Table) []string

// OrderBy calls f.
func (f OrderingFunc) OrderBy(table schema.Table) []string { return f(table) }

// PreferColumns orders by the first candidate column the table has. Tables
// with none of the candidates are dumped in query order.
func PreferColumns(candidates ...string) OrderingPolicy {
	return OrderingFunc(func(table schema.Table) []string {
		for _, c := range candidates {
			if table.HasColumn(c) {
				return []string{c}
			}
		}
		return nil
	})
}

// NoOrdering dumps rows in whatever order the database returns them.
func NoOrdering() OrderingPolicy {
	return OrderingFunc(func(schema.Table) []string { return nil })
}

// DefaultOrdering sorts by "created", falling back to "id".
var DefaultOrdering = PreferColumns("created", "id")
