package session

import (
	"context"
	"strings"

	"github.com/kbukum/sqlcache/literal"
	"github.com/kbukum/sqlcache/schema"
)

// Session is a live database connection as seen by the dump manager.
type Session interface {
	// Query returns every row of table, one value per column in column
	// order, sorted by orderBy when it is non-empty.
	Query(ctx context.Context, table schema.Table, orderBy []string) (Rows, error)
	// Exec executes a single literal statement.
	Exec(ctx context.Context, statement string) error
	// Flush makes executed statements durable. Sessions that execute
	// eagerly may treat it as a no-op.
	Flush(ctx context.Context) error
	// Dialect returns the literal rules of the underlying database.
	Dialect() literal.Dialect
}

// Rows iterates over query results.
type Rows interface {
	Next() bool
	Values() ([]any, error)
	Err() error
	Close() error
}

// SelectStatement builds the query used to read a table.
func SelectStatement(d literal.Dialect, table schema.Table, orderBy []string) string {
	cols := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = d.QuoteTable(c.Name)
	}
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(d.QuoteTable(table.Name))
	if len(orderBy) > 0 {
		order := make([]string, len(orderBy))
		for i, c := range orderBy {
			order[i] = d.QuoteTable(c)
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(order, ", "))
	}
	return b.String()
}

// normalize converts byte slices from non-binary columns to strings.
func normalize(table schema.Table, values []any) []any {
	for i, v := range values {
		b, ok := v.([]byte)
		if !ok || i >= len(table.Columns) {
			continue
		}
		switch table.Columns[i].Type.Kind {
		case schema.KindBytes, schema.KindUnknown:
			continue
		}
		values[i] = string(b)
	}
	return values
}
