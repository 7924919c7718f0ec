package literal

import (
	"strings"

	"github.com/kbukum/sqlcache/schema"
)

// Dialect holds the target SQL flavour's literal rules.
type Dialect interface {
	// Name identifies the dialect, e.g. "postgres".
	Name() string
	// QuoteTable quotes a table identifier for an INSERT statement.
	QuoteTable(name string) string
	// Literal renders a value the core renderer does not handle itself.
	Literal(value any, t schema.ColumnType) (string, error)
}

// StringEscaper is implemented by dialects whose string literals need more
// than doubling single quotes.
type StringEscaper interface {
	EscapeString(s string) string
}

// StringQuoter is implemented by dialects that render whole string
// literals themselves, e.g. to spell line breaks within a single line.
type StringQuoter interface {
	QuoteString(s string) string
}

// Quote renders s as a string literal using the dialect's rules.
func Quote(d Dialect, s string) string {
	if q, ok := d.(StringQuoter); ok {
		return q.QuoteString(s)
	}
	if e, ok := d.(StringEscaper); ok {
		return "'" + e.EscapeString(s) + "'"
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Unquote reverses Quote for a literal produced by the dialect. The second
// result is false when lit is not a plain single-quoted literal.
func Unquote(lit string) (string, bool) {
	if len(lit) < 2 || lit[0] != '\'' || lit[len(lit)-1] != '\'' {
		return "", false
	}
	return strings.ReplaceAll(lit[1:len(lit)-1], "''", "'"), true
}
