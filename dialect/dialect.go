package dialect

import (
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	apperrors "github.com/kbukum/sqlcache/errors"
	"github.com/kbukum/sqlcache/literal"
	"github.com/kbukum/sqlcache/schema"
)

const (
	NamePostgres = "postgres"
	NameSQLite   = "sqlite"
	NameMySQL    = "mysql"
)

type bytesStyle int

const (
	bytesHexEscape bytesStyle = iota // '\x0102'
	bytesXLiteral                    // X'0102'
)

// Dialect is a literal.Dialect configured per SQL flavour.
type Dialect struct {
	name           string
	identQuote     string
	bytes          bytesStyle
	backslashQuote bool
	quotedFloats   bool
}

var _ literal.Dialect = (*Dialect)(nil)

// Postgres returns the PostgreSQL dialect.
func Postgres() *Dialect {
	return &Dialect{name: NamePostgres, identQuote: `"`, bytes: bytesHexEscape, quotedFloats: true}
}

// SQLite returns the SQLite dialect.
func SQLite() *Dialect {
	return &Dialect{name: NameSQLite, identQuote: `"`, bytes: bytesXLiteral}
}

// MySQL returns the MySQL dialect. Backslashes in strings are escaped, as
// MySQL treats them as escape characters unless NO_BACKSLASH_ESCAPES is set.
func MySQL() *Dialect {
	return &Dialect{name: NameMySQL, identQuote: "`", bytes: bytesXLiteral, backslashQuote: true}
}

// ByName returns the dialect registered under name. Common driver aliases
// ("postgresql", "pgx", "sqlite3") are accepted.
func ByName(name string) (*Dialect, error) {
	switch strings.ToLower(name) {
	case NamePostgres, "postgresql", "pgx":
		return Postgres(), nil
	case NameSQLite, "sqlite3":
		return SQLite(), nil
	case NameMySQL, "mariadb":
		return MySQL(), nil
	}
	return nil, apperrors.InvalidConfig("dialect", fmt.Sprintf("unknown dialect %q", name))
}

// FromGorm returns the dialect matching db's dialector.
func FromGorm(db *gorm.DB) (*Dialect, error) {
	return ByName(db.Dialector.Name())
}

// Name returns the dialect name.
func (d *Dialect) Name() string { return d.name }

// QuoteTable quotes a table name, doubling any embedded quote characters.
func (d *Dialect) QuoteTable(name string) string {
	return d.identQuote + strings.ReplaceAll(name, d.identQuote, d.identQuote+d.identQuote) + d.identQuote
}

// EscapeString escapes s for use inside a single-quoted literal.
func (d *Dialect) EscapeString(s string) string {
	if d.backslashQuote {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	return strings.ReplaceAll(s, "'", "''")
}

// QuoteString renders s as a string literal that fits on one line. Line
// breaks use E'\n' escapes on postgres, char() concatenation on sqlite and
// backslash escapes on mysql.
func (d *Dialect) QuoteString(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return "'" + d.EscapeString(s) + "'"
	}
	switch d.name {
	case NamePostgres:
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, "'", "''")
		return "E'" + lineBreakEscapes.Replace(s) + "'"
	case NameMySQL:
		return "'" + lineBreakEscapes.Replace(d.EscapeString(s)) + "'"
	}
	return concatLineBreaks(d, s)
}

var lineBreakEscapes = strings.NewReplacer("\n", `\n`, "\r", `\r`)

// concatLineBreaks joins the quoted line pieces of s with char(10) and
// char(13) calls.
func concatLineBreaks(d *Dialect, s string) string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\n' && c != '\r' {
			continue
		}
		if i > start {
			parts = append(parts, "'"+d.EscapeString(s[start:i])+"'")
		}
		parts = append(parts, fmt.Sprintf("char(%d)", c))
		start = i + 1
	}
	if start < len(s) {
		parts = append(parts, "'"+d.EscapeString(s[start:])+"'")
	}
	return "(" + strings.Join(parts, " || ") + ")"
}

// Literal renders values outside the core renderer's kinds.
func (d *Dialect) Literal(value any, t schema.ColumnType) (string, error) {
	switch v := value.(type) {
	case []byte:
		return d.bytesLiteral(v), nil
	case float32:
		return d.floatLiteral(float64(v), value)
	case float64:
		return d.floatLiteral(v, value)
	case [16]byte:
		if t.Kind == schema.KindUUID {
			return literal.Quote(d, uuid.UUID(v).String()), nil
		}
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128, reflect.Invalid:
		return "", apperrors.Unrenderable(value, d.name)
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return d.bytesLiteral(b), nil
		}
	case reflect.Struct:
		if _, ok := value.(fmt.Stringer); !ok {
			return "", apperrors.Unrenderable(value, d.name)
		}
	}
	return explain(d, value), nil
}

func (d *Dialect) bytesLiteral(b []byte) string {
	if d.bytes == bytesHexEscape {
		return `'\x` + hex.EncodeToString(b) + `'`
	}
	return "X'" + strings.ToUpper(hex.EncodeToString(b)) + "'"
}

func (d *Dialect) floatLiteral(f float64, value any) (string, error) {
	if !math.IsNaN(f) && !math.IsInf(f, 0) {
		return explain(d, value), nil
	}
	if !d.quotedFloats {
		return "", apperrors.Unrenderable(value, d.name)
	}
	switch {
	case math.IsNaN(f):
		return "'NaN'", nil
	case f > 0:
		return "'Infinity'", nil
	}
	return "'-Infinity'", nil
}

// explain renders a single value through gorm's statement explainer.
func explain(d *Dialect, value any) string {
	lit := gormlogger.ExplainSQL("?", nil, "'", value)
	if s, ok := literal.Unquote(lit); ok {
		return d.QuoteString(s)
	}
	return lit
}
