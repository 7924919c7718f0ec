package literal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/kbukum/sqlcache/errors"
	"github.com/kbukum/sqlcache/schema"
)

// Null is the literal rendered for nil values.
const Null = "Null"

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05.999999999"
	offsetLayout   = "-07:00"
)

// Renderer renders values as SQL literals. The zero value is ready to use.
type Renderer struct {
	// EscapeJSON doubles single quotes inside rendered JSON objects. JSON is
	// emitted verbatim between quotes when false.
	EscapeJSON bool
}

var defaultRenderer Renderer

// Render renders value for a column of type t with the default Renderer.
func Render(d Dialect, value any, t schema.ColumnType) (string, error) {
	return defaultRenderer.Render(d, value, t)
}

// Render renders value for a column of type t.
func (r Renderer) Render(d Dialect, value any, t schema.ColumnType) (string, error) {
	kind, v, err := Classify(value, t)
	if err != nil {
		return "", apperrors.Unrenderable(value, d.Name()).WithCause(err)
	}
	// Arrays decoded from json columns stay json.
	if kind == KindSequence && t.Kind == schema.KindJSON {
		kind = KindMapping
	}
	switch kind {
	case KindNull:
		return Null, nil
	case KindInteger:
		return formatInteger(v), nil
	case KindText:
		return Quote(d, textOf(v, t)), nil
	case KindSequence:
		body, err := r.renderArray(d, reflect.ValueOf(v), t.Element())
		if err != nil {
			return "", err
		}
		return Quote(d, body), nil
	case KindMapping:
		doc, err := marshalJSON(v)
		if err != nil {
			return "", apperrors.Unrenderable(value, d.Name()).WithCause(err)
		}
		if r.EscapeJSON {
			return Quote(d, doc), nil
		}
		return "'" + doc + "'", nil
	}
	return d.Literal(v, t)
}

// renderArray renders a sequence as a Postgres array literal body.
func (r Renderer) renderArray(d Dialect, rv reflect.Value, elem schema.ColumnType) (string, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		item, err := r.renderElement(d, rv.Index(i).Interface(), elem)
		if err != nil {
			return "", err
		}
		b.WriteString(item)
	}
	b.WriteByte('}')
	return b.String(), nil
}

func (r Renderer) renderElement(d Dialect, value any, t schema.ColumnType) (string, error) {
	kind, v, err := Classify(value, t)
	if err != nil {
		return "", apperrors.Unrenderable(value, d.Name()).WithCause(err)
	}
	switch kind {
	case KindNull:
		return Null, nil
	case KindInteger:
		return formatInteger(v), nil
	case KindText:
		return quoteElement(textOf(v, t)), nil
	case KindSequence:
		return r.renderArray(d, reflect.ValueOf(v), t.Element())
	case KindMapping:
		doc, err := marshalJSON(v)
		if err != nil {
			return "", apperrors.Unrenderable(value, d.Name()).WithCause(err)
		}
		return quoteElement(doc), nil
	}
	lit, err := d.Literal(v, t)
	if err != nil {
		return "", err
	}
	if s, ok := Unquote(lit); ok {
		return quoteElement(s), nil
	}
	return lit, nil
}

func quoteElement(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func formatInteger(v any) string {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	}
	return strconv.FormatInt(rv.Int(), 10)
}

// textOf converts a text-like value to its unquoted literal text.
func textOf(v any, t schema.ColumnType) string {
	switch x := v.(type) {
	case time.Time:
		return formatTime(x, t)
	case time.Duration:
		return FormatInterval(x)
	case json.RawMessage:
		return string(x)
	case []byte:
		return string(x)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	if rv.Kind() == reflect.Slice {
		return string(rv.Bytes())
	}
	return fmt.Sprint(v)
}

func formatTime(tm time.Time, t schema.ColumnType) string {
	if t.Kind == schema.KindDate {
		return tm.Format(dateLayout)
	}
	s := tm.Format(dateTimeLayout)
	if tm.Location() != time.UTC {
		s += tm.Format(offsetLayout)
	}
	return s
}

// FormatInterval renders d in ISO 8601 duration form, e.g. P1DT2H30M.
func FormatInterval(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute

	var b strings.Builder
	b.WriteByte('P')
	if days > 0 {
		fmt.Fprintf(&b, "%s%dD", sign, days)
	}
	if hours > 0 || minutes > 0 || d > 0 {
		b.WriteByte('T')
		if hours > 0 {
			fmt.Fprintf(&b, "%s%dH", sign, hours)
		}
		if minutes > 0 {
			fmt.Fprintf(&b, "%s%dM", sign, minutes)
		}
		if d > 0 {
			secs := strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
			fmt.Fprintf(&b, "%s%sS", sign, secs)
		}
	}
	return b.String()
}

// marshalJSON encodes v compactly without HTML escaping.
func marshalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
