package literal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/sqlcache/errors"
	"github.com/kbukum/sqlcache/schema"
)

// testDialect renders bools and floats, and refuses everything else.
type testDialect struct{}

func (testDialect) Name() string { return "test" }

func (testDialect) QuoteTable(name string) string { return `"` + name + `"` }

func (testDialect) Literal(value any, _ schema.ColumnType) (string, error) {
	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case []byte:
		return fmt.Sprintf(`'\x%x'`, v), nil
	}
	return "", apperrors.Unrenderable(value, "test")
}

type backslashDialect struct{ testDialect }

func (backslashDialect) EscapeString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

type status int

type label string

type failingValuer struct{}

func (failingValuer) Value() (any, error) { return nil, errors.New("no value") }

var (
	unknown  = schema.ColumnType{}
	textCol  = schema.TypeOf(schema.KindText)
	intCol   = schema.TypeOf(schema.KindInteger)
	dateCol  = schema.TypeOf(schema.KindDate)
	jsonCol  = schema.TypeOf(schema.KindJSON)
	textArr  = schema.ArrayOf(schema.TypeOf(schema.KindText))
	intArr2D = schema.ArrayOf(schema.ArrayOf(schema.TypeOf(schema.KindInteger)))
)

func TestRender(t *testing.T) {
	var nilPtr *string
	name := "Ann"
	est := time.FixedZone("EST", -5*3600)

	tests := []struct {
		name  string
		value any
		typ   schema.ColumnType
		want  string
	}{
		{"nil", nil, textCol, "Null"},
		{"nil in integer column", nil, intCol, "Null"},
		{"typed nil pointer", nilPtr, textCol, "Null"},
		{"nil slice", []string(nil), textArr, "Null"},
		{"null valuer", sql.NullString{}, textCol, "Null"},
		{"int", 42, intCol, "42"},
		{"negative int64", int64(-7), unknown, "-7"},
		{"uint64", uint64(18446744073709551615), unknown, "18446744073709551615"},
		{"named int", status(3), unknown, "3"},
		{"string", "Name1", textCol, "'Name1'"},
		{"string with quotes", "O'Brien's", textCol, "'O''Brien''s'"},
		{"named string", label("x"), textCol, "'x'"},
		{"pointer to string", &name, textCol, "'Ann'"},
		{"valid valuer", sql.NullString{String: "v", Valid: true}, textCol, "'v'"},
		{"datetime", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), unknown, "'2020-01-01T00:00:00'"},
		{"datetime fraction", time.Date(2020, 1, 1, 10, 30, 0, 500000000, time.UTC), unknown, "'2020-01-01T10:30:00.5'"},
		{"datetime with offset", time.Date(2020, 1, 1, 8, 0, 0, 0, est), unknown, "'2020-01-01T08:00:00-05:00'"},
		{"date column", time.Date(2021, 3, 4, 15, 0, 0, 0, time.UTC), dateCol, "'2021-03-04'"},
		{"interval", 26*time.Hour + 30*time.Minute, schema.TypeOf(schema.KindInterval), "'P1DT2H30M'"},
		{"duration in integer column", 5 * time.Second, intCol, "5000000000"},
		{"bytes in text column", []byte("it's"), textCol, "'it''s'"},
		{"raw json", json.RawMessage(`{"a":1}`), unknown, `'{"a":1}'`},
		{"int array", []int{1, 2, 3}, schema.ArrayOf(intCol), "'{1,2,3}'"},
		{"empty array", []int{}, schema.ArrayOf(intCol), "'{}'"},
		{"text array", []string{"a", "b c"}, textArr, `'{"a","b c"}'`},
		{"text array escapes", []string{`say "hi"`, `back\slash`, "it's"}, textArr, `'{"say \"hi\"","back\\slash","it''s"}'`},
		{"array with nil", []any{1, nil, 3}, schema.ArrayOf(intCol), "'{1,Null,3}'"},
		{"nested array", [][]int{{1, 2}, {3, 4}}, intArr2D, "'{{1,2},{3,4}}'"},
		{"fixed array", [2]string{"x", "y"}, textArr, `'{"x","y"}'`},
		{"bool array via dialect", []bool{true, false}, unknown, "'{true,false}'"},
		{"bytes array via dialect", [][]byte{{1, 2}}, unknown, `'{"\\x0102"}'`},
		{"map", map[string]any{"k": "v", "n": 1}, jsonCol, `'{"k":"v","n":1}'`},
		{"json array column", []any{"a", 1.5}, jsonCol, `'["a",1.5]'`},
		{"map keeps quotes", map[string]string{"q": "it's"}, jsonCol, `'{"q":"it's"}'`},
		{"map no html escaping", map[string]string{"h": "<a&b>"}, jsonCol, `'{"h":"<a&b>"}'`},
		{"bool via dialect", true, unknown, "true"},
		{"float via dialect", 1.5, unknown, "1.5"},
		{"uuid valuer", uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), unknown, "'6ba7b810-9dad-11d1-80b4-00c04fd430c8'"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Render(testDialect{}, tc.value, tc.typ)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("Render() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestRender_EscapeJSON(t *testing.T) {
	r := Renderer{EscapeJSON: true}
	got, err := r.Render(testDialect{}, map[string]string{"q": "it's"}, jsonCol)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := `'{"q":"it''s"}'`; got != want {
		t.Errorf("Render() = %s, want %s", got, want)
	}
}

func TestRender_DialectEscaper(t *testing.T) {
	got, err := Render(backslashDialect{}, `a\b'c`, textCol)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := `'a\\b\'c'`; got != want {
		t.Errorf("Render() = %s, want %s", got, want)
	}
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"dialect refuses", struct{ A int }{1}},
		{"failing valuer", failingValuer{}},
		{"unencodable map", map[string]any{"f": func() {}}},
		{"dialect refuses element", []complex128{1i}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Render(testDialect{}, tc.value, unknown)
			if !apperrors.HasCode(err, apperrors.ErrCodeUnrenderable) {
				t.Errorf("Render() error = %v, want UNRENDERABLE_VALUE", err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		value any
		typ   schema.ColumnType
		want  ValueKind
	}{
		{"nil", nil, unknown, KindNull},
		{"int8", int8(1), unknown, KindInteger},
		{"string", "s", unknown, KindText},
		{"time", time.Now(), unknown, KindText},
		{"duration", time.Second, unknown, KindText},
		{"duration integer column", time.Second, intCol, KindInteger},
		{"bytes unknown column", []byte{1}, unknown, KindOther},
		{"bytes json column", []byte("{}"), jsonCol, KindText},
		{"slice", []int{1}, unknown, KindSequence},
		{"map", map[string]int{}, unknown, KindMapping},
		{"bool", false, unknown, KindOther},
		{"float", 2.5, unknown, KindOther},
		{"byte array", [4]byte{}, unknown, KindOther},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, _, err := Classify(tc.value, tc.typ)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("Classify() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFormatInterval(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "PT0S"},
		{90 * time.Second, "PT1M30S"},
		{48 * time.Hour, "P2D"},
		{1500 * time.Millisecond, "PT1.5S"},
		{-(25 * time.Hour), "P-1DT-1H"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := FormatInterval(tc.in); got != tc.want {
				t.Errorf("FormatInterval(%v) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestQuoteUnquote(t *testing.T) {
	q := Quote(testDialect{}, "it's")
	if q != "'it''s'" {
		t.Errorf("Quote() = %s", q)
	}
	s, ok := Unquote(q)
	if !ok || s != "it's" {
		t.Errorf("Unquote() = %q, %v", s, ok)
	}
	if _, ok := Unquote("42"); ok {
		t.Error("Unquote(42) should fail")
	}
}
