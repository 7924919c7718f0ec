package literal

import (
	"database/sql/driver"
	"encoding/json"
	"reflect"
	"time"

	"github.com/kbukum/sqlcache/schema"
)

// ValueKind is the closed set of shapes the renderer distinguishes.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInteger
	KindText
	KindSequence
	KindMapping
	KindOther
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindText:
		return "text"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	}
	return "other"
}

var (
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
	rawJSONType  = reflect.TypeOf(json.RawMessage(nil))
)

// Classify reports how value would be rendered into a column of type t,
// along with the value after pointer dereferencing and driver.Valuer
// resolution.
func Classify(value any, t schema.ColumnType) (ValueKind, any, error) {
	for {
		if value == nil {
			return KindNull, nil, nil
		}
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface:
			if rv.IsNil() {
				return KindNull, nil, nil
			}
		case reflect.Slice, reflect.Map:
			if rv.IsNil() {
				return KindNull, nil, nil
			}
		}
		if v, ok := value.(driver.Valuer); ok {
			resolved, err := v.Value()
			if err != nil {
				return KindOther, value, err
			}
			if resolved == nil {
				return KindNull, nil, nil
			}
			if sameDynamicValue(resolved, value) {
				break
			}
			value = resolved
			continue
		}
		if rv.Kind() == reflect.Pointer {
			value = rv.Elem().Interface()
			continue
		}
		break
	}

	rv := reflect.ValueOf(value)
	switch rv.Type() {
	case durationType:
		if t.Kind == schema.KindInteger {
			return KindInteger, value, nil
		}
		return KindText, value, nil
	case timeType:
		return KindText, value, nil
	case rawJSONType:
		return KindText, value, nil
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return KindInteger, value, nil
	case reflect.String:
		return KindText, value, nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			if t.Kind == schema.KindText || t.Kind == schema.KindJSON {
				return KindText, value, nil
			}
			return KindOther, value, nil
		}
		return KindSequence, value, nil
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return KindOther, value, nil
		}
		return KindSequence, value, nil
	case reflect.Map:
		return KindMapping, value, nil
	}
	return KindOther, value, nil
}

// sameDynamicValue guards against Valuers that return themselves.
func sameDynamicValue(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
