package logger

import (
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldStage     = "stage"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldTable     = "table"
	FieldTables    = "tables"
	FieldRows      = "rows"
	FieldLines     = "lines"
	FieldPath      = "path"
	FieldMode      = "mode"
	FieldCaller    = "caller"
	FieldDialect   = "dialect"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("dumped", logger.Fields("table", "users", "rows", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// DumpFields identifies a dump file and the cache mode acting on it.
func DumpFields(path, mode string) map[string]interface{} {
	return map[string]interface{}{
		FieldPath: path,
		FieldMode: mode,
	}
}

// StageError adds the failing stage and error to fields.
func StageError(fields map[string]interface{}, stage string, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldStage] = stage
	if err != nil {
		fields[FieldError] = err.Error()
	}
	return fields
}

// MergeWithDuration adds a duration field to an existing map.
func MergeWithDuration(fields map[string]interface{}, d time.Duration) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
