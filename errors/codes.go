package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates inconsistent or invalid settings.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Dump errors
const (
	// ErrCodeNoTables indicates the schema registry exposed no tables to dump.
	ErrCodeNoTables ErrorCode = "NO_TABLES"
	// ErrCodeRowShape indicates a row whose width does not match its table.
	ErrCodeRowShape ErrorCode = "ROW_SHAPE"
	// ErrCodeUnrenderable indicates a value with no SQL literal form.
	ErrCodeUnrenderable ErrorCode = "UNRENDERABLE_VALUE"
	// ErrCodeDependencyCycle indicates tables that cannot be ordered by their foreign keys.
	ErrCodeDependencyCycle ErrorCode = "DEPENDENCY_CYCLE"
)

// Database errors
const (
	// ErrCodeQuery indicates a failure reading rows.
	ErrCodeQuery ErrorCode = "QUERY_FAILED"
	// ErrCodeExecution indicates a failure executing a replayed statement.
	ErrCodeExecution ErrorCode = "EXECUTION_FAILED"
)

// Cache file errors
const (
	// ErrCodeCacheNotFound indicates the cache file does not exist.
	ErrCodeCacheNotFound ErrorCode = "CACHE_NOT_FOUND"
	// ErrCodeCacheIO indicates any other failure reading or writing a cache file.
	ErrCodeCacheIO ErrorCode = "CACHE_IO"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeQuery:     true,
	ErrCodeExecution: false,
	ErrCodeCacheIO:   true,
	ErrCodeInternal:  false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
