package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// AsAppError extracts an *AppError from err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether any *AppError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &AppError{Code: code})
}

// --- Constructors ---

// InvalidConfig creates an error for an inconsistent setting.
func InvalidConfig(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: reason, Details: details,
	}
}

// NoTables creates the error returned when there is nothing to dump.
func NoTables() *AppError {
	return &AppError{
		Code: ErrCodeNoTables, Message: "no tables found to dump",
	}
}

// RowShape creates an error for a row whose value count differs from its column count.
func RowShape(table string, columns, values int) *AppError {
	return &AppError{
		Code:    ErrCodeRowShape,
		Message: fmt.Sprintf("table %s has %d columns but row has %d values", table, columns, values),
		Details: map[string]any{"table": table, "columns": columns, "values": values},
	}
}

// Unrenderable creates an error for a value that cannot be written as a SQL literal.
func Unrenderable(value any, dialect string) *AppError {
	return &AppError{
		Code:    ErrCodeUnrenderable,
		Message: fmt.Sprintf("cannot render %T as a %s literal", value, dialect),
		Details: map[string]any{"type": fmt.Sprintf("%T", value), "dialect": dialect},
	}
}

// MultilineLiteral creates an error for a rendered literal that spans
// lines. Dump files hold one statement per line and could not replay it.
func MultilineLiteral(dialect string) *AppError {
	return &AppError{
		Code:    ErrCodeUnrenderable,
		Message: fmt.Sprintf("%s literal contains a line break and cannot be stored on one dump line", dialect),
		Details: map[string]any{"dialect": dialect},
	}
}

// DependencyCycle creates an error for tables whose foreign keys form a cycle.
func DependencyCycle(tables []string) *AppError {
	return &AppError{
		Code:    ErrCodeDependencyCycle,
		Message: fmt.Sprintf("foreign keys form a cycle between tables %v", tables),
		Details: map[string]any{"tables": tables},
	}
}

// QueryFailed creates an error for a failed row query.
func QueryFailed(table string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeQuery, Message: fmt.Sprintf("querying rows of %s failed", table),
		Retryable: true, Details: map[string]any{"table": table}, Cause: cause,
	}
}

// ExecutionFailed creates an error for a failed replayed statement.
func ExecutionFailed(statement string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExecution, Message: "executing statement failed",
		Details: map[string]any{"statement": statement}, Cause: cause,
	}
}

// CacheNotFound creates an error for a missing cache file.
func CacheNotFound(path string) *AppError {
	return &AppError{
		Code: ErrCodeCacheNotFound, Message: fmt.Sprintf("dump file %s does not exist", path),
		Details: map[string]any{"path": path},
	}
}

// CacheIO creates an error for a failed cache file operation.
func CacheIO(op, path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCacheIO, Message: fmt.Sprintf("%s %s failed", op, path),
		Retryable: true, Details: map[string]any{"operation": op, "path": path}, Cause: cause,
	}
}

// Internal creates an error for an unexpected internal failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred", Cause: cause,
	}
}
