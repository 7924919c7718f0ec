// Package errors provides the structured error type used across sqlcache.
//
// Every failure surfaced by the dump, replay and cache layers is an
// *AppError carrying a machine-readable ErrorCode, an optional cause and
// free-form details (table, statement, path). Codes can be matched with
// the standard library:
//
//	if errors.Is(err, apperrors.New(apperrors.ErrCodeNoTables, "")) { ... }
//
// or more simply with HasCode.
package errors
