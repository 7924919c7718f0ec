package validation

import (
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/kbukum/sqlcache/errors"
)

// fileNamePart matches values that can be embedded in a dump file name.
var fileNamePart = regexp.MustCompile(`^[\w.-]+$`)

// Validator accumulates field errors for checks that struct tags cannot
// express, such as settings that depend on each other.
type Validator struct {
	prefix string
	errors []FieldError
}

// FieldError is one failed check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{}
}

// Section creates a Validator whose field names are prefixed with name,
// e.g. Section("s3") reports "s3.bucket".
func Section(name string) *Validator {
	return &Validator{prefix: name + "."}
}

// AddError records a failed check for field.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: v.prefix + field, Message: message})
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns the failed checks in the order they ran.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an INVALID_CONFIG AppError listing every failed check,
// or nil.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	return fieldsError(v.errors)
}

// Err is Validate as a plain error, nil when every check passed.
func (v *Validator) Err() error {
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func fieldsError(fields []FieldError) *errors.AppError {
	messages := make([]string, len(fields))
	for i, e := range fields {
		messages[i] = e.Field + ": " + e.Message
	}
	return errors.New(errors.ErrCodeInvalidConfig, strings.Join(messages, "; ")).
		WithDetail("fields", fields)
}

// Required fails for empty or blank values.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// FileName fails for non-empty values that are unsafe inside a dump file
// name: anything but letters, digits, '_', '.' and '-', or a dot-only name.
func (v *Validator) FileName(field, value string) *Validator {
	if value == "" {
		return v
	}
	if !fileNamePart.MatchString(value) || strings.Trim(value, ".") == "" {
		v.AddError(field, "may only contain letters, digits, '_', '.' and '-'")
	}
	return v
}

// Duration fails for non-empty values that time.ParseDuration rejects or
// that are negative.
func (v *Validator) Duration(field, value string) *Validator {
	if value == "" {
		return v
	}
	d, err := time.ParseDuration(value)
	switch {
	case err != nil:
		v.AddError(field, fmt.Sprintf("invalid duration %q", value))
	case d < 0:
		v.AddError(field, "must not be negative")
	}
	return v
}

// HostPort fails for non-empty values that are not host:port pairs.
func (v *Validator) HostPort(field, value string) *Validator {
	if value == "" {
		return v
	}
	if _, port, err := net.SplitHostPort(value); err != nil || port == "" {
		v.AddError(field, "must be a host:port address")
	}
	return v
}

// Together fails when exactly one of two settings is given.
func (v *Validator) Together(field, value, other, otherValue string) *Validator {
	if (value == "") != (otherValue == "") {
		v.AddError(field, fmt.Sprintf("must be set together with %s", other))
	}
	return v
}

// Custom records message for field unless condition holds.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}

// Required validates a single required field.
func Required(field, value string) error {
	return New().Required(field, value).Err()
}
