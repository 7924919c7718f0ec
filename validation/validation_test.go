package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/sqlcache/errors"
)

func TestValidatorRequired(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid", "hello", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := New().Required("field", tc.value)
			if v.HasErrors() != tc.wantErr {
				t.Errorf("HasErrors() = %v, want %v", v.HasErrors(), tc.wantErr)
			}
		})
	}
}

func TestValidatorFileName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"matches", "build-42", false},
		{"dotted", "v1.2.3", false},
		{"empty skipped", "", false},
		{"slash", "a/b", true},
		{"parent", "..", true},
		{"space", "a b", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := New().FileName("id", tc.value)
			if v.HasErrors() != tc.wantErr {
				t.Errorf("HasErrors() = %v, want %v", v.HasErrors(), tc.wantErr)
			}
		})
	}
}

func TestValidatorDuration(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"", ""},
		{"150ms", ""},
		{"24h", ""},
		{"later", `invalid duration "later"`},
		{"-1s", "must not be negative"},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			v := New().Duration("ttl", tc.value)
			got := ""
			if v.HasErrors() {
				got = v.Errors()[0].Message
			}
			if got != tc.want {
				t.Errorf("message = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidatorHostPort(t *testing.T) {
	if New().HostPort("addr", "localhost:6379").HasErrors() {
		t.Error("expected host:port to pass")
	}
	if New().HostPort("addr", "").HasErrors() {
		t.Error("expected empty value to be skipped")
	}
	if !New().HostPort("addr", "localhost").HasErrors() {
		t.Error("expected missing port to fail")
	}
}

func TestValidatorTogether(t *testing.T) {
	if New().Together("access_key", "", "secret_key", "").HasErrors() {
		t.Error("expected both empty to pass")
	}
	if New().Together("access_key", "a", "secret_key", "b").HasErrors() {
		t.Error("expected both set to pass")
	}
	v := New().Together("access_key", "a", "secret_key", "")
	if !v.HasErrors() || v.Errors()[0].Message != "must be set together with secret_key" {
		t.Errorf("errors = %v", v.Errors())
	}
}

func TestSection(t *testing.T) {
	err := Section("s3").Required("bucket", "").Err()
	if err == nil || err.Error() != "INVALID_CONFIG: s3.bucket: is required" {
		t.Errorf("Err() = %v", err)
	}
	if Section("s3").Required("bucket", "b").Err() != nil {
		t.Error("expected nil error when checks pass")
	}
}

func TestValidatorCustom(t *testing.T) {
	if New().Custom(true, "f", "bad").HasErrors() {
		t.Error("expected no error when condition holds")
	}
	if !New().Custom(false, "f", "bad").HasErrors() {
		t.Error("expected error when condition fails")
	}
}

func TestValidatorValidate(t *testing.T) {
	if err := New().Validate(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	err := New().Required("a", "").Custom(false, "b", "is wrong").Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Code != errors.ErrCodeInvalidConfig {
		t.Errorf("Code = %s, want %s", err.Code, errors.ErrCodeInvalidConfig)
	}
	if err.Message != "a: is required; b: is wrong" {
		t.Errorf("Message = %q", err.Message)
	}
	fields, ok := err.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("Details[fields] = %v", err.Details["fields"])
	}
}

func TestRequiredFunc(t *testing.T) {
	if err := Required("name", "value"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := Required("name", ""); err == nil {
		t.Error("expected error for empty required field")
	}
}

type identity struct {
	Strategy string `mapstructure:"strategy" validate:"omitempty,oneof=address type static"`
	Value    string `mapstructure:"value"`
}

type settings struct {
	Identity identity `mapstructure:"identity"`
	Provider string   `mapstructure:"provider" validate:"required"`
	MaxLines int      `validate:"min=0"`
}

func TestStructValidateValid(t *testing.T) {
	err := Validate(settings{Identity: identity{Strategy: "type"}, Provider: "local"})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	err := Validate(settings{Identity: identity{Strategy: "random"}, MaxLines: -1})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{
		"identity.strategy: must be one of: address type static",
		"provider: is required",
		"max_lines: must be at least 0",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"UseTmp":   "use_tmp",
		"BaseDir":  "base_dir",
		"provider": "provider",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
