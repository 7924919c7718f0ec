package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/sqlcache/errors"
	"github.com/kbukum/sqlcache/logger"
	"github.com/kbukum/sqlcache/resilience"
)

// mockStorage implements Storage for testing.
type mockStorage struct {
	data    map[string][]byte
	readErr error
}

func newMockStorage() *mockStorage {
	return &mockStorage{data: make(map[string][]byte)}
}

func (m *mockStorage) Exists(_ context.Context, path string) (bool, error) {
	_, ok := m.data[path]
	return ok, nil
}

func (m *mockStorage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	data, ok := m.data[path]
	if !ok {
		return nil, apperrors.CacheNotFound(path)
	}
	if m.readErr != nil {
		return io.NopCloser(&errReader{m.readErr}), nil
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockStorage) Upload(_ context.Context, path string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.data[path] = data
	return nil
}

func (m *mockStorage) Delete(_ context.Context, path string) error {
	delete(m.data, path)
	return nil
}

type errReader struct{ err error }

func (r *errReader) Read([]byte) (int, error) { return 0, r.err }

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single no newline", "A;", []string{"A;"}},
		{"single with newline", "INSERT INTO \"t\" (c) VALUES (1);\n", []string{"INSERT INTO \"t\" (c) VALUES (1);\n"}},
		{"two", "A;\nB;", []string{"A;\n", "B;"}},
		{"blank line", "A;\n\nB;\n", []string{"A;\n", "\n", "B;\n"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SplitLines([]byte(tc.in)); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("SplitLines() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestWriteReadLines(t *testing.T) {
	m := newMockStorage()
	ctx := context.Background()
	if err := WriteLines(ctx, m, "a.dump", []string{"A;", "B;", "C;"}); err != nil {
		t.Fatal(err)
	}
	if string(m.data["a.dump"]) != "A;\nB;\nC;" {
		t.Errorf("written = %q", m.data["a.dump"])
	}
	got, err := ReadLines(ctx, m, "a.dump")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"A;\n", "B;\n", "C;"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ReadLines() = %q, want %q", got, want)
	}
}

func TestReadLinesErrors(t *testing.T) {
	m := newMockStorage()
	ctx := context.Background()
	if _, err := ReadLines(ctx, m, "missing"); !apperrors.HasCode(err, apperrors.ErrCodeCacheNotFound) {
		t.Errorf("ReadLines(missing) error = %v, want CACHE_NOT_FOUND", err)
	}
	m.data["x"] = []byte("A;")
	m.readErr = fmt.Errorf("disk error")
	if _, err := ReadLines(ctx, m, "x"); !apperrors.HasCode(err, apperrors.ErrCodeCacheIO) {
		t.Errorf("ReadLines(x) error = %v, want CACHE_IO", err)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(Config{Provider: "ftp"}, nil, logger.NewNop()); err == nil {
		t.Error("expected error for unknown provider")
	}
	// registered name but no factory imported in this package's tests
	if _, err := New(Config{Provider: ProviderS3}, nil, logger.NewNop()); err == nil {
		t.Error("expected error for unregistered provider")
	}
}

func TestRegisterFactory(t *testing.T) {
	m := newMockStorage()
	RegisterFactory(ProviderRedis, func(any, *logger.Logger) (Storage, error) { return m, nil })
	defer func() {
		factoriesMu.Lock()
		delete(factories, ProviderRedis)
		factoriesMu.Unlock()
	}()
	got, err := New(Config{Provider: ProviderRedis}, nil, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if got != m {
		t.Error("New() should return the registered factory's storage")
	}
}

func TestConfig(t *testing.T) {
	c := Config{}
	c.ApplyDefaults()
	if c.Provider != ProviderLocal {
		t.Errorf("Provider = %q, want local", c.Provider)
	}
	if err := (&Config{Provider: "ftp"}).Validate(); err == nil {
		t.Error("expected validation error")
	}
}

// flakyStorage fails the first failures calls of every operation.
type flakyStorage struct {
	*mockStorage
	failures int
	calls    int
}

func (f *flakyStorage) fail(op, path string) error {
	f.calls++
	if f.calls <= f.failures {
		return apperrors.CacheIO(op, path, errors.New("connection reset"))
	}
	return nil
}

func (f *flakyStorage) Exists(ctx context.Context, path string) (bool, error) {
	if err := f.fail("exists", path); err != nil {
		return false, err
	}
	return f.mockStorage.Exists(ctx, path)
}

func (f *flakyStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := f.fail("download", path); err != nil {
		return nil, err
	}
	return f.mockStorage.Download(ctx, path)
}

func (f *flakyStorage) Upload(ctx context.Context, path string, r io.Reader) error {
	// Consume part of the body before failing.
	if f.calls < f.failures {
		_, _ = io.ReadFull(r, make([]byte, 2))
	}
	if err := f.fail("upload", path); err != nil {
		return err
	}
	return f.mockStorage.Upload(ctx, path, r)
}

func retryPolicy(attempts int) resilience.Config {
	return resilience.Config{MaxAttempts: attempts, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()
	f := &flakyStorage{mockStorage: newMockStorage(), failures: 2}
	s := WithRetry(f, retryPolicy(3), logger.NewNop())

	if err := WriteLines(ctx, s, "a.dump", []string{"A;", "B;"}); err != nil {
		t.Fatalf("WriteLines() error = %v", err)
	}
	if got := string(f.data["a.dump"]); got != "A;\nB;" {
		t.Errorf("stored %q, want full body after retries", got)
	}

	f.calls = 0
	lines, err := ReadLines(ctx, s, "a.dump")
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	if len(lines) != 2 {
		t.Errorf("lines = %q", lines)
	}

	f.calls, f.failures = 0, 5
	if _, err := s.Exists(ctx, "a.dump"); !apperrors.HasCode(err, apperrors.ErrCodeCacheIO) {
		t.Errorf("Exists() error = %v, want CACHE_IO after exhausting attempts", err)
	}
	if f.calls != 3 {
		t.Errorf("calls = %d, want 3", f.calls)
	}
}

func TestWithRetrySkipsNotFound(t *testing.T) {
	f := &flakyStorage{mockStorage: newMockStorage()}
	s := WithRetry(f, retryPolicy(3), nil)
	if _, err := s.Download(context.Background(), "missing.dump"); !apperrors.HasCode(err, apperrors.ErrCodeCacheNotFound) {
		t.Errorf("Download() error = %v, want CACHE_NOT_FOUND", err)
	}
	if f.calls != 1 {
		t.Errorf("calls = %d, want 1", f.calls)
	}
}

func TestWithRetrySingleAttempt(t *testing.T) {
	m := newMockStorage()
	if got := WithRetry(m, retryPolicy(1), nil); got != Storage(m) {
		t.Error("one attempt should return the storage unchanged")
	}
}

func TestNewWrapsForRetry(t *testing.T) {
	m := newMockStorage()
	RegisterFactory(ProviderRedis, func(any, *logger.Logger) (Storage, error) { return m, nil })
	defer func() {
		factoriesMu.Lock()
		delete(factories, ProviderRedis)
		factoriesMu.Unlock()
	}()
	got, err := New(Config{Provider: ProviderRedis, Retry: RetryConfig{MaxAttempts: 4, Backoff: "10ms"}}, nil, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	r, ok := got.(*Retrying)
	if !ok || r.Unwrap() != Storage(m) {
		t.Fatalf("New() = %T, want *Retrying around the factory storage", got)
	}
	if r.cfg.MaxAttempts != 4 || r.cfg.InitialBackoff != 10*time.Millisecond {
		t.Errorf("policy = %+v", r.cfg)
	}
}

func TestRetryConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		retry RetryConfig
		want  string
	}{
		{"negative", RetryConfig{MaxAttempts: -1}, "must not be negative"},
		{"bad backoff", RetryConfig{MaxAttempts: 2, Backoff: "soon"}, "invalid retry backoff"},
		{"bad max", RetryConfig{MaxAttempts: 2, MaxBackoff: "1 minute"}, "invalid retry max_backoff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{Provider: ProviderLocal, Retry: tt.retry}
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want containing %q", err, tt.want)
			}
		})
	}
}
