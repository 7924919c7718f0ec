package cache

import (
	"context"

	"github.com/kbukum/sqlcache/storage"
)

// Mode is the decision taken for one run.
type Mode string

const (
	// ModeRecord runs the wrapped function and stores a new dump.
	ModeRecord Mode = "record"
	// ModeReplay loads the stored dump instead of running the function.
	ModeReplay Mode = "replay"
)

func (m Mode) String() string { return string(m) }

// Policy decides whether a run records or replays.
type Policy interface {
	Decide(ctx context.Context, s storage.Storage, path string) (Mode, error)
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(ctx context.Context, s storage.Storage, path string) (Mode, error)

// Decide calls f.
func (f PolicyFunc) Decide(ctx context.Context, s storage.Storage, path string) (Mode, error) {
	return f(ctx, s, path)
}

// FileExists replays when a dump exists at path and records otherwise.
func FileExists() Policy {
	return PolicyFunc(func(ctx context.Context, s storage.Storage, path string) (Mode, error) {
		ok, err := s.Exists(ctx, path)
		if err != nil {
			return "", err
		}
		if ok {
			return ModeReplay, nil
		}
		return ModeRecord, nil
	})
}

// ForceRecord always records, overwriting any stored dump.
func ForceRecord() Policy {
	return PolicyFunc(func(context.Context, storage.Storage, string) (Mode, error) {
		return ModeRecord, nil
	})
}
