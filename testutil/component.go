package testutil

import (
	"context"
)

// TestComponent is a test resource with a start/stop lifecycle and
// resettable state.
type TestComponent interface {
	// Name identifies the component in failure messages.
	Name() string

	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// Reset removes all data while keeping the schema.
	Reset(ctx context.Context) error

	// Snapshot captures the current data as dump lines.
	Snapshot(ctx context.Context) ([]string, error)

	// Restore resets the component and replays a snapshot.
	Restore(ctx context.Context, snapshot []string) error
}
