package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/sqlcache/errors"
	"github.com/kbukum/sqlcache/logger"
	"github.com/kbukum/sqlcache/observability"
	"github.com/kbukum/sqlcache/storage"
	"github.com/kbukum/sqlcache/storage/local"
)

// Dumper dumps and replays database contents. *dump.Manager implements it.
type Dumper interface {
	DumpAllTables(ctx context.Context) ([]string, error)
	Loads(ctx context.Context, lines []string) error
}

// Func builds fixtures. Its value is returned in Result on record runs.
type Func func(ctx context.Context) (any, error)

// Result describes a completed run.
type Result struct {
	Mode  Mode
	Path  string
	Lines int
	// Value is what Func returned; always nil on replay.
	Value any
}

// Runner records or replays fixtures for callers.
type Runner struct {
	dumper   Dumper
	storage  storage.Storage
	paths    PathConfig
	identity IdentityResolver
	policy   Policy
	log      *logger.Logger
	metrics  *observability.Metrics
}

// Option configures a Runner.
type Option func(*Runner)

// WithStorage sets where dumps are kept. Defaults to the local filesystem.
func WithStorage(s storage.Storage) Option {
	return func(r *Runner) { r.storage = s }
}

// WithPaths sets the dump directory settings.
func WithPaths(c PathConfig) Option {
	return func(r *Runner) { r.paths = c }
}

// WithIdentity sets the caller identity strategy.
func WithIdentity(i IdentityResolver) Option {
	return func(r *Runner) { r.identity = i }
}

// WithPolicy sets the record-or-replay policy.
func WithPolicy(p Policy) Option {
	return func(r *Runner) { r.policy = p }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *logger.Logger) Option {
	if l == nil {
		l = logger.NewNop()
	}
	return func(r *Runner) { r.log = l.WithComponent("cache") }
}

// WithMetrics records run metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// New creates a Runner. Path settings are validated before any I/O.
func New(d Dumper, opts ...Option) (*Runner, error) {
	if d == nil {
		return nil, apperrors.InvalidConfig("dumper", "must not be nil")
	}
	r := &Runner{
		dumper:   d,
		storage:  local.Default(),
		paths:    DefaultPathConfig(),
		identity: AddressIdentity(),
		policy:   FileExists(),
		log:      logger.WithComponent("cache"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.paths.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the dump path for caller.
func (r *Runner) Path(caller any) (string, error) {
	if caller == nil {
		return "", apperrors.InvalidConfig("caller", "must not be nil")
	}
	return DumpPath(CallerName(caller), r.identity.Identity(caller), r.paths)
}

// Run records or replays the fixtures of caller. On record, fn runs and the
// dump is stored only if fn succeeds. On replay, fn is not called.
func (r *Runner) Run(ctx context.Context, caller any, fn Func) (Result, error) {
	path, err := r.Path(caller)
	if err != nil {
		return Result{}, err
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanRun,
		trace.WithAttributes(
			attribute.String(observability.AttrCaller, CallerName(caller)),
			attribute.String(observability.AttrPath, path),
		))
	defer span.End()

	mode, err := r.policy.Decide(ctx, r.storage, path)
	if err != nil {
		return r.fail(ctx, Result{Path: path}, "decide", err)
	}
	observability.SetSpanAttribute(ctx, observability.AttrMode, mode.String())
	r.log.Info("Cache decision", logger.Fields(
		logger.FieldCaller, CallerName(caller), logger.FieldPath, path, logger.FieldMode, mode.String()))

	start := time.Now()
	var res Result
	switch mode {
	case ModeReplay:
		res, err = r.replay(ctx, path)
	case ModeRecord:
		res, err = r.record(ctx, path, fn)
	default:
		res, err = r.fail(ctx, Result{Mode: mode, Path: path}, "decide",
			apperrors.Internal(errors.New("unknown cache mode "+string(mode))))
	}
	if err != nil {
		observability.SetSpanError(ctx, err)
		return res, err
	}

	observability.SetSpanAttribute(ctx, observability.AttrLines, res.Lines)
	r.metrics.RecordRun(ctx, mode.String(), res.Lines, time.Since(start))
	return res, nil
}

func (r *Runner) record(ctx context.Context, path string, fn Func) (Result, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanRecord)
	defer span.End()

	res := Result{Mode: ModeRecord, Path: path}
	r.log.Info("Dump file does not exist. The queries will not be cached.", logger.DumpFields(path, res.Mode.String()))

	if fn != nil {
		value, err := fn(ctx)
		if err != nil {
			return r.fail(ctx, res, "fixture", err)
		}
		res.Value = value
	}

	lines, err := r.dumper.DumpAllTables(ctx)
	if err != nil {
		return r.fail(ctx, res, "dump", err)
	}
	if err := storage.WriteLines(ctx, r.storage, path, lines); err != nil {
		return r.fail(ctx, res, "write", err)
	}
	res.Lines = len(lines)

	r.log.Debug("Dump file written", logger.Fields(logger.FieldPath, path, logger.FieldLines, res.Lines))
	return res, nil
}

func (r *Runner) replay(ctx context.Context, path string) (Result, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanReplay)
	defer span.End()

	res := Result{Mode: ModeReplay, Path: path}
	r.log.Info("Loading data from cache file", logger.DumpFields(path, res.Mode.String()))

	lines, err := storage.ReadLines(ctx, r.storage, path)
	if err != nil {
		return r.fail(ctx, res, "read", err)
	}
	if err := r.dumper.Loads(ctx, lines); err != nil {
		return r.fail(ctx, res, "load", err)
	}
	res.Lines = len(lines)
	return res, nil
}

func (r *Runner) fail(ctx context.Context, res Result, stage string, err error) (Result, error) {
	observability.SetSpanError(ctx, err)
	observability.SetSpanAttribute(ctx, observability.AttrStage, stage)
	r.metrics.RecordError(ctx, res.Mode.String(), stage)
	r.log.Error("Cache run failed", logger.StageError(logger.DumpFields(res.Path, res.Mode.String()), stage, err))
	return res, err
}

var errTestFailed = errors.New("test failed while building fixtures; dump not written")

// Test runs fn as the fixture builder of t. fn is skipped on replay. A dump is
// written only if t has not failed by the time fn returns. Cache errors fail
// the test.
func (r *Runner) Test(t testing.TB, fn func(t testing.TB)) Result {
	t.Helper()
	res, err := r.Run(t.Context(), t, func(context.Context) (any, error) {
		fn(t)
		if t.Failed() {
			return nil, errTestFailed
		}
		return nil, nil
	})
	if err != nil && !errors.Is(err, errTestFailed) {
		t.Fatalf("sqlcache: %v", err)
	}
	return res
}
