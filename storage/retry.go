package storage

import (
	"bytes"
	"context"
	"io"
	"time"

	apperrors "github.com/kbukum/sqlcache/errors"
	"github.com/kbukum/sqlcache/logger"
	"github.com/kbukum/sqlcache/resilience"
)

// Retrying wraps a Storage so transient failures are retried. A missing
// dump is never retried.
type Retrying struct {
	inner Storage
	cfg   resilience.Config
	log   *logger.Logger
}

// WithRetry wraps s with cfg. Attempts of one or less return s unchanged.
func WithRetry(s Storage, cfg resilience.Config, log *logger.Logger) Storage {
	if cfg.MaxAttempts <= 1 {
		return s
	}
	if log == nil {
		log = logger.NewNop()
	}
	r := &Retrying{inner: s, cfg: cfg, log: log}
	onRetry := cfg.OnRetry
	r.cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		r.log.Warn("storage operation failed, retrying", logger.Fields(
			"attempt", attempt,
			"backoff", backoff.String(),
			logger.FieldError, err.Error(),
		))
		if onRetry != nil {
			onRetry(attempt, err, backoff)
		}
	}
	return r
}

// Unwrap returns the wrapped Storage.
func (r *Retrying) Unwrap() Storage { return r.inner }

func (r *Retrying) Exists(ctx context.Context, path string) (bool, error) {
	return resilience.Retry(ctx, r.cfg, func() (bool, error) {
		return r.inner.Exists(ctx, path)
	})
}

func (r *Retrying) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	return resilience.Retry(ctx, r.cfg, func() (io.ReadCloser, error) {
		return r.inner.Download(ctx, path)
	})
}

// Upload buffers reader so every attempt sends the full body.
func (r *Retrying) Upload(ctx context.Context, path string, reader io.Reader) error {
	body, err := io.ReadAll(reader)
	if err != nil {
		return apperrors.CacheIO("upload", path, err)
	}
	return resilience.Do(ctx, r.cfg, func() error {
		return r.inner.Upload(ctx, path, bytes.NewReader(body))
	})
}

func (r *Retrying) Delete(ctx context.Context, path string) error {
	return resilience.Do(ctx, r.cfg, func() error {
		return r.inner.Delete(ctx, path)
	})
}
