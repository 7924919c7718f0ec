// Package redis stores dump files in Redis, one string key per dump.
package redis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/kbukum/sqlcache/errors"
	"github.com/kbukum/sqlcache/logger"
	"github.com/kbukum/sqlcache/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderRedis, func(providerCfg any, log *logger.Logger) (storage.Storage, error) {
		c, ok := providerCfg.(*Config)
		if !ok || c == nil {
			return nil, fmt.Errorf("redis: expected *redis.Config, got %T", providerCfg)
		}
		return New(*c, log)
	})
}

// Storage implements storage.Storage on a Redis keyspace.
type Storage struct {
	rdb       goredis.Cmdable
	prefix    string
	ttl       time.Duration
	writeOnce bool
	log       *logger.Logger
}

var _ storage.Storage = (*Storage)(nil)

// New connects to Redis with cfg.
func New(cfg Config, log *logger.Logger) (*Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redis config: %w", err)
	}
	dialTimeout, _ := time.ParseDuration(cfg.DialTimeout)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})
	return NewWithClient(rdb, cfg, log), nil
}

// NewWithClient creates a storage over an existing client.
func NewWithClient(rdb goredis.Cmdable, cfg Config, log *logger.Logger) *Storage {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.NewNop()
	}
	return &Storage{
		rdb:       rdb,
		prefix:    cfg.Prefix,
		ttl:       cfg.ttl(),
		writeOnce: cfg.WriteOnce,
		log:       log.WithComponent("storage.redis"),
	}
}

// Key maps a dump path to its Redis key.
func (s *Storage) Key(path string) string { return s.prefix + path }

// Exists checks whether a dump key exists.
func (s *Storage) Exists(ctx context.Context, path string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.Key(path)).Result()
	if err != nil {
		return false, apperrors.CacheIO("stat", path, err)
	}
	return n > 0, nil
}

// Download returns the stored dump.
func (s *Storage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	data, err := s.rdb.Get(ctx, s.Key(path)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, apperrors.CacheNotFound(path).WithCause(err)
		}
		return nil, apperrors.CacheIO("download", path, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Upload stores the dump. In write-once mode an existing key is kept and
// the upload is discarded.
func (s *Storage) Upload(ctx context.Context, path string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return apperrors.CacheIO("read", path, err)
	}
	if !s.writeOnce {
		if err := s.rdb.Set(ctx, s.Key(path), data, s.ttl).Err(); err != nil {
			return apperrors.CacheIO("upload", path, err)
		}
		return nil
	}
	stored, err := s.rdb.SetNX(ctx, s.Key(path), data, s.ttl).Result()
	if err != nil {
		return apperrors.CacheIO("upload", path, err)
	}
	if !stored {
		s.log.Warn("dump already stored by another recorder", logger.Fields(logger.FieldPath, path))
	}
	return nil
}

// Delete removes the dump key.
func (s *Storage) Delete(ctx context.Context, path string) error {
	if err := s.rdb.Del(ctx, s.Key(path)).Err(); err != nil {
		return apperrors.CacheIO("delete", path, err)
	}
	return nil
}
