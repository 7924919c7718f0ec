package local

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	apperrors "github.com/kbukum/sqlcache/errors"
	"github.com/kbukum/sqlcache/logger"
	"github.com/kbukum/sqlcache/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderLocal, func(providerCfg any, _ *logger.Logger) (storage.Storage, error) {
		c := &Config{}
		if providerCfg != nil {
			pc, ok := providerCfg.(*Config)
			if !ok {
				return nil, fmt.Errorf("local: expected *local.Config, got %T", providerCfg)
			}
			c = pc
		}
		c.ApplyDefaults()
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return NewStorage(c), nil
	})
}

// Storage implements storage.Storage using the local filesystem.
type Storage struct {
	basePath string
	mode     fs.FileMode
}

var _ storage.Storage = (*Storage)(nil)

// NewStorage creates a local filesystem storage.
func NewStorage(cfg *Config) *Storage {
	c := *cfg
	c.ApplyDefaults()
	return &Storage{basePath: c.BasePath, mode: fs.FileMode(c.FileMode)}
}

// Default returns a local storage with no base path.
func Default() *Storage {
	return NewStorage(&Config{})
}

func (s *Storage) resolve(path string) string {
	path = filepath.Clean(path)
	if s.basePath == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.basePath, path)
}

// Exists checks whether a regular file exists at path.
func (s *Storage) Exists(_ context.Context, path string) (bool, error) {
	info, err := os.Stat(s.resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, apperrors.CacheIO("stat", path, err)
	}
	return !info.IsDir(), nil
}

// Download opens the file at path.
func (s *Storage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(s.resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.CacheNotFound(path).WithCause(err)
		}
		return nil, apperrors.CacheIO("open", path, err)
	}
	return f, nil
}

// Upload writes reader to a temporary file next to path and renames it into
// place, so concurrent readers see either no file or the complete file.
func (s *Storage) Upload(_ context.Context, path string, reader io.Reader) error {
	full := s.resolve(path)
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return apperrors.CacheIO("create directory for", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(full)+".*.tmp")
	if err != nil {
		return apperrors.CacheIO("create", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := io.Copy(tmp, reader); err != nil {
		cleanup()
		return apperrors.CacheIO("write", path, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return apperrors.CacheIO("sync", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return apperrors.CacheIO("close", path, err)
	}
	if err := os.Chmod(tmpName, s.mode); err != nil {
		_ = os.Remove(tmpName)
		return apperrors.CacheIO("chmod", path, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		_ = os.Remove(tmpName)
		return apperrors.CacheIO("rename", path, err)
	}
	return nil
}

// Delete removes a local file. Returns nil if the file does not exist.
func (s *Storage) Delete(_ context.Context, path string) error {
	if err := os.Remove(s.resolve(path)); err != nil && !os.IsNotExist(err) {
		return apperrors.CacheIO("delete", path, err)
	}
	return nil
}
