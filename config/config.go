package config

import (
	"fmt"

	"github.com/kbukum/sqlcache/logger"
	"github.com/kbukum/sqlcache/storage"
	"github.com/kbukum/sqlcache/storage/local"
	"github.com/kbukum/sqlcache/storage/redis"
	"github.com/kbukum/sqlcache/storage/s3"
	"github.com/kbukum/sqlcache/validation"
)

// Identity strategies.
const (
	IdentityAddress = "address"
	IdentityType    = "type"
	IdentityStatic  = "static"
)

// Cache policies.
const (
	PolicyExists = "exists"
	PolicyRecord = "record"
)

// DefaultOrderingColumns are tried in order when picking a dump ORDER BY column.
var DefaultOrderingColumns = []string{"created", "id"}

// Config is the complete sqlcache configuration.
type Config struct {
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// CacheConfig controls where dumps live and when they are replayed.
type CacheConfig struct {
	// UseTmp places dumps in the process temp directory. It must be false
	// when BaseDir is set.
	UseTmp bool `yaml:"use_tmp" mapstructure:"use_tmp"`

	// BaseDir is the dump directory when UseTmp is false.
	BaseDir string `yaml:"basedir" mapstructure:"basedir"`

	Identity IdentityConfig `yaml:"identity" mapstructure:"identity"`
	Ordering OrderingConfig `yaml:"ordering" mapstructure:"ordering"`

	// Policy is "exists" (replay when a dump exists) or "record" (always record).
	Policy string `yaml:"policy" mapstructure:"policy" validate:"omitempty,oneof=exists record"`

	// EscapeJSON doubles single quotes inside JSON literals.
	EscapeJSON bool `yaml:"escape_json" mapstructure:"escape_json"`
}

// IdentityConfig selects how a caller's identity part of the dump name is derived.
type IdentityConfig struct {
	Strategy string `yaml:"strategy" mapstructure:"strategy" validate:"omitempty,oneof=address type static"`

	// Version is mixed into "type" identities; bump it to invalidate dumps.
	Version string `yaml:"version" mapstructure:"version"`

	// Value is the fixed identity for the "static" strategy.
	Value string `yaml:"value" mapstructure:"value"`
}

// OrderingConfig lists candidate ORDER BY columns for dumps.
type OrderingConfig struct {
	Columns []string `yaml:"columns" mapstructure:"columns"`
}

// StorageConfig selects the dump storage and carries every provider's settings.
type StorageConfig struct {
	storage.Config `yaml:",inline" mapstructure:",squash"`

	Local local.Config `yaml:"local" mapstructure:"local"`
	S3    s3.Config    `yaml:"s3" mapstructure:"s3"`
	Redis redis.Config `yaml:"redis" mapstructure:"redis"`
}

// ProviderConfig returns the settings of the selected provider, ready to
// pass to storage.New.
func (c *StorageConfig) ProviderConfig() any {
	switch c.Provider {
	case storage.ProviderS3:
		return &c.S3
	case storage.ProviderRedis:
		return &c.Redis
	default:
		return &c.Local
	}
}

// ApplyDefaults fills in the provider and every provider section.
func (c *StorageConfig) ApplyDefaults() {
	c.Config.ApplyDefaults()
	c.Local.ApplyDefaults()
	c.S3.ApplyDefaults()
	c.Redis.ApplyDefaults()
}

// Validate checks the provider name and the selected provider's section.
func (c *StorageConfig) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	switch c.Provider {
	case storage.ProviderS3:
		return c.S3.Validate()
	case storage.ProviderRedis:
		return c.Redis.Validate()
	}
	return nil
}

// ApplyDefaults fills in zero-valued fields. UseTmp is not touched since
// false is a meaningful setting; Load defaults it to true.
func (c *Config) ApplyDefaults() {
	if c.Cache.Identity.Strategy == "" {
		c.Cache.Identity.Strategy = IdentityAddress
	}
	if c.Cache.Policy == "" {
		c.Cache.Policy = PolicyExists
	}
	if c.Cache.Ordering.Columns == nil {
		c.Cache.Ordering.Columns = append([]string(nil), DefaultOrderingColumns...)
	}
	c.Storage.ApplyDefaults()
	c.Logging.ApplyDefaults()
}

// Validate checks struct tags, the selected storage provider and logging.
// The use_tmp/basedir rule is checked by the cache package when paths are built.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}

	id := c.Cache.Identity
	v := validation.New()
	if id.Strategy == IdentityStatic {
		v.Required("cache.identity.value", id.Value)
	}
	v.FileName("cache.identity.value", id.Value)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}

	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("config.storage: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
