package storage

import (
	"fmt"
	"time"

	"github.com/kbukum/sqlcache/resilience"
)

// Provider constants for supported storage backends.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
	ProviderRedis = "redis"
)

// DefaultProvider is used when none is configured.
const DefaultProvider = ProviderLocal

// Config selects a storage backend. Provider-specific settings are passed
// separately to New.
type Config struct {
	// Provider selects the storage backend: "local", "s3" or "redis".
	Provider string `mapstructure:"provider" json:"provider" validate:"omitempty,oneof=local s3 redis"`

	// Retry retries transient backend failures.
	Retry RetryConfig `mapstructure:"retry" json:"retry"`
}

// RetryConfig configures retries of storage operations.
type RetryConfig struct {
	// MaxAttempts includes the first attempt. One disables retries.
	MaxAttempts int `mapstructure:"max_attempts" json:"max_attempts" validate:"min=0"`
	// Backoff is the initial delay between attempts, e.g. "100ms".
	Backoff string `mapstructure:"backoff" json:"backoff"`
	// MaxBackoff caps the delay between attempts.
	MaxBackoff string `mapstructure:"max_backoff" json:"max_backoff"`
}

// Policy converts c to a resilience configuration.
func (c RetryConfig) Policy() (resilience.Config, error) {
	cfg := resilience.DefaultConfig()
	cfg.MaxAttempts = c.MaxAttempts
	var err error
	if c.Backoff != "" {
		if cfg.InitialBackoff, err = time.ParseDuration(c.Backoff); err != nil {
			return cfg, fmt.Errorf("storage: invalid retry backoff %q: %w", c.Backoff, err)
		}
	}
	if c.MaxBackoff != "" {
		if cfg.MaxBackoff, err = time.ParseDuration(c.MaxBackoff); err != nil {
			return cfg, fmt.Errorf("storage: invalid retry max_backoff %q: %w", c.MaxBackoff, err)
		}
	}
	return cfg, nil
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 1
	}
}

// Validate checks that the provider is known and the retry settings parse.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal, ProviderS3, ProviderRedis:
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("storage: retry max_attempts must not be negative")
	}
	_, err := c.Retry.Policy()
	return err
}
