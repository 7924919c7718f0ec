package redis

import (
	"time"

	"github.com/kbukum/sqlcache/validation"
)

// DefaultPrefix namespaces dump keys.
const DefaultPrefix = "sqlcache:"

// Config holds Redis dump storage configuration.
type Config struct {
	// Addr is the Redis server address (host:port).
	Addr string `mapstructure:"addr"`

	// Password is the Redis server password.
	Password string `mapstructure:"password"`

	// DB is the Redis database number.
	DB int `mapstructure:"db"`

	// Prefix is prepended to every dump key.
	Prefix string `mapstructure:"prefix"`

	// TTL expires stored dumps (e.g. "24h"). Empty keeps them forever.
	TTL string `mapstructure:"ttl"`

	// WriteOnce stores a dump only if the key does not exist yet (SET NX),
	// so the first of several concurrent recorders wins.
	WriteOnce bool `mapstructure:"write_once"`

	// DialTimeout is the timeout for establishing new connections (e.g. "5s").
	DialTimeout string `mapstructure:"dial_timeout"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "5s"
	}
}

// Validate checks that the address is present and the durations parse.
func (c *Config) Validate() error {
	return validation.Section("redis").
		Required("addr", c.Addr).
		HostPort("addr", c.Addr).
		Required("dial_timeout", c.DialTimeout).
		Duration("dial_timeout", c.DialTimeout).
		Duration("ttl", c.TTL).
		Err()
}

func (c *Config) ttl() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}
