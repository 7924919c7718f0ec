package local

// Config holds local filesystem storage configuration.
type Config struct {
	// BasePath is prepended to relative paths. Absolute paths are used as-is.
	BasePath string `mapstructure:"base_path" json:"base_path"`

	// FileMode is the permission of written dump files.
	FileMode uint32 `mapstructure:"file_mode" json:"file_mode"`
}

// DefaultFileMode is the permission of written dump files.
const DefaultFileMode = 0o644

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.FileMode == 0 {
		c.FileMode = DefaultFileMode
	}
}

// Validate checks the configuration. Every combination is valid.
func (c *Config) Validate() error { return nil }
