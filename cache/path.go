package cache

import (
	"os"
	"path/filepath"

	apperrors "github.com/kbukum/sqlcache/errors"
)

// DumpExt is the extension of dump files.
const DumpExt = ".dump"

// PathConfig chooses the dump directory.
type PathConfig struct {
	// UseTmp selects the process temp directory.
	UseTmp bool `mapstructure:"use_tmp"`
	// BaseDir is the dump directory when UseTmp is false.
	BaseDir string `mapstructure:"basedir"`
}

// DefaultPathConfig stores dumps in the temp directory.
func DefaultPathConfig() PathConfig {
	return PathConfig{UseTmp: true}
}

// Validate rejects a base directory combined with UseTmp, and UseTmp=false
// without a base directory.
func (c PathConfig) Validate() error {
	if c.BaseDir != "" && c.UseTmp {
		return apperrors.InvalidConfig("basedir",
			"to use the basedir "+quote(c.BaseDir)+", you must set the parameter 'use_tmp' as false")
	}
	if c.BaseDir == "" && !c.UseTmp {
		return apperrors.InvalidConfig("use_tmp",
			"as the parameter 'use_tmp' is false, you need to inform a basedir")
	}
	return nil
}

// Dir returns the directory dumps are stored in.
func (c PathConfig) Dir() string {
	if c.UseTmp {
		return os.TempDir()
	}
	return c.BaseDir
}

// DumpPath returns <dir>/<name>-<id>.dump, validating cfg first.
func DumpPath(name, id string, cfg PathConfig) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	return filepath.Join(cfg.Dir(), name+"-"+id+DumpExt), nil
}

func quote(s string) string { return "'" + s + "'" }
