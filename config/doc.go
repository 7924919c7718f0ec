// Package config loads sqlcache settings.
//
// Settings come from, in increasing precedence: built-in defaults, an
// optional sqlcache.yml file, a .env file and SQLCACHE_* environment
// variables. Nested keys are joined with underscores, so cache.basedir is
// SQLCACHE_CACHE_BASEDIR.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	runner, err := cache.FromConfig(cfg, registry, sess)
//
// A minimal sqlcache.yml:
//
//	cache:
//	  use_tmp: false
//	  basedir: ./testdata/dumps
//	  identity:
//	    strategy: type
//	    version: v3
//	storage:
//	  provider: local
package config
