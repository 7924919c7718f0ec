package storage

import (
	"fmt"
	"sync"

	"github.com/kbukum/sqlcache/logger"
)

// Factory creates a Storage from provider-specific configuration. Each
// provider type-asserts providerCfg to its own config type.
type Factory func(providerCfg any, log *logger.Logger) (Storage, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// RegisterFactory registers a storage backend factory for the given provider name.
// Implementation packages call this in an init function to make themselves
// available to New.
func RegisterFactory(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// New creates the Storage selected by cfg.Provider, wrapped for retries
// when cfg.Retry allows more than one attempt.
// Ensure the desired provider package has been imported (e.g.
// _ "github.com/kbukum/sqlcache/storage/s3") so its factory is registered.
func New(cfg Config, providerCfg any, log *logger.Logger) (Storage, error) {
	if log == nil {
		log = logger.NewNop()
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factoriesMu.RLock()
	f, ok := factories[cfg.Provider]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unsupported provider %q (not registered)", cfg.Provider)
	}

	l := log.WithComponent("storage")
	l.Debug("initializing storage", logger.Fields("provider", cfg.Provider))
	s, err := f(providerCfg, l)
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Retry.Policy()
	if err != nil {
		return nil, err
	}
	return WithRetry(s, policy, l), nil
}
