package cache

import (
	"github.com/kbukum/sqlcache/config"
	"github.com/kbukum/sqlcache/dump"
	apperrors "github.com/kbukum/sqlcache/errors"
	"github.com/kbukum/sqlcache/literal"
	"github.com/kbukum/sqlcache/logger"
	"github.com/kbukum/sqlcache/schema"
	"github.com/kbukum/sqlcache/session"
	"github.com/kbukum/sqlcache/storage"
)

// FromConfig builds a Runner, its dump manager and its storage from cfg.
// A nil cfg means config.Default(). opts are applied after the configured
// options and override them.
func FromConfig(cfg *config.Config, registry schema.Registry, sess session.Session, opts ...Option) (*Runner, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	log := logger.New(&cfg.Logging, "sqlcache")

	identity, err := IdentityFromConfig(cfg.Cache.Identity)
	if err != nil {
		return nil, err
	}
	policy, err := PolicyFromConfig(cfg.Cache.Policy)
	if err != nil {
		return nil, err
	}

	paths := PathConfig{UseTmp: cfg.Cache.UseTmp, BaseDir: cfg.Cache.BaseDir}
	if err := paths.Validate(); err != nil {
		return nil, err
	}

	st, err := storage.New(cfg.Storage.Config, cfg.Storage.ProviderConfig(), log)
	if err != nil {
		return nil, err
	}

	manager := dump.NewManager(registry, sess,
		dump.WithOrdering(dump.PreferColumns(cfg.Cache.Ordering.Columns...)),
		dump.WithRenderer(literal.Renderer{EscapeJSON: cfg.Cache.EscapeJSON}),
		dump.WithLogger(log),
	)

	base := []Option{
		WithStorage(st),
		WithPaths(paths),
		WithIdentity(identity),
		WithPolicy(policy),
		WithLogger(log),
	}
	return New(manager, append(base, opts...)...)
}

// IdentityFromConfig returns the resolver named by cfg.Strategy.
func IdentityFromConfig(cfg config.IdentityConfig) (IdentityResolver, error) {
	switch cfg.Strategy {
	case "", config.IdentityAddress:
		return AddressIdentity(), nil
	case config.IdentityType:
		return TypeIdentity{Version: cfg.Version}, nil
	case config.IdentityStatic:
		if cfg.Value == "" {
			return nil, apperrors.InvalidConfig("cache.identity.value", "is required for the static strategy")
		}
		return StaticIdentity(cfg.Value), nil
	}
	return nil, apperrors.InvalidConfig("cache.identity.strategy", "unknown strategy "+quote(cfg.Strategy))
}

// PolicyFromConfig returns the policy named by name.
func PolicyFromConfig(name string) (Policy, error) {
	switch name {
	case "", config.PolicyExists:
		return FileExists(), nil
	case config.PolicyRecord:
		return ForceRecord(), nil
	}
	return nil, apperrors.InvalidConfig("cache.policy", "unknown policy "+quote(name))
}
