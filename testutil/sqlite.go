package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kbukum/sqlcache/cache"
	"github.com/kbukum/sqlcache/dump"
	"github.com/kbukum/sqlcache/logger"
	"github.com/kbukum/sqlcache/schema"
	"github.com/kbukum/sqlcache/session"
)

// SQLite is an in-memory SQLite database whose models are dumped and
// replayed through a dump.Manager.
type SQLite struct {
	dsn      string
	models   []interface{}
	log      *logger.Logger
	logLevel gormlogger.LogLevel

	db       *gorm.DB
	registry *schema.ModelRegistry
	session  *session.Gorm
	manager  *dump.Manager
	started  bool
	mu       sync.RWMutex
}

var _ TestComponent = (*SQLite)(nil)

// NewSQLite creates an in-memory SQLite component.
func NewSQLite() *SQLite {
	return &SQLite{
		dsn:      ":memory:",
		log:      logger.NewNop(),
		logLevel: gormlogger.Silent,
	}
}

// WithModels registers models for auto-migration on Start. Their tables
// are dumped in foreign key order.
func (c *SQLite) WithModels(models ...interface{}) *SQLite {
	c.models = append(c.models, models...)
	return c
}

// WithDSN opens a different SQLite database, such as a file.
func (c *SQLite) WithDSN(dsn string) *SQLite {
	c.dsn = dsn
	return c
}

// WithLogger logs gorm statements to l at debug level. Nil keeps the
// silent default.
func (c *SQLite) WithLogger(l *logger.Logger) *SQLite {
	if l == nil {
		return c
	}
	c.log = l
	c.logLevel = gormlogger.Info
	return c
}

// Name returns the component name.
func (c *SQLite) Name() string {
	return "sqlite-test"
}

// Start opens the database, migrates the models and builds the dump manager.
func (c *SQLite) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return fmt.Errorf("component already started")
	}

	db, err := gorm.Open(sqlite.Open(c.dsn), &gorm.Config{
		Logger: newGormLogger(c.log, c.logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to open test database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)

	if len(c.models) > 0 {
		if err := db.WithContext(ctx).AutoMigrate(c.models...); err != nil {
			_ = sqlDB.Close()
			return fmt.Errorf("auto-migrate failed: %w", err)
		}
	}

	registry, err := schema.FromModels(db, c.models...)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	sess, err := session.NewGorm(db)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}

	c.db = db
	c.registry = registry
	c.session = sess
	c.manager = dump.NewManager(registry, sess, dump.WithLogger(c.log))
	c.started = true
	return nil
}

// Stop closes the database connection.
func (c *SQLite) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started || c.db == nil {
		return nil
	}

	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}

	c.started = false
	return sqlDB.Close()
}

// DB returns the underlying *gorm.DB, or nil if not started.
func (c *SQLite) DB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// Registry returns the model registry, or nil if not started.
func (c *SQLite) Registry() *schema.ModelRegistry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry
}

// Session returns the gorm session, or nil if not started.
func (c *SQLite) Session() *session.Gorm {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Manager returns the dump manager, or nil if not started.
func (c *SQLite) Manager() *dump.Manager {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.manager
}

// Runner returns a cache runner over this database.
func (c *SQLite) Runner(opts ...cache.Option) (*cache.Runner, error) {
	m := c.Manager()
	if m == nil {
		return nil, fmt.Errorf("component not started")
	}
	return cache.New(m, append([]cache.Option{cache.WithLogger(c.log)}, opts...)...)
}

// MustRunner is Runner that fails the test on error.
func (c *SQLite) MustRunner(t testing.TB, opts ...cache.Option) *cache.Runner {
	t.Helper()
	r, err := c.Runner(opts...)
	if err != nil {
		t.Fatalf("failed to create cache runner: %v", err)
	}
	return r
}

// Reset deletes every row, children before parents.
func (c *SQLite) Reset(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started || c.db == nil {
		return fmt.Errorf("component not started")
	}
	return c.truncate(ctx)
}

func (c *SQLite) truncate(ctx context.Context) error {
	tables := c.registry.Tables()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := TruncateTable(c.db.WithContext(ctx), tables[i].Name); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", tables[i].Name, err)
		}
	}
	return nil
}

// Snapshot dumps the current contents of every model table.
func (c *SQLite) Snapshot(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started || c.db == nil {
		return nil, fmt.Errorf("component not started")
	}
	return c.manager.DumpAllTables(ctx)
}

// Restore clears the database and replays snapshot.
func (c *SQLite) Restore(ctx context.Context, snapshot []string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started || c.db == nil {
		return fmt.Errorf("component not started")
	}
	if err := c.truncate(ctx); err != nil {
		return fmt.Errorf("failed to reset before restore: %w", err)
	}
	return c.manager.Loads(ctx, snapshot)
}
