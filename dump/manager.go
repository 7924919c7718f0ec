package dump

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	apperrors "github.com/kbukum/sqlcache/errors"
	"github.com/kbukum/sqlcache/literal"
	"github.com/kbukum/sqlcache/logger"
	"github.com/kbukum/sqlcache/schema"
	"github.com/kbukum/sqlcache/session"
)

const insertTemplate = "INSERT INTO %s (%s) VALUES (%s);"

// Manager dumps and replays the tables of a registry over a session.
type Manager struct {
	registry schema.Registry
	session  session.Session
	ordering OrderingPolicy
	renderer literal.Renderer
	log      *logger.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithOrdering sets the row ordering policy.
func WithOrdering(p OrderingPolicy) Option {
	return func(m *Manager) { m.ordering = p }
}

// WithRenderer sets the literal renderer.
func WithRenderer(r literal.Renderer) Option {
	return func(m *Manager) { m.renderer = r }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *logger.Logger) Option {
	if l == nil {
		l = logger.NewNop()
	}
	return func(m *Manager) { m.log = l.WithComponent("dump") }
}

// NewManager creates a Manager.
func NewManager(registry schema.Registry, sess session.Session, opts ...Option) *Manager {
	m := &Manager{
		registry: registry,
		session:  sess,
		ordering: DefaultOrdering,
		log:      logger.WithComponent("dump"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Session returns the session the manager dumps from and replays into.
func (m *Manager) Session() session.Session { return m.session }

// Tables returns the registry's tables in dependency order.
func (m *Manager) Tables() []schema.Table {
	return m.registry.Tables()
}

// Dump returns one INSERT statement per row of table.
func (m *Manager) Dump(ctx context.Context, table schema.Table) ([]string, error) {
	m.log.Info("Generating dump for the table", logger.Fields(logger.FieldTable, table.Name))

	rows, err := m.session.Query(ctx, table, m.ordering.OrderBy(table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	d := m.session.Dialect()
	var lines []string
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		line, err := BuildInsert(d, m.renderer, table, values)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// DumpAllTables dumps every table in dependency order. It fails when the
// registry has no tables.
func (m *Manager) DumpAllTables(ctx context.Context) ([]string, error) {
	tables := m.Tables()
	if len(tables) == 0 {
		return nil, apperrors.NoTables()
	}

	start := time.Now()
	m.log.Info("Starting dump process", logger.Fields(
		logger.FieldTables, len(tables), logger.FieldDialect, m.session.Dialect().Name()))

	var lines []string
	for _, table := range tables {
		tableLines, err := m.Dump(ctx, table)
		if err != nil {
			return nil, err
		}
		lines = append(lines, tableLines...)
	}

	m.log.Info("Dump finished", logger.MergeWithDuration(
		logger.Fields(logger.FieldTables, len(tables), logger.FieldLines, len(lines)), time.Since(start)))
	return lines, nil
}

// Loads executes lines in order, then flushes the session. Trailing
// whitespace is stripped and blank lines are skipped. The first failing
// statement aborts the replay.
func (m *Manager) Loads(ctx context.Context, lines []string) error {
	executed := 0
	for _, line := range lines {
		stmt := strings.TrimRightFunc(line, unicode.IsSpace)
		if stmt == "" {
			continue
		}
		if err := m.session.Exec(ctx, stmt); err != nil {
			return err
		}
		executed++
	}
	if err := m.session.Flush(ctx); err != nil {
		return err
	}
	m.log.Debug("Replayed statements", logger.Fields(logger.FieldLines, executed))
	return nil
}

// BuildInsert renders row as an INSERT statement for table. The row must
// have exactly one value per column.
func BuildInsert(d literal.Dialect, r literal.Renderer, table schema.Table, row []any) (string, error) {
	if len(row) != len(table.Columns) {
		return "", apperrors.RowShape(table.Name, len(table.Columns), len(row))
	}
	values := make([]string, len(row))
	for i, v := range row {
		lit, err := r.Render(d, v, table.Columns[i].Type)
		if err == nil && strings.ContainsAny(lit, "\r\n") {
			err = apperrors.MultilineLiteral(d.Name())
		}
		if err != nil {
			if appErr, ok := apperrors.AsAppError(err); ok {
				appErr.WithDetail("table", table.Name).WithDetail("column", table.Columns[i].Name)
			}
			return "", err
		}
		values[i] = lit
	}
	return fmt.Sprintf(insertTemplate,
		d.QuoteTable(table.Name), strings.Join(table.ColumnNames(), ", "), strings.Join(values, ", ")), nil
}
