package session

import (
	"context"
	"database/sql"

	apperrors "github.com/kbukum/sqlcache/errors"
	"github.com/kbukum/sqlcache/literal"
	"github.com/kbukum/sqlcache/schema"
)

// Querier is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type committer interface {
	Commit() error
}

// SQLOption configures a SQL session.
type SQLOption func(*SQL)

// CommitOnFlush commits the underlying *sql.Tx when the session is flushed.
func CommitOnFlush() SQLOption {
	return func(s *SQL) { s.commit = true }
}

// SQL is a Session over database/sql.
type SQL struct {
	q       Querier
	dialect literal.Dialect
	commit  bool
}

var _ Session = (*SQL)(nil)

// NewSQL creates a session over q using dialect d.
func NewSQL(q Querier, d literal.Dialect, opts ...SQLOption) *SQL {
	s := &SQL{q: q, dialect: d}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dialect returns the session's dialect.
func (s *SQL) Dialect() literal.Dialect { return s.dialect }

// Query reads every row of table.
func (s *SQL) Query(ctx context.Context, table schema.Table, orderBy []string) (Rows, error) {
	rows, err := s.q.QueryContext(ctx, SelectStatement(s.dialect, table, orderBy))
	if err != nil {
		return nil, apperrors.QueryFailed(table.Name, err)
	}
	return newSQLRows(rows, table), nil
}

// Exec executes statement.
func (s *SQL) Exec(ctx context.Context, statement string) error {
	if _, err := s.q.ExecContext(ctx, statement); err != nil {
		return apperrors.ExecutionFailed(statement, err)
	}
	return nil
}

// Flush commits the transaction when CommitOnFlush was given.
func (s *SQL) Flush(_ context.Context) error {
	if !s.commit {
		return nil
	}
	c, ok := s.q.(committer)
	if !ok {
		return nil
	}
	if err := c.Commit(); err != nil {
		return apperrors.ExecutionFailed("COMMIT", err)
	}
	return nil
}

// sqlRows adapts *sql.Rows.
type sqlRows struct {
	rows  *sql.Rows
	table schema.Table
}

func newSQLRows(rows *sql.Rows, table schema.Table) *sqlRows {
	return &sqlRows{rows: rows, table: table}
}

func (r *sqlRows) Next() bool { return r.rows.Next() }

func (r *sqlRows) Values() ([]any, error) {
	cols, err := r.rows.Columns()
	if err != nil {
		return nil, apperrors.QueryFailed(r.table.Name, err)
	}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		return nil, apperrors.QueryFailed(r.table.Name, err)
	}
	return normalize(r.table, values), nil
}

func (r *sqlRows) Err() error {
	if err := r.rows.Err(); err != nil {
		return apperrors.QueryFailed(r.table.Name, err)
	}
	return nil
}

func (r *sqlRows) Close() error { return r.rows.Close() }
