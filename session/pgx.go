package session

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kbukum/sqlcache/dialect"
	apperrors "github.com/kbukum/sqlcache/errors"
	"github.com/kbukum/sqlcache/literal"
	"github.com/kbukum/sqlcache/schema"
)

// PgxConn is satisfied by *pgx.Conn, *pgxpool.Pool and pgx.Tx.
type PgxConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PgxOption configures a pgx session.
type PgxOption func(*Pgx)

// WithBatch queues executed statements and sends them as one batch on Flush.
func WithBatch() PgxOption {
	return func(p *Pgx) { p.batch = &pgx.Batch{} }
}

// Pgx is a Session over a native pgx connection.
type Pgx struct {
	conn    PgxConn
	dialect literal.Dialect
	batch   *pgx.Batch
}

var _ Session = (*Pgx)(nil)

// NewPgx creates a Postgres session over conn.
func NewPgx(conn PgxConn, opts ...PgxOption) *Pgx {
	p := &Pgx{conn: conn, dialect: dialect.Postgres()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dialect returns the Postgres dialect.
func (p *Pgx) Dialect() literal.Dialect { return p.dialect }

// Pending returns the number of statements queued for the next Flush.
func (p *Pgx) Pending() int {
	if p.batch == nil {
		return 0
	}
	return p.batch.Len()
}

// Query reads every row of table.
func (p *Pgx) Query(ctx context.Context, table schema.Table, orderBy []string) (Rows, error) {
	rows, err := p.conn.Query(ctx, SelectStatement(p.dialect, table, orderBy))
	if err != nil {
		return nil, apperrors.QueryFailed(table.Name, err)
	}
	return &pgxRows{rows: rows, table: table}, nil
}

// Exec executes statement, or queues it in batch mode.
func (p *Pgx) Exec(ctx context.Context, statement string) error {
	if p.batch != nil {
		p.batch.Queue(statement)
		return nil
	}
	if _, err := p.conn.Exec(ctx, statement); err != nil {
		return apperrors.ExecutionFailed(statement, err)
	}
	return nil
}

// Flush sends queued statements in batch mode. The first failing statement
// aborts the batch and is reported.
func (p *Pgx) Flush(ctx context.Context) error {
	if p.batch == nil || p.batch.Len() == 0 {
		return nil
	}
	batch := p.batch
	p.batch = &pgx.Batch{}

	results := p.conn.SendBatch(ctx, batch)
	for _, q := range batch.QueuedQueries {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return apperrors.ExecutionFailed(q.SQL, err)
		}
	}
	if err := results.Close(); err != nil {
		return apperrors.ExecutionFailed("batch", err)
	}
	return nil
}

type pgxRows struct {
	rows  pgx.Rows
	table schema.Table
}

func (r *pgxRows) Next() bool { return r.rows.Next() }

func (r *pgxRows) Values() ([]any, error) {
	values, err := r.rows.Values()
	if err != nil {
		return nil, apperrors.QueryFailed(r.table.Name, err)
	}
	return normalize(r.table, values), nil
}

func (r *pgxRows) Err() error {
	if err := r.rows.Err(); err != nil {
		return apperrors.QueryFailed(r.table.Name, err)
	}
	return nil
}

func (r *pgxRows) Close() error {
	r.rows.Close()
	return nil
}
