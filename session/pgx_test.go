package session

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/kbukum/sqlcache/errors"
)

type fakePgxRows struct {
	data [][]any
	pos  int
	err  error
}

func (r *fakePgxRows) Close()                                       {}
func (r *fakePgxRows) Err() error                                   { return r.err }
func (r *fakePgxRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakePgxRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakePgxRows) Scan(...any) error                            { return nil }
func (r *fakePgxRows) RawValues() [][]byte                          { return nil }
func (r *fakePgxRows) Conn() *pgx.Conn                              { return nil }

func (r *fakePgxRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakePgxRows) Values() ([]any, error) {
	row := make([]any, len(r.data[r.pos-1]))
	copy(row, r.data[r.pos-1])
	return row, nil
}

type fakeBatchResults struct {
	conn *fakePgxConn
	n    int
}

func (b *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	i := b.n
	b.n++
	if b.conn.failAt == i+1 {
		return pgconn.CommandTag{}, errors.New("duplicate key")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}
func (b *fakeBatchResults) Query() (pgx.Rows, error) { return nil, errors.New("not supported") }
func (b *fakeBatchResults) QueryRow() pgx.Row        { return nil }
func (b *fakeBatchResults) Close() error             { b.conn.closed++; return nil }

type fakePgxConn struct {
	queries []string
	execs   []string
	batches [][]string
	rows    *fakePgxRows
	execErr error
	failAt  int
	closed  int
}

func (c *fakePgxConn) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	c.queries = append(c.queries, sql)
	return c.rows, nil
}

func (c *fakePgxConn) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	c.execs = append(c.execs, sql)
	return pgconn.CommandTag{}, c.execErr
}

func (c *fakePgxConn) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	var stmts []string
	for _, q := range b.QueuedQueries {
		stmts = append(stmts, q.SQL)
	}
	c.batches = append(c.batches, stmts)
	return &fakeBatchResults{conn: c}
}

func TestPgx_Query(t *testing.T) {
	conn := &fakePgxConn{rows: &fakePgxRows{data: [][]any{{"Ann", int32(3), []byte{9}}}}}
	s := NewPgx(conn)
	if s.Dialect().Name() != "postgres" {
		t.Errorf("Dialect() = %s, want postgres", s.Dialect().Name())
	}

	rows, err := s.Query(context.Background(), people, []string{"name"})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	got := collect(t, rows)
	want := [][]any{{"Ann", int32(3), []byte{9}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if len(conn.queries) != 1 || conn.queries[0] != `SELECT "name", "age", "photo" FROM "people" ORDER BY "name"` {
		t.Errorf("queries = %v", conn.queries)
	}
}

func TestPgx_RowsError(t *testing.T) {
	conn := &fakePgxConn{rows: &fakePgxRows{err: errors.New("conn lost")}}
	rows, err := NewPgx(conn).Query(context.Background(), people, nil)
	if err != nil {
		t.Fatal(err)
	}
	for rows.Next() {
	}
	if !apperrors.HasCode(rows.Err(), apperrors.ErrCodeQuery) {
		t.Errorf("Err() = %v, want QUERY_FAILED", rows.Err())
	}
}

func TestPgx_EagerExec(t *testing.T) {
	conn := &fakePgxConn{}
	s := NewPgx(conn)
	if err := s.Exec(context.Background(), "INSERT 1"); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if len(conn.execs) != 1 || len(conn.batches) != 0 {
		t.Errorf("execs = %v, batches = %v", conn.execs, conn.batches)
	}

	conn.execErr = errors.New("syntax error")
	if err := s.Exec(context.Background(), "BROKEN"); !apperrors.HasCode(err, apperrors.ErrCodeExecution) {
		t.Errorf("Exec() error = %v, want EXECUTION_FAILED", err)
	}
}

func TestPgx_BatchFlush(t *testing.T) {
	conn := &fakePgxConn{}
	s := NewPgx(conn, WithBatch())
	for _, stmt := range []string{"INSERT 1", "INSERT 2", "INSERT 3"} {
		if err := s.Exec(context.Background(), stmt); err != nil {
			t.Fatalf("Exec() error = %v", err)
		}
	}
	if s.Pending() != 3 {
		t.Errorf("Pending() = %d, want 3", s.Pending())
	}
	if len(conn.execs) != 0 {
		t.Errorf("statements executed before flush: %v", conn.execs)
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	want := [][]string{{"INSERT 1", "INSERT 2", "INSERT 3"}}
	if !reflect.DeepEqual(conn.batches, want) {
		t.Errorf("batches = %v, want %v", conn.batches, want)
	}
	if s.Pending() != 0 || conn.closed != 1 {
		t.Errorf("Pending() = %d, closed = %d", s.Pending(), conn.closed)
	}
	if err := s.Flush(context.Background()); err != nil || len(conn.batches) != 1 {
		t.Errorf("empty Flush() sent a batch: err = %v", err)
	}
}

func TestPgx_BatchFailureReportsStatement(t *testing.T) {
	conn := &fakePgxConn{failAt: 2}
	s := NewPgx(conn, WithBatch())
	_ = s.Exec(context.Background(), "INSERT 1")
	_ = s.Exec(context.Background(), "INSERT 2")
	_ = s.Exec(context.Background(), "INSERT 3")

	err := s.Flush(context.Background())
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeExecution {
		t.Fatalf("Flush() error = %v, want EXECUTION_FAILED", err)
	}
	if appErr.Details["statement"] != "INSERT 2" {
		t.Errorf("statement = %v, want INSERT 2", appErr.Details["statement"])
	}
	if conn.closed != 1 {
		t.Errorf("batch closed %d times, want 1", conn.closed)
	}
}
