package session

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/sqlcache/dialect"
	apperrors "github.com/kbukum/sqlcache/errors"
	"github.com/kbukum/sqlcache/literal"
	"github.com/kbukum/sqlcache/schema"
)

// Gorm is a Session over a *gorm.DB.
type Gorm struct {
	db      *gorm.DB
	dialect literal.Dialect
}

var _ Session = (*Gorm)(nil)

// NewGorm creates a session over db, picking the dialect from its dialector.
func NewGorm(db *gorm.DB) (*Gorm, error) {
	d, err := dialect.FromGorm(db)
	if err != nil {
		return nil, err
	}
	return &Gorm{db: db, dialect: d}, nil
}

// NewGormWithDialect creates a session over db with an explicit dialect.
func NewGormWithDialect(db *gorm.DB, d literal.Dialect) *Gorm {
	return &Gorm{db: db, dialect: d}
}

// DB returns the underlying *gorm.DB.
func (g *Gorm) DB() *gorm.DB { return g.db }

// Dialect returns the session's dialect.
func (g *Gorm) Dialect() literal.Dialect { return g.dialect }

// Query reads every row of table, selecting its columns in declared order.
func (g *Gorm) Query(ctx context.Context, table schema.Table, orderBy []string) (Rows, error) {
	q := g.db.WithContext(ctx).Table(table.Name).Select(table.ColumnNames())
	for _, col := range orderBy {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: col}})
	}
	rows, err := q.Rows()
	if err != nil {
		return nil, apperrors.QueryFailed(table.Name, err)
	}
	return newSQLRows(rows, table), nil
}

// Exec executes statement as raw SQL.
func (g *Gorm) Exec(ctx context.Context, statement string) error {
	if err := g.db.WithContext(ctx).Exec(statement).Error; err != nil {
		return apperrors.ExecutionFailed(statement, err)
	}
	return nil
}

// Flush is a no-op; gorm executes statements eagerly.
func (g *Gorm) Flush(_ context.Context) error { return nil }
