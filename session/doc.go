// Package session adapts live database connections to the narrow surface
// the dump manager needs: read every row of a table, execute a literal
// statement, and flush pending work.
//
// Three adapters are provided:
//
//	session.NewGorm(db)           any gorm dialector
//	session.NewSQL(db, dialect)   *sql.DB, *sql.Tx or *sql.Conn
//	session.NewPgx(pool)          pgx connections, pools and transactions
//
// Row values are returned as the driver decodes them; byte slices read from
// non-binary columns are converted to strings.
package session
