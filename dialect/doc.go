// Package dialect provides the literal rules of the SQL flavours sqlcache
// can dump for: Postgres, SQLite and MySQL.
//
// Values the core renderer does not handle itself (booleans, floats, byte
// strings, Stringers) fall through to gorm's SQL explainer, the same code
// gorm uses to print statements with inlined parameters.
package dialect
