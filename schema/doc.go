// Package schema describes the tables a dump covers.
//
// A Registry returns tables in dependency order: every table referenced by
// a foreign key comes before the tables that reference it, so replaying a
// dump in file order never violates a constraint. Static wraps a fixed
// list; FromModels derives tables and their order from gorm models.
package schema
