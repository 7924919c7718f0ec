// Package dump serializes database tables as literal INSERT statements and
// replays them.
//
// A Manager pairs a schema.Registry, which decides which tables are dumped
// and in which order, with a session.Session, which reads rows and executes
// statements:
//
//	m := dump.NewManager(registry, sess)
//	lines, err := m.DumpAllTables(ctx)
//	...
//	err = m.Loads(ctx, lines)
//
// Each line has the form
//
//	INSERT INTO "users" (id, name) VALUES (1, 'Ann');
package dump
