// Package cache records database fixtures once and replays them afterwards.
//
// A Runner wraps a fixture-building function. The first run executes it, dumps
// every table as INSERT statements and stores the dump under a path derived
// from the caller; later runs skip the function and replay the dump into the
// database instead.
//
//	manager := dump.NewManager(registry, sess)
//	runner, err := cache.New(manager)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	runner.Test(t, func(t testing.TB) {
//	    seedUsers(t, db) // only runs when no dump exists
//	})
//
// Dumps are named <dir>/<caller>-<identity>.dump. The default identity is the
// address of the caller's type, which is stable within one test binary but not
// across builds; TypeIdentity and StaticIdentity give names that survive
// rebuilds. Existence is checked before acting, so two processes sharing a
// dump path may both record.
package cache
