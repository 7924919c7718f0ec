// Package testutil provides an in-memory SQLite database for tests that use
// sqlcache.
//
// # Quick Start
//
//	func TestOrders(t *testing.T) {
//	    db := testutil.NewSQLite().WithModels(&Customer{}, &Order{})
//	    testutil.T(t).Setup(db)
//
//	    runner := db.MustRunner(t)
//	    runner.Test(t, func(t testing.TB) {
//	        testutil.MustLoadFixture(t, db.DB(), "customers", customers)
//	    })
//	    testutil.AssertRowCount(t, db.DB(), "customers", 2)
//	}
//
// Snapshot returns the current contents as dump lines and Restore replays
// them, so a test can return to a known state without rebuilding it.
package testutil
