package testutil

import (
	"fmt"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/sqlcache/schema"
)

// Rows are fixture rows keyed by column name.
type Rows []map[string]interface{}

// LoadFixture inserts rows into a table. Each map is one row.
func LoadFixture(db *gorm.DB, table string, data Rows) error {
	for _, row := range data {
		if err := db.Table(table).Create(row).Error; err != nil {
			return fmt.Errorf("failed to insert fixture row into %s: %w", table, err)
		}
	}
	return nil
}

// MustLoadFixture loads rows and fails the test on error.
func MustLoadFixture(t testing.TB, db *gorm.DB, table string, data Rows) {
	t.Helper()
	if err := LoadFixture(db, table, data); err != nil {
		t.Fatalf("LoadFixture failed: %v", err)
	}
}

// LoadFixtures loads fixtures for several tables in the registry's
// dependency order, so parents are inserted before the rows referencing
// them. Tables unknown to the registry are rejected before anything is
// inserted.
func LoadFixtures(db *gorm.DB, registry schema.Registry, fixtures map[string]Rows) error {
	known := make(map[string]bool)
	tables := registry.Tables()
	for _, t := range tables {
		known[t.Name] = true
	}
	for name := range fixtures {
		if !known[name] {
			return fmt.Errorf("fixture table %s is not registered", name)
		}
	}
	for _, t := range tables {
		if rows, ok := fixtures[t.Name]; ok {
			if err := LoadFixture(db, t.Name, rows); err != nil {
				return err
			}
		}
	}
	return nil
}

// TruncateTable removes all rows from a table.
func TruncateTable(db *gorm.DB, table string) error {
	return db.Exec("DELETE FROM ?", clause.Table{Name: table}).Error
}

// TruncateAllTables removes all rows from every table the migrator reports.
// Reset on the SQLite component clears only registered tables, children first.
func TruncateAllTables(db *gorm.DB) error {
	tables, err := db.Migrator().GetTables()
	if err != nil {
		return err
	}
	for _, table := range tables {
		if err := TruncateTable(db, table); err != nil {
			return err
		}
	}
	return nil
}

// CountRows returns the number of rows in a table.
func CountRows(db *gorm.DB, table string) (int64, error) {
	var count int64
	err := db.Table(table).Count(&count).Error
	return count, err
}

// AssertTableEmpty fails the test if the table is not empty.
func AssertTableEmpty(t testing.TB, db *gorm.DB, table string) {
	t.Helper()
	AssertRowCount(t, db, table, 0)
}

// AssertRowCount fails the test if the table doesn't have the expected row count.
func AssertRowCount(t testing.TB, db *gorm.DB, table string, expected int64) {
	t.Helper()
	count, err := CountRows(db, table)
	if err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	if count != expected {
		t.Errorf("table %s row count = %d, want %d", table, count, expected)
	}
}
