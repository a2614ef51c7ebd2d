package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/ndewijer/Trading-Journal-Backend/internal/database"
	_ "modernc.org/sqlite" // Test Package
)

// memoryDSN enables foreign keys so exits cannot reference a missing entry.
const memoryDSN = ":memory:?_pragma=foreign_keys(1)&_pragma=journal_mode(MEMORY)"

// SetupTestDB returns an in-memory ledger database with every migration applied.
// It is closed when the test ends.
//
//	db := testutil.SetupTestDB(t)
//	entry := testutil.NewEntry().Build(t, db)
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// every pooled connection would get its own empty in-memory database
	db.SetMaxOpenConns(1)

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// SetupFileDB opens a migrated database file through database.Open, with the
// production pool and pragmas. Use it where connections must run concurrently.
func SetupFileDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "journal.db")
	db, err := database.Open(path)
	if err != nil {
		t.Fatalf("Failed to open file database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db, path
}

// CountRows returns the number of rows in a ledger table.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	//nolint:gosec // G202: table names come from test code
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount fails the test unless table holds expected rows.
//
//	testutil.AssertRowCount(t, db, "trade_exit", 0)
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	if actual := CountRows(t, db, table); actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}

// EntryState reads an entry's remaining quantity and open flag straight from the table.
func EntryState(t *testing.T, db *sql.DB, entryID string) (remaining int64, isOpen bool) {
	t.Helper()

	err := db.QueryRow("SELECT remaining_qty, is_open FROM trade_entry WHERE id = ?", entryID).Scan(&remaining, &isOpen)
	if err != nil {
		t.Fatalf("Failed to read entry %s: %v", entryID, err)
	}

	return remaining, isOpen
}
