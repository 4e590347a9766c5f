package testutil

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"winsbygroup.com/custbook/internal/sqlite"
)

// NewTestDB opens a migrated database in a temp dir with the default
// (unenforced) foreign key setting.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return NewTestDBAt(t, filepath.Join(t.TempDir(), "test.db"), false)
}

// NewStrictTestDB is NewTestDB with foreign key enforcement on.
func NewStrictTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return NewTestDBAt(t, filepath.Join(t.TempDir(), "test.db"), true)
}

func NewTestDBAt(t *testing.T, dbPath string, foreignKeys bool) *sqlx.DB {
	t.Helper()

	// DELETE mode for tests
	db, err := sqlite.Open(sqlite.Options{
		Path:        dbPath,
		ForeignKeys: foreignKeys,
		JournalMode: "DELETE",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
