package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/lehmann314159/blog/internal/config"
	"github.com/lehmann314159/blog/internal/database"
)

// SetupTestDB creates a fresh sqlite database with the full schema in a
// temporary directory. It is closed when the test finishes.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{
		Driver:  "sqlite3",
		DataDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})
	return db
}
