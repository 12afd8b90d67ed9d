package migration

import (
	"database/sql"
	"io/fs"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/julianstephens/habitcoach/migrations"
)

// setupPostgresTestDB creates a test PostgreSQL database connection
// Set POSTGRES_TEST_URL environment variable to run this test
// Example: POSTGRES_TEST_URL="postgres://user@localhost:5432/testdb?sslmode=disable"
func setupPostgresTestDB(t *testing.T) *sql.DB {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open postgres database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping postgres database: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DROP TABLE IF EXISTS schema_version, habits, weekly_insights, daily_nudges")
		db.Close()
	})
	return db
}

func TestPostgresEmbeddedMigrations(t *testing.T) {
	db := setupPostgresTestDB(t)

	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		t.Fatalf("failed to access postgres migrations: %v", err)
	}
	runner := NewRunner(db, subFS, DriverPostgres)

	count, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		t.Fatalf("GetLatestVersion failed: %v", err)
	}
	if count != latest {
		t.Errorf("expected %d migrations applied, got %d", latest, count)
	}

	for _, table := range []string{"habits", "weekly_insights", "daily_nudges"} {
		var exists bool
		err := db.QueryRow("SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = $1)", table).Scan(&exists)
		if err != nil {
			t.Fatalf("failed to check %s table: %v", table, err)
		}
		if !exists {
			t.Errorf("%s table was not created", table)
		}
	}

	// Re-running is a no-op and SetVersion uses $1 placeholders.
	if count, err := runner.ApplyMigrations(nil); err != nil || count != 0 {
		t.Errorf("second ApplyMigrations = (%d, %v), want (0, nil)", count, err)
	}
	if err := runner.SetVersion(latest); err != nil {
		t.Errorf("SetVersion failed: %v", err)
	}
}
