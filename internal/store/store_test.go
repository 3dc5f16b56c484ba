// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testUser creates a throwaway author and registers cleanup. Deleting the
// user cascades to their posts and those posts' comments.
func testUser(t *testing.T, db *sql.DB, username string) *models.User {
	t.Helper()

	users := NewUserStore(db)
	user, err := users.Create(username, username+"@example.test", "hunter2-but-longer", username)
	if err != nil {
		t.Fatalf("create test user %q: %v", username, err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})
	return user
}

// testCategory creates a category and registers cleanup. The cascade takes
// any descendants with it, so only roots need explicit removal.
func testCategory(t *testing.T, db *sql.DB, name string, parentID *uuid.UUID) *models.Category {
	t.Helper()

	categories := NewCategoryStore(db)
	cat, err := categories.Create(name, parentID)
	if err != nil {
		t.Fatalf("create test category %q: %v", name, err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM categories WHERE id = $1", cat.ID)
	})
	return cat
}
