package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kkugi/chuubot/db"
)

// SetupTestDB creates a test database connection and runs migrations.
// It skips the test if TEST_PG_DSN environment variable is not set.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN not set")
	}
	database, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.Migrate(context.Background(), database); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// UniqueUserID returns a per-test user id so parallel packages sharing one
// database do not collide, and cleans the row up afterwards.
func UniqueUserID(t *testing.T) string {
	t.Helper()
	id := fmt.Sprintf("test_%s", t.Name())
	t.Cleanup(func() {
		dsn := os.Getenv("TEST_PG_DSN")
		if dsn == "" {
			return
		}
		database, err := sql.Open("pgx", dsn)
		if err != nil {
			return
		}
		defer database.Close()
		_, _ = database.Exec(`DELETE FROM game_results WHERE user_id = $1`, id)
	})
	return id
}
