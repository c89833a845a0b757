package db

import (
	"context"
	"os"
	"testing"
)

func TestMigrateIdempotent(t *testing.T) {
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN not set; skipping postgres migration test")
	}
	ctx := context.Background()
	database, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer database.Close()
	// Running twice must not fail: every statement is IF NOT EXISTS.
	if err := Migrate(ctx, database); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := Migrate(ctx, database); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	var n int
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM game_results`).Scan(&n); err != nil {
		t.Fatalf("query game_results: %v", err)
	}
}
