// Package testutil provides shared test helpers for setting up databases.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "dagaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestUser creates a user row for tests that need an owner.
func TestUser(t *testing.T, db *store.DB, email string) *models.User {
	t.Helper()
	u, err := db.CreateUser(context.Background(), email, "x")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u
}
