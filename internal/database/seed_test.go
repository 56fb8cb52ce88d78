package database

import (
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed only writes into an empty table, so calling it twice must be
	// safe even when other packages share the database.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM posts"); err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if count < 1 {
		t.Errorf("expected at least 1 post, got %d", count)
	}
}
