package storage

import (
	"database/sql"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(Config{InMemory: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	if err := db.Migrate(); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	// The knowledge tables exist after migration.
	for _, table := range []string{"learning_sessions", "discovered_patterns", "error_corrections"} {
		var name string
		err := db.Conn().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestTransactionRollsBackOnError(t *testing.T) {
	db := newTestDB(t)

	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	err := db.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			"INSERT INTO discovered_patterns (pattern_id, pattern_type, pattern_data, confidence, discovered_at) VALUES ('p1', 't', '{}', 0.5, CURRENT_TIMESTAMP)",
		); err != nil {
			return err
		}
		// Duplicate primary key forces the whole transaction to fail.
		_, err := tx.Exec(
			"INSERT INTO discovered_patterns (pattern_id, pattern_type, pattern_data, confidence, discovered_at) VALUES ('p1', 't', '{}', 0.5, CURRENT_TIMESTAMP)",
		)
		return err
	})
	if err == nil {
		t.Fatal("expected transaction error")
	}

	var count int
	if err := db.Conn().QueryRow("SELECT COUNT(*) FROM discovered_patterns").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("rolled-back insert left %d rows", count)
	}
}

func TestSizeBytes(t *testing.T) {
	db := newTestDB(t)

	// A fresh database has no pages; size is only meaningful once the
	// schema exists.
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	size, err := db.SizeBytes()
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if size <= 0 {
		t.Errorf("size = %d, want > 0", size)
	}
}
