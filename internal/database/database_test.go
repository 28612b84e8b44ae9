package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenRunsMigrations(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var theme string
	if err := db.QueryRow(`SELECT value FROM client_state WHERE key = 'theme'`).Scan(&theme); err != nil {
		t.Fatalf("query seeded theme: %v", err)
	}
	if theme != "light" {
		t.Errorf("theme = %q, want light", theme)
	}

	if _, err := db.Exec(`INSERT INTO reminder_log (event_id, event_date) VALUES ('e1', '2024-01-01')`); err != nil {
		t.Fatalf("insert reminder log: %v", err)
	}
}

func TestOpenFileIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	for i := 0; i < 2; i++ {
		db, err := Open(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		db.Close()
	}
}

func TestVersionMatchesLatestMigration(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	got, err := Version(context.Background(), db)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if got != 3 {
		t.Errorf("version = %d, want 3", got)
	}

	n, err := migrate(context.Background(), db)
	if err != nil {
		t.Fatalf("migrate again: %v", err)
	}
	if n != 0 {
		t.Errorf("second migrate applied %d, want 0", n)
	}
}
