package sqlite

import (
	"database/sql"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateUp(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}

	version, err := MigrationVersion(db)
	if err != nil {
		t.Fatalf("MigrationVersion failed: %v", err)
	}
	if version < 2 {
		t.Errorf("expected version >= 2, got %d", version)
	}

	for _, table := range []string{"ipc_section", "fir_record", "act", "legal_term", "faq", "procedure"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first MigrateUp failed: %v", err)
	}
	v1, _ := MigrationVersion(db)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("second MigrateUp failed: %v", err)
	}
	v2, _ := MigrationVersion(db)

	if v1 != v2 {
		t.Errorf("version changed on re-run: %d -> %d", v1, v2)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ipc_section`).Scan(&count); err != nil {
		t.Fatalf("count sections: %v", err)
	}
	if count < 28 {
		t.Errorf("expected seeded sections, got %d", count)
	}
}

func TestNewDB_MissingParentDir(t *testing.T) {
	if _, err := NewDB("/no/such/dir/app.db"); err == nil {
		t.Error("expected error for missing parent directory")
	}
}
