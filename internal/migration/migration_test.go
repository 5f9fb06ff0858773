package migration

import (
	"database/sql"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitpulse/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetCurrentVersion(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fstest.MapFS{}, DialectSQLite)

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	version, err = runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fstest.MapFS{
		"002_second.sql": {Data: []byte("SELECT 2;")},
		"001_first.sql":  {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("ignored")},
	}, DialectSQLite)

	migs, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(migs) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migs))
	}
	if migs[0].Version != 1 || migs[0].Name != "first" {
		t.Errorf("unexpected first migration %+v", migs[0])
	}
	if migs[1].Version != 2 || migs[1].Name != "second" {
		t.Errorf("unexpected second migration %+v", migs[1])
	}
}

func TestReadMigrationFiles_Invalid(t *testing.T) {
	db := setupTestDB(t)

	tests := map[string]fstest.MapFS{
		"no underscore": {"001.sql": {Data: []byte("")}},
		"bad number":    {"abc_init.sql": {Data: []byte("")}},
		"zero version":  {"000_init.sql": {Data: []byte("")}},
		"duplicate":     {"001_a.sql": {Data: []byte("")}, "01_b.sql": {Data: []byte("")}},
	}
	for name, fsys := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := NewRunner(db, fsys, DialectSQLite).ReadMigrationFiles(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestApplyMigrations_Embedded(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, mustSub(t, "sqlite"), DialectSQLite)

	applied, err := runner.ApplyMigrations()
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if applied < 1 {
		t.Fatalf("expected at least one migration applied, got %d", applied)
	}

	for _, table := range []string{"habits", "logs"} {
		var count int
		if err := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&count); err != nil {
			t.Fatalf("failed to check table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("expected table %s to exist", table)
		}
	}
	for _, index := range []string{"idx_logs_habit_id", "idx_logs_timestamp"} {
		var count int
		if err := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='index' AND name = ?", index).Scan(&count); err != nil {
			t.Fatalf("failed to check index %s: %v", index, err)
		}
		if count != 1 {
			t.Errorf("expected index %s to exist", index)
		}
	}

	// Second run is a no-op
	applied, err = runner.ApplyMigrations()
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected no migrations on second run, got %d", applied)
	}
}

func TestApplyMigrations_RollsBackFailedMigration(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fstest.MapFS{
		"001_ok.sql":     {Data: []byte("CREATE TABLE ok (id INTEGER);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE broken (id INTEGER); NOT VALID SQL;")},
	}, DialectSQLite)

	applied, err := runner.ApplyMigrations()
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if applied != 1 {
		t.Errorf("expected 1 applied migration, got %d", applied)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("expected version 1 after failed migration, got %d", version)
	}
}

func TestValidateVersion_TooNew(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fstest.MapFS{
		"001_init.sql": {Data: []byte("SELECT 1;")},
	}, DialectSQLite)

	if err := runner.SetVersion(3); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if err := runner.ValidateVersion(); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("ValidateVersion() error = %v, want ErrSchemaTooNew", err)
	}
	if _, err := runner.ApplyMigrations(); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("ApplyMigrations() error = %v, want ErrSchemaTooNew", err)
	}
}

func mustSub(t *testing.T, dir string) fs.FS {
	t.Helper()
	sub, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		t.Fatalf("failed to access embedded %s migrations: %v", dir, err)
	}
	return sub
}

func TestStatus(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fstest.MapFS{
		"001_first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"002_second.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
	}, DialectSQLite)

	if err := runner.SetVersion(1); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	st, err := runner.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.Current != 1 || st.Latest != 2 {
		t.Errorf("Status() = current %d latest %d, want 1 and 2", st.Current, st.Latest)
	}
	if len(st.Pending) != 1 || st.Pending[0].Name != "second" {
		t.Errorf("unexpected pending migrations %+v", st.Pending)
	}
}

func TestParseFilename(t *testing.T) {
	version, label, err := parseFilename("012_add_units.sql")
	if err != nil || version != 12 || label != "add_units" {
		t.Errorf("parseFilename() = %d, %q, %v", version, label, err)
	}
}
