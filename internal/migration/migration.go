// Package migration applies the embedded NNN_name.sql schema files in order
// and tracks the applied version in a one-row schema_version table.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitpulse/internal/logger"
)

// Dialect selects the bind-parameter syntax for the schema_version queries
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

func (d Dialect) placeholder() string {
	if d == DialectPostgres {
		return "$1"
	}
	return "?"
}

// ErrSchemaTooNew is returned when the database was written by a newer build
var ErrSchemaTooNew = errors.New("database schema is newer than this build supports")

type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Status describes where a database stands relative to the shipped files.
type Status struct {
	Current int
	Latest  int
	Pending []Migration
}

func (s Status) tooNew() error {
	if s.Current > s.Latest {
		return fmt.Errorf("%w: database is at version %d, latest known is %d - please upgrade habitpulse", ErrSchemaTooNew, s.Current, s.Latest)
	}
	return nil
}

type Runner struct {
	db      *sql.DB
	files   fs.FS
	dialect Dialect
}

// NewRunner reads migration files from the root of files.
func NewRunner(db *sql.DB, files fs.FS, dialect Dialect) *Runner {
	return &Runner{db: db, files: files, dialect: dialect}
}

// EnsureSchemaVersionTable creates the tracking table if needed.
func (r *Runner) EnsureSchemaVersionTable() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	return err
}

// GetCurrentVersion returns the applied version, 0 for a fresh database.
func (r *Runner) GetCurrentVersion() (int, error) {
	if err := r.EnsureSchemaVersionTable(); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_version table: %w", err)
	}

	var version int
	switch err := r.db.QueryRow(`SELECT version FROM schema_version`).Scan(&version); {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// SetVersion overwrites the recorded version without running any migration.
func (r *Runner) SetVersion(version int) error {
	if err := r.EnsureSchemaVersionTable(); err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	return r.inTx(func(tx *sql.Tx) error { return r.recordVersion(tx, version) })
}

func (r *Runner) recordVersion(tx *sql.Tx, version int) error {
	if _, err := tx.Exec(`DELETE FROM schema_version`); err != nil {
		return fmt.Errorf("failed to clear schema version: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (`+r.dialect.placeholder()+`)`, version); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

func (r *Runner) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// parseFilename turns "001_init.sql" into (1, "init").
func parseFilename(name string) (int, string, error) {
	stem := strings.TrimSuffix(name, path.Ext(name))
	num, label, ok := strings.Cut(stem, "_")
	if !ok {
		return 0, "", fmt.Errorf("invalid migration filename %s (expected NNN_name.sql)", name)
	}
	version, err := strconv.Atoi(num)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version number in filename %s: %w", name, err)
	}
	if version < 1 {
		return 0, "", fmt.Errorf("invalid version number in filename %s: version must be at least 1", name)
	}
	return version, label, nil
}

// ReadMigrationFiles returns every .sql file sorted by version. Two files
// with the same version number are an error.
func (r *Runner) ReadMigrationFiles() ([]Migration, error) {
	entries, err := fs.ReadDir(r.files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	seen := make(map[int]string)
	var out []Migration
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}
		version, label, err := parseFilename(entry.Name())
		if err != nil {
			return nil, err
		}
		if prior, dup := seen[version]; dup {
			return nil, fmt.Errorf("duplicate migration version %d (%s and %s)", version, prior, entry.Name())
		}
		seen[version] = entry.Name()

		body, err := fs.ReadFile(r.files, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}
		out = append(out, Migration{Version: version, Name: label, SQL: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// GetLatestVersion returns the highest shipped version, 0 if there are none.
func (r *Runner) GetLatestVersion() (int, error) {
	files, err := r.ReadMigrationFiles()
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, nil
	}
	return files[len(files)-1].Version, nil
}

// Status reports the current and latest versions and what is left to apply.
func (r *Runner) Status() (Status, error) {
	current, err := r.GetCurrentVersion()
	if err != nil {
		return Status{}, err
	}
	files, err := r.ReadMigrationFiles()
	if err != nil {
		return Status{}, fmt.Errorf("failed to read migrations: %w", err)
	}

	st := Status{Current: current}
	for _, m := range files {
		st.Latest = m.Version
		if m.Version > current {
			st.Pending = append(st.Pending, m)
		}
	}
	return st, nil
}

// ApplyMigrations runs every pending migration, each in its own transaction
// together with its version bump, and returns how many were applied. A
// failure stops the run; earlier migrations stay committed.
func (r *Runner) ApplyMigrations() (int, error) {
	st, err := r.Status()
	if err != nil {
		return 0, err
	}
	if st.Latest == 0 {
		logger.Warn("No migration files found")
		return 0, nil
	}
	if err := st.tooNew(); err != nil {
		return 0, err
	}
	if len(st.Pending) == 0 {
		logger.Debug("Database schema is up to date", "version", st.Current)
		return 0, nil
	}

	logger.Info("Applying migrations", "from", st.Current, "to", st.Latest, "count", len(st.Pending))
	started := time.Now()

	for i, m := range st.Pending {
		err := r.inTx(func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
			}
			return r.recordVersion(tx, m.Version)
		})
		if err != nil {
			return i, err
		}
		logger.Info("Migration applied", "version", m.Version, "name", m.Name)
	}

	logger.Info("Migrations complete", "applied", len(st.Pending), "duration", time.Since(started))
	return len(st.Pending), nil
}

// ValidateVersion fails with ErrSchemaTooNew when the database is ahead of
// the shipped files. Pending migrations are not an error.
func (r *Runner) ValidateVersion() error {
	st, err := r.Status()
	if err != nil {
		return err
	}
	return st.tooNew()
}
