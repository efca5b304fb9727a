// Package migration brings a database schema up to date from a directory of
// numbered SQL files. shiftdesk keeps two sets under migrations/: the
// credentials key-value table used by the sqlite credential backend, and the
// stub API schema, which has one directory per dialect (sqlite and postgres).
// Each store opens a Runner over the directory it owns.
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
)

const versionTable = "schema_version"

// Migration is one NNN_name.sql file.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Runner tracks the applied version in a one-row schema_version table. The
// statements it issues itself are accepted by both sqlite and postgres.
type Runner struct {
	db *sql.DB
	fs fs.FS
}

// NewRunner returns a Runner reading files from the root of migrationFS,
// usually an fs.Sub of the embedded migrations for one store.
func NewRunner(db *sql.DB, migrationFS fs.FS) *Runner {
	return &Runner{db: db, fs: migrationFS}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// EnsureSchemaVersionTable creates the version table on first use.
func (r *Runner) EnsureSchemaVersionTable() error {
	_, err := r.db.Exec("CREATE TABLE IF NOT EXISTS " + versionTable + " (version INTEGER PRIMARY KEY)")
	return err
}

// GetCurrentVersion reports the applied version. A database that has never
// been migrated is at version 0.
func (r *Runner) GetCurrentVersion() (int, error) {
	if err := r.EnsureSchemaVersionTable(); err != nil {
		return 0, fmt.Errorf("failed to ensure %s table: %w", versionTable, err)
	}

	var version int
	switch err := r.db.QueryRow("SELECT version FROM " + versionTable).Scan(&version); {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// SetVersion overwrites the recorded version without running anything.
func (r *Runner) SetVersion(version int) error {
	if err := r.EnsureSchemaVersionTable(); err != nil {
		return fmt.Errorf("failed to ensure %s table: %w", versionTable, err)
	}
	return recordVersion(r.db, version)
}

// recordVersion replaces the single version row. version is an int, so the
// literal is inlined and the statement works with either placeholder style.
func recordVersion(db execer, version int) error {
	if _, err := db.Exec("DELETE FROM " + versionTable); err != nil {
		return fmt.Errorf("failed to clear schema version: %w", err)
	}
	stmt := "INSERT INTO " + versionTable + " (version) VALUES (" + strconv.Itoa(version) + ")"
	if _, err := db.Exec(stmt); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", version, err)
	}
	return nil
}

// parseName splits "001_kv.sql" into its version and name.
func parseName(file string) (int, string, error) {
	prefix, rest, ok := strings.Cut(file, "_")
	if !ok {
		return 0, "", fmt.Errorf("invalid migration filename %s: want NNN_name.sql", file)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version in migration %s: %w", file, err)
	}
	if version < 1 {
		return 0, "", fmt.Errorf("invalid version in migration %s: must be at least 1", file)
	}
	return version, strings.TrimSuffix(rest, ".sql"), nil
}

// ReadMigrationFiles loads every .sql file in the directory, ordered by
// version. Other files are skipped; a repeated version is an error.
func (r *Runner) ReadMigrationFiles() ([]Migration, error) {
	entries, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	var out []Migration
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		version, name, err := parseName(e.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(r.fs, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Version: version, Name: name, SQL: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d (%s and %s)", out[i].Version, out[i-1].Name, out[i].Name)
		}
	}
	return out, nil
}

// apply runs m and records its version in one transaction.
func (r *Runner) apply(m Migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
	}
	if _, err := tx.Exec(m.SQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
	}
	if err := recordVersion(tx, m.Version); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migration %d: %w", m.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

// ApplyMigrations runs every migration newer than the recorded version and
// returns how many ran. logFn, when set, is told about each one. A database
// recorded at a version newer than the files is refused, since it was written
// by a later shiftdesk.
func (r *Runner) ApplyMigrations(logFn func(string)) (int, error) {
	current, err := r.GetCurrentVersion()
	if err != nil {
		return 0, err
	}
	pending, err := r.ReadMigrationFiles()
	if err != nil {
		return 0, fmt.Errorf("failed to read migrations: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}
	if latest := pending[len(pending)-1].Version; current > latest {
		return 0, fmt.Errorf("schema version %d is newer than this build supports (%d); upgrade shiftdesk", current, latest)
	}

	applied := 0
	for _, m := range pending {
		if m.Version <= current {
			continue
		}
		if logFn != nil {
			logFn(fmt.Sprintf("applying migration %d: %s", m.Version, m.Name))
		}
		if err := r.apply(m); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}
