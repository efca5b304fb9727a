package credentials

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/shiftdesk/internal/logger"
	"github.com/julianstephens/shiftdesk/internal/migration"
	"github.com/julianstephens/shiftdesk/migrations"
)

// SQLiteBackend keeps credentials in a small SQLite file, the terminal
// equivalent of a browser's local storage.
type SQLiteBackend struct {
	path string
	db   *sql.DB
}

// OpenSQLiteBackend opens (creating if needed) the database at path and
// applies the credential schema.
func OpenSQLiteBackend(path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open credentials database: %w", err)
	}

	subFS, err := fs.Sub(migrations.FS, "credentials")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to access credential migrations: %w", err)
	}
	runner := migration.NewRunner(db, subFS)
	if _, err := runner.ApplyMigrations(func(msg string) { logger.Debug(msg, "db", path) }); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteBackend{path: path, db: db}, nil
}

func (s *SQLiteBackend) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteBackend) Set(key, value string) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)", key, value)
	return err
}

func (s *SQLiteBackend) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key)
	return err
}

// Path returns the database file location.
func (s *SQLiteBackend) Path() string {
	return s.path
}

func (s *SQLiteBackend) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
