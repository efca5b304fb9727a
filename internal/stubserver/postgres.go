package stubserver

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
)

// OpenPostgres connects to connStr and applies the stub schema.
func OpenPostgres(connStr string) (Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store, err := newSQLStore(db, true, "stub/postgres")
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// OpenStore picks the backend from dsn: postgres:// and postgresql:// URLs
// use PostgreSQL, anything else is a SQLite path.
func OpenStore(dsn string) (Store, error) {
	if isPostgres(dsn) {
		return OpenPostgres(dsn)
	}
	return OpenSQLite(dsn)
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
