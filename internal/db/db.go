// Package db opens the SQLite database used when no Postgres URL is set.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// busyTimeoutMS lets concurrent request handlers wait for the write lock
// instead of failing with SQLITE_BUSY.
const busyTimeoutMS = 5000

// DefaultPath returns the fallback database location, ~/.realty-site/realty.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".realty-site", "realty.db"), nil
}

// isMemory reports whether path names an in-memory database.
func isMemory(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}

// Open opens or creates the database at path, applies connection pragmas
// and brings the schema up to date. ":memory:" opens a private in-memory
// database limited to one connection so every query sees the same data.
func Open(path string) (*sql.DB, error) {
	memory := isMemory(path)
	if !memory {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
	}

	if err := configure(db, memory); err != nil {
		return nil, closeOnError(db, err)
	}
	if err := migrate(db); err != nil {
		return nil, closeOnError(db, fmt.Errorf("running migrations: %w", err))
	}

	return db, nil
}

func closeOnError(db *sql.DB, err error) error {
	if closeErr := db.Close(); closeErr != nil {
		return fmt.Errorf("%w (also failed to close: %v)", err, closeErr)
	}
	return err
}

// configure sets the pragmas every connection needs. WAL does not apply to
// in-memory databases.
func configure(db *sql.DB, memory bool) error {
	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeoutMS),
	}
	if !memory {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL")
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("executing %s: %w", p, err)
		}
	}

	return nil
}

// CloseRows closes rows and, if nothing failed earlier, reports a close
// failure through err. Call it deferred with a named error result.
func CloseRows(rows interface{ Close() error }, err *error) {
	if cerr := rows.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("closing rows: %w", cerr)
	}
}
