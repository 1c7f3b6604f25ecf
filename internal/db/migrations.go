package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
// Listings reference developers and locations by id only; there is no
// foreign key so catalog rows can be reseeded independently.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS developers (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		name          TEXT    NOT NULL,
		logo          TEXT    NOT NULL DEFAULT '',
		description   TEXT    NOT NULL DEFAULT '',
		project_count INTEGER NOT NULL DEFAULT 0,
		established   INTEGER NOT NULL DEFAULT 0,
		email         TEXT    NOT NULL DEFAULT '',
		phone         TEXT    NOT NULL DEFAULT '',
		website       TEXT    NOT NULL DEFAULT '',
		featured      BOOLEAN NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		name           TEXT    NOT NULL,
		city           TEXT    NOT NULL DEFAULT '',
		description    TEXT    NOT NULL DEFAULT '',
		image          TEXT    NOT NULL DEFAULT '',
		property_count INTEGER NOT NULL DEFAULT 0,
		featured       BOOLEAN NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS listings (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		title         TEXT    NOT NULL,
		description   TEXT    NOT NULL DEFAULT '',
		property_type TEXT    NOT NULL,
		status        TEXT    NOT NULL DEFAULT '',
		price         REAL    NOT NULL DEFAULT 0,
		beds          INTEGER NOT NULL DEFAULT 0,
		baths         INTEGER NOT NULL DEFAULT 0,
		area          REAL    NOT NULL DEFAULT 0,
		location_id   INTEGER,
		developer_id  INTEGER,
		images        TEXT    NOT NULL DEFAULT '[]',
		features      TEXT    NOT NULL DEFAULT '[]',
		latitude      REAL,
		longitude     REAL,
		featured      BOOLEAN NOT NULL DEFAULT 0,
		premium       BOOLEAN NOT NULL DEFAULT 0,
		exclusive     BOOLEAN NOT NULL DEFAULT 0,
		new_launch    BOOLEAN NOT NULL DEFAULT 0,
		review_status TEXT    NOT NULL DEFAULT 'pending',
		contact_name  TEXT    NOT NULL DEFAULT '',
		contact_email TEXT    NOT NULL DEFAULT '',
		contact_phone TEXT    NOT NULL DEFAULT '',
		listing_type  TEXT    NOT NULL DEFAULT 'sale',
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_review_status ON listings (review_status)`,
	`CREATE TABLE IF NOT EXISTS contact_messages (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT    NOT NULL,
		email       TEXT    NOT NULL,
		phone       TEXT    NOT NULL DEFAULT '',
		subject     TEXT    NOT NULL DEFAULT '',
		message     TEXT    NOT NULL,
		property_id INTEGER,
		status      TEXT    NOT NULL DEFAULT 'new',
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_messages_status ON contact_messages (status)`,
	`CREATE TABLE IF NOT EXISTS users (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		username   TEXT    NOT NULL UNIQUE,
		role       TEXT    NOT NULL DEFAULT 'admin',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	// Column additions (idempotent, checks if column exists first)
	columnMigrations := []struct {
		table, column, definition string
	}{
		{"listings", "address", "TEXT NOT NULL DEFAULT ''"},
	}

	for _, cm := range columnMigrations {
		if err := addColumnIfNotExists(db, cm.table, cm.column, cm.definition); err != nil {
			return fmt.Errorf("adding %s.%s: %w", cm.table, cm.column, err)
		}
	}

	return nil
}

// addColumnIfNotExists adds a column to a table if it doesn't already exist.
func addColumnIfNotExists(db *sql.DB, table, column, definition string) (err error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return fmt.Errorf("checking table info: %w", err)
	}
	defer CloseRows(rows, &err)

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scanning column info: %w", err)
		}
		if name == column {
			return nil // column already exists
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating columns: %w", err)
	}

	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	return err
}
