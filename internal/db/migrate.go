package db

import (
	"database/sql"
	"fmt"
)

// All contains the ordered list of migrations to apply.
var All = []string{
	`CREATE TABLE files (
		id         INTEGER PRIMARY KEY,
		file_path  TEXT UNIQUE NOT NULL,
		language   TEXT NOT NULL DEFAULT 'en',
		created_at DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE features (
		id          INTEGER PRIMARY KEY,
		file_id     INTEGER UNIQUE NOT NULL REFERENCES files(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		background  TEXT NOT NULL DEFAULT '',
		line        INTEGER NOT NULL
	)`,
	`CREATE TABLE scenarios (
		id         INTEGER PRIMARY KEY,
		file_id    INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		keyword    TEXT NOT NULL,
		line       INTEGER NOT NULL,
		steps      INTEGER NOT NULL DEFAULT 0,
		content    TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE scenario_tags (
		scenario_id INTEGER NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		PRIMARY KEY (scenario_id, name)
	)`,
	`CREATE INDEX scenario_tags_name ON scenario_tags(name)`,
}

// Migrate brings the schema up to date. Each migration runs in its own
// transaction together with its schema_version bump.
func Migrate(db *sql.DB) error {
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	for n := current + 1; n <= len(All); n++ {
		if err := apply(db, n); err != nil {
			return err
		}
	}
	return nil
}

// schemaVersion returns the number of applied migrations, creating the
// single-row schema_version table on first use.
func schemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return 0, fmt.Errorf("creating schema_version table: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO schema_version (version) SELECT 0 WHERE NOT EXISTS (SELECT 1 FROM schema_version)`); err != nil {
		return 0, fmt.Errorf("initializing schema version: %w", err)
	}
	var version int
	if err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// apply runs migration n (1-based).
func apply(db *sql.DB, n int) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration %d: %w", n, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(All[n-1]); err != nil {
		return fmt.Errorf("migration %d failed: %w", n, err)
	}
	if _, err = tx.Exec(`UPDATE schema_version SET version = ?`, n); err != nil {
		return fmt.Errorf("updating schema version to %d: %w", n, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", n, err)
	}
	return nil
}
