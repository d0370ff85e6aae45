package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_CreatesSchemaVersionTable(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "schema_version", name)
}

func TestMigrate_AppliesAllMigrations(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	var version int
	require.NoError(t, db.QueryRow(`SELECT version FROM schema_version`).Scan(&version))
	assert.Equal(t, len(All), version)

	for _, table := range []string{"files", "features", "scenarios", "scenario_tags"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

// withMigrations swaps All for the duration of the test.
func withMigrations(t *testing.T, migrations ...string) {
	t.Helper()
	orig := All
	All = migrations
	t.Cleanup(func() { All = orig })
}

func currentVersion(t *testing.T, db *sql.DB) int {
	t.Helper()
	var v int
	require.NoError(t, db.QueryRow(`SELECT version FROM schema_version`).Scan(&v))
	return v
}

func TestMigrate_RunsPendingMigrations(t *testing.T) {
	withMigrations(t, `CREATE TABLE test_one (id INTEGER PRIMARY KEY)`)
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	assert.Equal(t, 1, currentVersion(t, db))

	All = append(All, `CREATE TABLE test_two (id INTEGER PRIMARY KEY)`)
	require.NoError(t, Migrate(db))
	assert.Equal(t, 2, currentVersion(t, db))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('test_one', 'test_two')`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestMigrate_SkipsAlreadyAppliedMigrations(t *testing.T) {
	withMigrations(t, `CREATE TABLE test_idem (id INTEGER PRIMARY KEY)`)
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&rows))
	assert.Equal(t, 1, rows)
	assert.Equal(t, 1, currentVersion(t, db))
}

func TestMigrate_RollsBackOnFailure(t *testing.T) {
	withMigrations(t,
		`CREATE TABLE test_good (id INTEGER PRIMARY KEY)`,
		`INVALID SQL STATEMENT`,
	)
	db := openTestDB(t)
	assert.ErrorContains(t, Migrate(db), "migration 2 failed")
	assert.Equal(t, 1, currentVersion(t, db))
}

func TestOpen_UsesWALAndForeignKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	sqlDB, err := Open(path)
	require.NoError(t, err)
	defer sqlDB.Close()

	var mode string
	require.NoError(t, sqlDB.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, sqlDB.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpen_CascadesFileDeletes(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	res, err := sqlDB.Exec(`INSERT INTO files (file_path) VALUES ('a.feature')`)
	require.NoError(t, err)
	fileID, err := res.LastInsertId()
	require.NoError(t, err)
	res, err = sqlDB.Exec(`INSERT INTO scenarios (file_id, name, keyword, line) VALUES (?, 'S', 'Scenario', 2)`, fileID)
	require.NoError(t, err)
	scenarioID, err := res.LastInsertId()
	require.NoError(t, err)
	_, err = sqlDB.Exec(`INSERT INTO scenario_tags (scenario_id, name) VALUES (?, '@wip')`, scenarioID)
	require.NoError(t, err)

	_, err = sqlDB.Exec(`DELETE FROM files WHERE id = ?`, fileID)
	require.NoError(t, err)

	var count int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM scenario_tags`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestOpen_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	var version int
	require.NoError(t, second.QueryRow(`SELECT version FROM schema_version`).Scan(&version))
	assert.Equal(t, len(All), version)
}
