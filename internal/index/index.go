// Package index stores parsed feature files in the sqlite index and answers
// the queries behind list, show and tags.
package index

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chriserin/gk/internal/db"
	"github.com/chriserin/gk/internal/parser"
)

// ErrNotFound is returned by Scenario for an unknown id.
var ErrNotFound = errors.New("scenario not found")

type Index struct {
	db *sql.DB
}

// Open opens (and migrates) the index database at path.
func Open(path string) (*Index, error) {
	sqlDB, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	return &Index{db: sqlDB}, nil
}

func (ix *Index) Close() error {
	return ix.db.Close()
}

// Discover walks dir and returns the sorted paths whose base name matches
// glob.
func Discover(dir, glob string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ok, err := filepath.Match(glob, d.Name())
		if err != nil {
			return err
		}
		if ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Record stores a summarized file. Scenarios keep their ids across syncs
// when their name is unchanged; scenarios no longer in the file are
// removed. It reports whether the file was new to the index.
func (ix *Index) Record(s *parser.Summary, language string) (created bool, err error) {
	tx, err := ix.db.Begin()
	if err != nil {
		return false, fmt.Errorf("beginning sync of %s: %w", s.URI, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var fileID int64
	err = tx.QueryRow(`SELECT id FROM files WHERE file_path = ?`, s.URI).Scan(&fileID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.Exec(`INSERT INTO files (file_path, language) VALUES (?, ?)`, s.URI, language)
		if err != nil {
			return false, fmt.Errorf("inserting %s: %w", s.URI, err)
		}
		if fileID, err = res.LastInsertId(); err != nil {
			return false, err
		}
		created = true
	case err != nil:
		return false, fmt.Errorf("querying %s: %w", s.URI, err)
	default:
		if _, err := tx.Exec(`UPDATE files SET language = ?, updated_at = datetime('now') WHERE id = ?`, language, fileID); err != nil {
			return false, fmt.Errorf("updating %s: %w", s.URI, err)
		}
	}

	if _, err = tx.Exec(`
		INSERT INTO features (file_id, name, description, background, line) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(file_id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			background = excluded.background,
			line = excluded.line
	`, fileID, s.Name, s.Description, s.Background, s.Line); err != nil {
		return false, fmt.Errorf("recording feature of %s: %w", s.URI, err)
	}

	existing, all, err := scenarioIDs(tx, fileID)
	if err != nil {
		return false, err
	}

	keep := make(map[int64]bool)
	for _, sc := range s.Scenarios {
		var id int64
		if ids := existing[sc.Name]; len(ids) > 0 {
			id = ids[0]
			existing[sc.Name] = ids[1:]
			_, err = tx.Exec(`
				UPDATE scenarios SET keyword = ?, line = ?, steps = ?, content = ?, updated_at = datetime('now')
				WHERE id = ?
			`, sc.Keyword, sc.Line, sc.Steps, sc.Content, id)
		} else {
			var res sql.Result
			res, err = tx.Exec(`
				INSERT INTO scenarios (file_id, name, keyword, line, steps, content) VALUES (?, ?, ?, ?, ?, ?)
			`, fileID, sc.Name, sc.Keyword, sc.Line, sc.Steps, sc.Content)
			if err == nil {
				id, err = res.LastInsertId()
			}
		}
		if err != nil {
			return false, fmt.Errorf("recording scenario %q: %w", sc.Name, err)
		}
		keep[id] = true

		if _, err = tx.Exec(`DELETE FROM scenario_tags WHERE scenario_id = ?`, id); err != nil {
			return false, fmt.Errorf("clearing tags of %q: %w", sc.Name, err)
		}
		for _, tag := range sc.Tags {
			if _, err = tx.Exec(`INSERT OR IGNORE INTO scenario_tags (scenario_id, name) VALUES (?, ?)`, id, tag); err != nil {
				return false, fmt.Errorf("tagging %q: %w", sc.Name, err)
			}
		}
	}

	for _, id := range all {
		if keep[id] {
			continue
		}
		if _, err = tx.Exec(`DELETE FROM scenarios WHERE id = ?`, id); err != nil {
			return false, fmt.Errorf("removing scenario %d: %w", id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("committing sync of %s: %w", s.URI, err)
	}
	return created, nil
}

// scenarioIDs returns the ids of a file's scenarios grouped by name, oldest
// first, along with every id.
func scenarioIDs(tx *sql.Tx, fileID int64) (map[string][]int64, []int64, error) {
	rows, err := tx.Query(`SELECT id, name FROM scenarios WHERE file_id = ? ORDER BY id`, fileID)
	if err != nil {
		return nil, nil, fmt.Errorf("querying scenarios: %w", err)
	}
	defer rows.Close()

	byName := make(map[string][]int64)
	var all []int64
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, nil, fmt.Errorf("scanning scenario: %w", err)
		}
		byName[name] = append(byName[name], id)
		all = append(all, id)
	}
	return byName, all, rows.Err()
}
