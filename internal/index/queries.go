package index

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

type ScenarioRow struct {
	ID       int64
	FilePath string
	Name     string
	Keyword  string
	Line     int
	Tags     []string
}

// ScenarioDetail is everything `gk show` prints for one scenario.
type ScenarioDetail struct {
	ScenarioRow
	FeatureName string
	Background  string
	Content     string
	Language    string
}

type TagCount struct {
	Name  string
	Count int
}

// List returns the indexed scenarios ordered by file and position. A
// non-empty tag restricts the result to scenarios carrying it.
func (ix *Index) List(tag string) ([]ScenarioRow, error) {
	query := `
		SELECT s.id, f.file_path, s.name, s.keyword, s.line,
			COALESCE((SELECT group_concat(name, ' ') FROM scenario_tags WHERE scenario_id = s.id), '')
		FROM scenarios s
		JOIN files f ON s.file_id = f.id
	`
	var args []any
	if tag != "" {
		query += ` WHERE EXISTS (SELECT 1 FROM scenario_tags t WHERE t.scenario_id = s.id AND t.name = ?)`
		args = append(args, tag)
	}
	query += ` ORDER BY f.file_path, s.line, s.id`

	rows, err := ix.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying scenarios: %w", err)
	}
	defer rows.Close()

	var results []ScenarioRow
	for rows.Next() {
		var r ScenarioRow
		var tags string
		if err := rows.Scan(&r.ID, &r.FilePath, &r.Name, &r.Keyword, &r.Line, &tags); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Tags = strings.Fields(tags)
		sort.Strings(r.Tags)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return results, nil
}

// Scenario returns one scenario with its feature context, or ErrNotFound.
func (ix *Index) Scenario(id int64) (*ScenarioDetail, error) {
	d := &ScenarioDetail{}
	err := ix.db.QueryRow(`
		SELECT s.id, f.file_path, s.name, s.keyword, s.line, s.content,
			f.language, COALESCE(ft.name, ''), COALESCE(ft.background, '')
		FROM scenarios s
		JOIN files f ON s.file_id = f.id
		LEFT JOIN features ft ON ft.file_id = f.id
		WHERE s.id = ?
	`, id).Scan(&d.ID, &d.FilePath, &d.Name, &d.Keyword, &d.Line, &d.Content,
		&d.Language, &d.FeatureName, &d.Background)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scenario %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying scenario %d: %w", id, err)
	}

	rows, err := ix.db.Query(`SELECT name FROM scenario_tags WHERE scenario_id = ? ORDER BY name`, id)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		d.Tags = append(d.Tags, name)
	}
	return d, rows.Err()
}

// TagCounts returns how many scenarios carry each tag, most used first.
func (ix *Index) TagCounts() ([]TagCount, error) {
	rows, err := ix.db.Query(`
		SELECT name, COUNT(*) AS n
		FROM scenario_tags
		GROUP BY name
		ORDER BY n DESC, name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	var counts []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Name, &tc.Count); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}
