package parser

import (
	"path/filepath"
	"sort"
	"strings"
)

// Summary is the flat view of a document stored in the feature index.
type Summary struct {
	URI         string
	Name        string
	Description string
	Line        int
	Background  string // raw Background block, if any
	Scenarios   []ScenarioSummary
}

// ScenarioSummary describes one scenario or scenario outline.
type ScenarioSummary struct {
	Name    string
	Keyword string
	Line    int      // 1-based line of the scenario keyword
	Tags    []string // feature tags followed by the scenario's own
	Steps   int
	Content string // raw text from the keyword line to the end of the scenario
}

// Summarize flattens doc. A document without a feature is named after its
// file.
func Summarize(doc *Document, uri string, content []byte) *Summary {
	s := &Summary{URI: uri}
	if doc == nil || doc.Feature == nil {
		s.Name = filenameWithoutExt(uri)
		return s
	}
	s.Name = doc.Feature.Name
	s.Description = doc.Feature.Description
	s.Line = doc.Feature.Line
	if s.Name == "" {
		s.Name = filenameWithoutExt(uri)
	}

	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	starts := make([]int, len(doc.Feature.Scenarios))
	for i, sc := range doc.Feature.Scenarios {
		starts[i] = sc.Line
	}
	sort.Ints(starts)

	if bg := doc.Feature.Background; bg != nil {
		s.Background = scenarioBlock(lines, bg.Line, starts)
	}

	featureTags := doc.Feature.TagNames()
	for _, sc := range doc.Feature.Scenarios {
		ss := ScenarioSummary{
			Name:    sc.Name,
			Keyword: sc.Keyword,
			Line:    sc.Line,
			Tags:    mergeTags(featureTags, sc.TagNames()),
			Steps:   len(sc.Steps),
		}
		ss.Content = scenarioBlock(lines, sc.Line, starts)
		s.Scenarios = append(s.Scenarios, ss)
	}
	return s
}

// scenarioBlock returns the lines from the scenario at line up to the next
// scenario, leaving out the tags, comments and blank lines that lead into
// the next one.
func scenarioBlock(lines []string, line int, starts []int) string {
	startLine := line - 1
	if startLine < 0 || startLine >= len(lines) {
		return ""
	}
	endLine := len(lines)
	for _, next := range starts {
		if next > line {
			endLine = next - 1
			for endLine > startLine {
				t := strings.TrimSpace(lines[endLine-1])
				if t == "" || strings.HasPrefix(t, "@") || strings.HasPrefix(t, "#") {
					endLine--
				} else {
					break
				}
			}
			break
		}
	}
	for endLine > startLine && strings.TrimSpace(lines[endLine-1]) == "" {
		endLine--
	}
	return strings.Join(lines[startLine:endLine], "\n")
}

func mergeTags(inherited, own []string) []string {
	if len(inherited) == 0 && len(own) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var tags []string
	for _, t := range append(append([]string(nil), inherited...), own...) {
		if !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}
	return tags
}

func filenameWithoutExt(filename string) string {
	name := filepath.Base(filename)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
