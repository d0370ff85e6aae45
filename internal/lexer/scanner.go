package lexer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chriserin/gk/internal/i18n"
)

const byteOrderMark = "\uFEFF"

var elementKinds = map[string]Kind{
	i18n.Feature:         KindFeature,
	i18n.Background:      KindBackground,
	i18n.Scenario:        KindScenario,
	i18n.ScenarioOutline: KindScenarioOutline,
	i18n.Examples:        KindExamples,
}

type elementKeyword struct {
	kind    Kind
	keyword string
}

// Scanner tokenizes documents written with one language's keywords. A
// Scanner holds no per-document state and may be reused.
type Scanner struct {
	elements []elementKeyword
	steps    []string
}

// New returns a Scanner for lang. Keywords are tried longest first so that
// "Scenario Outline" wins over "Scenario".
func New(lang *i18n.Language) *Scanner {
	s := &Scanner{}
	for _, key := range i18n.FeatureElementKeys {
		for _, kw := range lang.Keywords(key) {
			s.elements = append(s.elements, elementKeyword{kind: elementKinds[key], keyword: kw})
		}
	}
	sort.SliceStable(s.elements, func(i, j int) bool {
		return len(s.elements[i].keyword) > len(s.elements[j].keyword)
	})

	s.steps = lang.StepKeywords()
	sort.SliceStable(s.steps, func(i, j int) bool {
		return len(s.steps[i]) > len(s.steps[j])
	})
	return s
}

// Events scans source and returns every event, ending with eof.
func (s *Scanner) Events(source string) ([]Event, error) {
	var rec Recorder
	if err := s.Scan(source, &rec); err != nil {
		return rec.Events, err
	}
	return rec.Events, nil
}

// Scan sends the events of source to h in order. Scanning stops at the first
// LexError or at the first error returned by h.
func (s *Scanner) Scan(source string, h Handler) error {
	st := &scan{Scanner: s, h: h}
	source = strings.TrimPrefix(source, byteOrderMark)
	st.lines = strings.Split(source, "\n")
	return st.run()
}

type pendingElement struct {
	event Event
	desc  []string
}

type scan struct {
	*Scanner
	h       Handler
	lines   []string
	pending *pendingElement
}

func (st *scan) run() error {
	for i := 0; i < len(st.lines); i++ {
		line := i + 1
		raw := strings.TrimSuffix(st.lines[i], "\r")
		trimmed := strings.TrimSpace(raw)

		if st.pending != nil {
			if st.continuesDescription(trimmed) {
				st.pending.desc = append(st.pending.desc, raw)
				continue
			}
			if err := st.flush(); err != nil {
				return err
			}
		}

		switch {
		case trimmed == "":
		case strings.HasPrefix(trimmed, "#"):
			if err := st.h.Handle(Comment(trimmed, line)); err != nil {
				return err
			}
		case strings.HasPrefix(trimmed, "@"):
			tags, err := parseTags(trimmed, line)
			if err != nil {
				return err
			}
			for _, tag := range tags {
				if err := st.h.Handle(tag); err != nil {
					return err
				}
			}
		case strings.HasPrefix(trimmed, "|"):
			cells, ok := parseRow(trimmed)
			if !ok {
				return &LexError{Line: line, Message: fmt.Sprintf("'%s'", trimmed)}
			}
			if err := st.h.Handle(Row(cells, line)); err != nil {
				return err
			}
		case isDocStringDelimiter(trimmed):
			end, err := st.docString(i)
			if err != nil {
				return err
			}
			i = end
		default:
			if err := st.keywordLine(raw, line); err != nil {
				return err
			}
		}
	}

	if st.pending != nil {
		if err := st.flush(); err != nil {
			return err
		}
	}
	return st.h.Handle(EOF())
}

func (st *scan) keywordLine(raw string, line int) error {
	left := strings.TrimLeft(raw, " \t")
	if kind, kw, name, ok := st.matchElement(left); ok {
		st.pending = &pendingElement{event: Element(kind, kw, name, "", line)}
		return nil
	}
	if kw, name, ok := st.matchStep(left); ok {
		return st.h.Handle(Step(kw, name, line))
	}
	return &LexError{Line: line, Message: fmt.Sprintf("'%s'", strings.TrimSpace(raw))}
}

func (st *scan) matchElement(left string) (Kind, string, string, bool) {
	for _, el := range st.elements {
		if strings.HasPrefix(left, el.keyword+":") {
			return el.kind, el.keyword, strings.TrimSpace(left[len(el.keyword)+1:]), true
		}
	}
	return 0, "", "", false
}

func (st *scan) matchStep(left string) (string, string, bool) {
	for _, kw := range st.steps {
		if strings.HasPrefix(left, kw) {
			return kw, strings.TrimSpace(left[len(kw):]), true
		}
	}
	return "", "", false
}

// continuesDescription reports whether a line belongs to the free text of the
// pending element. Feature descriptions may contain step-like lines; other
// elements end their description at the first step.
func (st *scan) continuesDescription(trimmed string) bool {
	if trimmed == "" {
		return true
	}
	switch trimmed[0] {
	case '#', '@', '|':
		return false
	}
	if isDocStringDelimiter(trimmed) {
		return false
	}
	if _, _, _, ok := st.matchElement(trimmed); ok {
		return false
	}
	if st.pending.event.Kind != KindFeature {
		if _, _, ok := st.matchStep(trimmed); ok {
			return false
		}
	}
	return true
}

func (st *scan) flush() error {
	p := st.pending
	st.pending = nil
	p.event.Description = foldDescription(p.desc)
	return st.h.Handle(p.event)
}

// foldDescription joins description lines, dropping surrounding blank lines
// and removing the first line's indentation from every line.
func foldDescription(lines []string) string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start == end {
		return ""
	}

	first := lines[start]
	indent := len(first) - len(strings.TrimLeft(first, " \t"))
	out := make([]string, 0, end-start)
	for _, l := range lines[start:end] {
		if strings.TrimSpace(l) == "" {
			out = append(out, "")
			continue
		}
		out = append(out, stripIndent(l, indent))
	}
	return strings.Join(out, "\n")
}

// stripIndent removes up to n leading spaces or tabs.
func stripIndent(s string, n int) string {
	i := 0
	for i < n && i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[i:]
}

func parseTags(trimmed string, line int) ([]Event, error) {
	var tags []Event
	for _, word := range strings.Fields(trimmed) {
		if !strings.HasPrefix(word, "@") {
			return nil, &LexError{Line: line, Message: fmt.Sprintf("'%s'", trimmed)}
		}
		for _, name := range strings.Split(word[1:], "@") {
			if name == "" {
				return nil, &LexError{Line: line, Message: fmt.Sprintf("'%s'", trimmed)}
			}
			tags = append(tags, Tag("@"+name, line))
		}
	}
	return tags, nil
}

// parseRow splits a table line into unescaped cells. A backslash escapes
// the character after it, so "\|" is not a cell boundary; the row must end
// with an unescaped pipe followed by nothing but whitespace.
func parseRow(trimmed string) ([]string, bool) {
	var cells []string
	var cell strings.Builder
	rest := trimmed[1:]
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		switch {
		case c == '\\' && i+1 < len(rest):
			cell.WriteByte(c)
			cell.WriteByte(rest[i+1])
			i++
		case c == '|':
			cells = append(cells, unescapeCell(strings.TrimSpace(cell.String())))
			cell.Reset()
		default:
			cell.WriteByte(c)
		}
	}
	if len(cells) == 0 || strings.TrimSpace(cell.String()) != "" {
		return nil, false
	}
	return cells, true
}

func unescapeCell(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case '|':
				b.WriteByte('|')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			}
		}
		b.WriteByte(raw[i])
	}
	return b.String()
}

func isDocStringDelimiter(trimmed string) bool {
	return strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, `'''`)
}

// docString consumes the doc string opened on line index i and returns the
// index of its closing delimiter. Content keeps its own line endings; the
// opening delimiter's indentation is removed from each content line.
func (st *scan) docString(i int) (int, error) {
	open := strings.TrimSuffix(st.lines[i], "\r")
	left := strings.TrimLeft(open, " \t")
	indent := len(open) - len(left)
	delim := left[:3]
	contentType := strings.TrimSpace(left[3:])
	escaped := `\` + delim[:1] + `\` + delim[:1] + `\` + delim[:1]

	var content []string
	for j := i + 1; j < len(st.lines); j++ {
		if strings.TrimSpace(st.lines[j]) == delim {
			value := strings.TrimSuffix(strings.Join(content, "\n"), "\r")
			return j, st.h.Handle(DocString(contentType, value, i+1))
		}
		l := stripIndent(st.lines[j], indent)
		content = append(content, strings.ReplaceAll(l, escaped, delim))
	}
	return 0, &LexError{Line: i + 1, Message: "unterminated doc string"}
}
