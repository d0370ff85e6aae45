// Package i18n holds the per-language Gherkin keyword catalog and the
// language resolver that picks a catalog entry for a document.
package i18n

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed languages.yml
var languagesYAML []byte

// Keyword keys as they appear in the catalog data.
const (
	Feature         = "feature"
	Background      = "background"
	Scenario        = "scenario"
	ScenarioOutline = "scenario_outline"
	Examples        = "examples"
	Given           = "given"
	When            = "when"
	Then            = "then"
	And             = "and"
	But             = "but"
)

var (
	FeatureElementKeys = []string{Feature, Background, Scenario, ScenarioOutline, Examples}
	StepKeywordKeys    = []string{Given, When, Then, And, But}
	KeywordKeys        = append(append([]string{}, FeatureElementKeys...), StepKeywordKeys...)
)

var (
	codeKeywordRe = regexp.MustCompile(`[\s',!]`)
	whitespaceRe  = regexp.MustCompile(`\s`)
)

// UnsupportedLanguageError is returned when a language code has no catalog entry.
type UnsupportedLanguageError struct {
	Code string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("language not supported: %q", e.Code)
}

// Language is one catalog entry. Values are immutable after load and safe to
// share between concurrent parses.
type Language struct {
	Code   string
	Name   string
	Native string

	keywords map[string][]string
}

type catalog struct {
	languages map[string]*Language
	codes     []string
}

var (
	loadOnce sync.Once
	loaded   *catalog
)

func load() *catalog {
	loadOnce.Do(func() {
		var raw map[string]map[string]string
		if err := yaml.Unmarshal(languagesYAML, &raw); err != nil {
			panic(fmt.Sprintf("i18n: parsing embedded languages.yml: %v", err))
		}

		c := &catalog{languages: make(map[string]*Language, len(raw))}
		for code, fields := range raw {
			lang, err := newLanguage(code, fields)
			if err != nil {
				panic(fmt.Sprintf("i18n: %v", err))
			}
			c.languages[code] = lang
			c.codes = append(c.codes, code)
		}
		sort.Strings(c.codes)
		loaded = c
	})
	return loaded
}

func newLanguage(code string, fields map[string]string) (*Language, error) {
	lang := &Language{
		Code:     code,
		Name:     fields["name"],
		Native:   fields["native"],
		keywords: make(map[string][]string, len(KeywordKeys)),
	}
	for _, key := range KeywordKeys {
		value, ok := fields[key]
		if !ok || value == "" {
			return nil, fmt.Errorf("language %s: missing %s keywords", code, key)
		}
		var keywords []string
		for _, kw := range strings.Split(value, "|") {
			keywords = append(keywords, realKeyword(key, kw))
		}
		lang.keywords[key] = keywords
	}
	return lang, nil
}

// realKeyword gives step keywords their trailing space. A raw entry ending in
// "<" is matched without one.
func realKeyword(key, keyword string) string {
	if !isStepKey(key) {
		return keyword
	}
	if strings.HasSuffix(keyword, "<") {
		return strings.TrimSuffix(keyword, "<")
	}
	return keyword + " "
}

func isStepKey(key string) bool {
	for _, k := range StepKeywordKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the catalog entry for an ISO language code.
func Get(code string) (*Language, error) {
	lang, ok := load().languages[code]
	if !ok {
		return nil, &UnsupportedLanguageError{Code: code}
	}
	return lang, nil
}

// MustGet is Get for codes known to be in the catalog.
func MustGet(code string) *Language {
	lang, err := Get(code)
	if err != nil {
		panic(err)
	}
	return lang
}

// All returns every catalog entry ordered by code.
func All() []*Language {
	c := load()
	all := make([]*Language, 0, len(c.codes))
	for _, code := range c.codes {
		all = append(all, c.languages[code])
	}
	return all
}

// Keywords returns the accepted literal keywords for key, in catalog order.
func (l *Language) Keywords(key string) []string {
	return append([]string(nil), l.keywords[key]...)
}

// StepKeywords returns the unique step keywords of every step kind, sorted.
func (l *Language) StepKeywords() []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, key := range StepKeywordKeys {
		for _, kw := range l.keywords[key] {
			if !seen[kw] {
				seen[kw] = true
				keywords = append(keywords, kw)
			}
		}
	}
	sort.Strings(keywords)
	return keywords
}

// CodeKeywords returns the step keywords usable as identifiers in step
// definition code. The "*" bullet has no code form.
func (l *Language) CodeKeywords() []string {
	var keywords []string
	for _, kw := range l.StepKeywords() {
		code := CodeKeywordFor(kw)
		if code != "*" {
			keywords = append(keywords, code)
		}
	}
	return keywords
}

// GrammarName is the display name with whitespace removed.
func (l *Language) GrammarName() string {
	return whitespaceRe.ReplaceAllString(l.Name, "")
}

// CodeKeywordFor strips whitespace and punctuation from a Gherkin keyword.
func CodeKeywordFor(keyword string) string {
	return strings.TrimSpace(codeKeywordRe.ReplaceAllString(keyword, ""))
}
