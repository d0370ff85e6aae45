package i18n

import (
	"sort"
	"strings"
)

// LanguageTable returns one [code, name, native] row per language.
func LanguageTable() [][]string {
	var rows [][]string
	for _, lang := range All() {
		rows = append(rows, []string{lang.Code, lang.Name, lang.Native})
	}
	return rows
}

// KeywordTable returns one row per keyword key followed by one row per step
// key listing its code keywords.
func (l *Language) KeywordTable() [][]string {
	var rows [][]string
	for _, key := range KeywordKeys {
		rows = append(rows, []string{key, quoteAll(l.keywords[key])})
	}
	for _, key := range StepKeywordKeys {
		var codes []string
		for _, kw := range l.keywords[key] {
			if kw == "* " {
				continue
			}
			codes = append(codes, CodeKeywordFor(kw))
		}
		rows = append(rows, []string{key + " (code)", quoteAll(codes)})
	}
	return rows
}

// KeywordRegexp joins the unique keywords of the given keys across all
// languages, longest alternatives first. The key "step" selects every step
// keyword.
func KeywordRegexp(keys ...string) string {
	seen := make(map[string]bool)
	for _, lang := range All() {
		for _, key := range keys {
			var keywords []string
			if key == "step" {
				keywords = lang.StepKeywords()
			} else {
				keywords = lang.keywords[key]
			}
			for _, kw := range keywords {
				seen[kw] = true
			}
		}
	}

	unique := make([]string, 0, len(seen))
	for kw := range seen {
		unique = append(unique, kw)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(unique)))
	return strings.Join(unique, "|")
}

// AllCodeKeywords returns the sorted unique code keywords of every language.
func AllCodeKeywords() []string {
	seen := make(map[string]bool)
	for _, lang := range All() {
		for _, kw := range lang.CodeKeywords() {
			seen[kw] = true
		}
	}
	keywords := make([]string, 0, len(seen))
	for kw := range seen {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	return keywords
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ", ")
}
