package i18n

import (
	"regexp"
	"strings"
)

// DefaultLanguage is used when a document declares no language.
const DefaultLanguage = "en"

var (
	languagePattern    = regexp.MustCompile(`^\s*#\s*language\s*:\s*([a-zA-Z\-]+)`)
	commentOrEmptyLine = regexp.MustCompile(`^\s*#|^\s*$`)
)

const byteOrderMark = "\uFEFF"

// DetectCode returns the language code declared in the leading comment and
// blank lines of source. The last marker before the first substantive line
// wins.
func DetectCode(source string) string {
	code := DefaultLanguage
	source = strings.TrimPrefix(source, byteOrderMark)
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !commentOrEmptyLine.MatchString(line) {
			break
		}
		if m := languagePattern.FindStringSubmatch(line); m != nil {
			code = m[1]
		}
	}
	return code
}

// Resolve selects the catalog entry for source.
func Resolve(source string) (*Language, error) {
	return Get(DetectCode(source))
}
