// Package lexer turns Gherkin source text into an ordered stream of events.
package lexer

import (
	"fmt"
	"strings"
)

// Kind identifies an event variant.
type Kind int

const (
	KindComment Kind = iota
	KindTag
	KindFeature
	KindBackground
	KindScenario
	KindScenarioOutline
	KindExamples
	KindStep
	KindRow
	KindDocString
	KindEOF
	KindSyntaxError
)

var kindNames = [...]string{
	KindComment:         "comment",
	KindTag:             "tag",
	KindFeature:         "feature",
	KindBackground:      "background",
	KindScenario:        "scenario",
	KindScenarioOutline: "scenario_outline",
	KindExamples:        "examples",
	KindStep:            "step",
	KindRow:             "row",
	KindDocString:       "doc_string",
	KindEOF:             "eof",
	KindSyntaxError:     "syntax_error",
}

// String returns the event name used by grammar transition tables.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a transition table column name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Event is one lexical unit. Which fields are set depends on Kind:
//
//	comment                      Text
//	tag                          Text (the tag name including "@")
//	feature .. examples          Keyword, Name, Description
//	step                         Keyword, Name
//	row                          Cells
//	doc_string                   ContentType, Value
//
// Line is 1-based; eof carries no line.
type Event struct {
	Kind        Kind
	Keyword     string
	Name        string
	Description string
	Text        string
	Cells       []string
	ContentType string
	Value       string
	Line        int
}

func Comment(text string, line int) Event {
	return Event{Kind: KindComment, Text: text, Line: line}
}

func Tag(name string, line int) Event {
	return Event{Kind: KindTag, Text: name, Line: line}
}

// Element builds a feature, background, scenario, scenario_outline or
// examples event.
func Element(kind Kind, keyword, name, description string, line int) Event {
	return Event{Kind: kind, Keyword: keyword, Name: name, Description: description, Line: line}
}

func Step(keyword, name string, line int) Event {
	return Event{Kind: KindStep, Keyword: keyword, Name: name, Line: line}
}

func Row(cells []string, line int) Event {
	return Event{Kind: KindRow, Cells: cells, Line: line}
}

func DocString(contentType, value string, line int) Event {
	return Event{Kind: KindDocString, ContentType: contentType, Value: value, Line: line}
}

func EOF() Event {
	return Event{Kind: KindEOF}
}

// IsElement reports whether k opens a feature element with a description.
func (k Kind) IsElement() bool {
	switch k {
	case KindFeature, KindBackground, KindScenario, KindScenarioOutline, KindExamples:
		return true
	}
	return false
}

// String renders the event in the s-expression style used by `gk lex`.
func (e Event) String() string {
	switch e.Kind {
	case KindComment, KindTag:
		return fmt.Sprintf("[%s %q %d]", e.Kind, e.Text, e.Line)
	case KindFeature, KindBackground, KindScenario, KindScenarioOutline, KindExamples:
		return fmt.Sprintf("[%s %q %q %q %d]", e.Kind, e.Keyword, e.Name, e.Description, e.Line)
	case KindStep:
		return fmt.Sprintf("[%s %q %q %d]", e.Kind, e.Keyword, e.Name, e.Line)
	case KindRow:
		quoted := make([]string, len(e.Cells))
		for i, c := range e.Cells {
			quoted[i] = fmt.Sprintf("%q", c)
		}
		return fmt.Sprintf("[%s [%s] %d]", e.Kind, strings.Join(quoted, " "), e.Line)
	case KindDocString:
		return fmt.Sprintf("[%s %q %q %d]", e.Kind, e.ContentType, e.Value, e.Line)
	case KindEOF:
		return "[eof]"
	case KindSyntaxError:
		return fmt.Sprintf("[%s %q %d]", e.Kind, e.Text, e.Line)
	}
	return fmt.Sprintf("[%s]", e.Kind)
}

// Handler receives events in source order. Returning an error stops the scan.
type Handler interface {
	Handle(Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(Event) error

func (f HandlerFunc) Handle(e Event) error { return f(e) }

// Recorder is a Handler that keeps every event it sees.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Handle(e Event) error {
	r.Events = append(r.Events, e)
	return nil
}

// LexError reports text the scanner cannot tokenize.
type LexError struct {
	Line    int
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexing error on line %d: %s", e.Line, e.Message)
}
