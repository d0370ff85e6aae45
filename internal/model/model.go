// Package model holds the statements built from lexer events and the
// Formatter interface that receives them.
package model

type Comment struct {
	Value string
	Line  int
}

type Tag struct {
	Name string
	Line int
}

// Feature, Background, Scenario and ScenarioOutline share this shape.
// Background never carries tags.
type Statement struct {
	Comments    []Comment
	Tags        []Tag
	Keyword     string
	Name        string
	Description string
	Line        int
}

type Feature struct{ Statement }

type Background struct{ Statement }

type Scenario struct{ Statement }

type ScenarioOutline struct{ Statement }

type Examples struct {
	Statement
	Rows []Row
}

// Step owns at most one argument: Rows or a DocString.
type Step struct {
	Comments  []Comment
	Keyword   string
	Name      string
	Line      int
	Rows      []Row
	DocString *DocString
}

type Row struct {
	Comments []Comment
	Cells    []string
	Line     int
}

type DocString struct {
	ContentType string
	Value       string
	Line        int
}

// TagNames returns the tag names in source order.
func (s Statement) TagNames() []string {
	names := make([]string, len(s.Tags))
	for i, t := range s.Tags {
		names[i] = t.Name
	}
	return names
}

// Formatter receives fully built statements in source order. SyntaxError is
// called instead of returning an error when the parser runs in report mode.
type Formatter interface {
	URI(uri string)
	Feature(Feature)
	Background(Background)
	Scenario(Scenario)
	ScenarioOutline(ScenarioOutline)
	Examples(Examples)
	Step(Step)
	EOF()
	SyntaxError(state, event string, expected []string, uri string, line int)
}
