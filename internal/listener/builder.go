// Package listener builds model statements out of lexer events.
package listener

import (
	"fmt"

	"github.com/chriserin/gk/internal/lexer"
	"github.com/chriserin/gk/internal/model"
)

type state int

const (
	idle state = iota
	pendingStep
	pendingExamples
)

func (s state) String() string {
	switch s {
	case pendingStep:
		return "pending_step"
	case pendingExamples:
		return "pending_examples"
	}
	return "idle"
}

// Builder turns events into statements and passes them to a Formatter.
// Steps and examples are held back until the next statement or eof, since
// the rows or doc string that follow them belong to them.
type Builder struct {
	f model.Formatter

	state     state
	comments  []model.Comment
	tags      []model.Tag
	rows      []model.Row
	docString *model.DocString
	step      model.Step
	examples  model.Examples
}

func New(f model.Formatter) *Builder {
	return &Builder{f: f}
}

// Handle implements lexer.Handler.
func (b *Builder) Handle(e lexer.Event) error {
	switch e.Kind {
	case lexer.KindComment:
		b.comments = append(b.comments, model.Comment{Value: e.Text, Line: e.Line})
	case lexer.KindTag:
		b.tags = append(b.tags, model.Tag{Name: e.Text, Line: e.Line})
	case lexer.KindFeature:
		b.flush()
		b.f.Feature(model.Feature{Statement: b.statement(e, true)})
	case lexer.KindBackground:
		b.flush()
		b.f.Background(model.Background{Statement: b.statement(e, false)})
	case lexer.KindScenario:
		b.flush()
		b.f.Scenario(model.Scenario{Statement: b.statement(e, true)})
	case lexer.KindScenarioOutline:
		b.flush()
		b.f.ScenarioOutline(model.ScenarioOutline{Statement: b.statement(e, true)})
	case lexer.KindExamples:
		b.flush()
		b.examples = model.Examples{Statement: b.statement(e, true)}
		b.state = pendingExamples
	case lexer.KindStep:
		b.flush()
		b.step = model.Step{Comments: b.grabComments(), Keyword: e.Keyword, Name: e.Name, Line: e.Line}
		b.state = pendingStep
	case lexer.KindRow:
		if b.state == idle {
			return fmt.Errorf("row on line %d follows neither a step nor examples", e.Line)
		}
		b.rows = append(b.rows, model.Row{Comments: b.grabComments(), Cells: e.Cells, Line: e.Line})
	case lexer.KindDocString:
		if b.state != pendingStep {
			return fmt.Errorf("doc string on line %d does not follow a step", e.Line)
		}
		b.docString = &model.DocString{ContentType: e.ContentType, Value: e.Value, Line: e.Line}
	case lexer.KindEOF:
		b.flush()
		b.f.EOF()
		b.Reset()
	}
	return nil
}

// SyntaxError forwards a grammar failure to the formatter.
func (b *Builder) SyntaxError(state, event string, expected []string, uri string, line int) {
	b.f.SyntaxError(state, event, expected, uri, line)
}

// Reset drops everything pending without emitting it.
func (b *Builder) Reset() {
	*b = Builder{f: b.f}
}

// State names what the builder is holding back: idle, pending_step or
// pending_examples.
func (b *Builder) State() string {
	return b.state.String()
}

func (b *Builder) flush() {
	switch b.state {
	case pendingStep:
		if b.docString != nil {
			b.step.DocString = b.docString
		} else if len(b.rows) > 0 {
			b.step.Rows = b.rows
		}
		b.f.Step(b.step)
	case pendingExamples:
		if len(b.rows) > 0 {
			b.examples.Rows = b.rows
		}
		b.f.Examples(b.examples)
	}
	b.state = idle
	b.step = model.Step{}
	b.examples = model.Examples{}
	b.rows = nil
	b.docString = nil
}

func (b *Builder) statement(e lexer.Event, tagged bool) model.Statement {
	s := model.Statement{
		Comments:    b.grabComments(),
		Keyword:     e.Keyword,
		Name:        e.Name,
		Description: e.Description,
		Line:        e.Line,
	}
	if tagged {
		s.Tags = b.grabTags()
	}
	return s
}

func (b *Builder) grabComments() []model.Comment {
	c := b.comments
	b.comments = nil
	return c
}

func (b *Builder) grabTags() []model.Tag {
	t := b.tags
	b.tags = nil
	return t
}
