package parser

import (
	"github.com/chriserin/gk/internal/grammar"
	"github.com/chriserin/gk/internal/model"
)

// Document is the statement tree of one parsed file.
type Document struct {
	URI     string
	Feature *Feature
	Errors  []*grammar.SyntaxError
}

type Feature struct {
	model.Feature
	Background *Background
	Scenarios  []*Scenario
}

type Background struct {
	model.Background
	Steps []model.Step
}

// Scenario is a scenario or, when Outline is set, a scenario outline with
// its examples.
type Scenario struct {
	model.Statement
	Outline  bool
	Steps    []model.Step
	Examples []model.Examples
}

// DocumentBuilder is a model.Formatter that assembles a Document.
type DocumentBuilder struct {
	doc   *Document
	steps *[]model.Step
}

func NewDocumentBuilder() *DocumentBuilder {
	return &DocumentBuilder{doc: &Document{}}
}

// Document returns the tree built so far.
func (b *DocumentBuilder) Document() *Document {
	return b.doc
}

func (b *DocumentBuilder) URI(uri string) {
	b.doc = &Document{URI: uri}
	b.steps = nil
}

func (b *DocumentBuilder) Feature(f model.Feature) {
	b.doc.Feature = &Feature{Feature: f}
}

func (b *DocumentBuilder) Background(bg model.Background) {
	if b.doc.Feature == nil {
		return
	}
	b.doc.Feature.Background = &Background{Background: bg}
	b.steps = &b.doc.Feature.Background.Steps
}

func (b *DocumentBuilder) Scenario(s model.Scenario) {
	b.addScenario(&Scenario{Statement: s.Statement})
}

func (b *DocumentBuilder) ScenarioOutline(o model.ScenarioOutline) {
	b.addScenario(&Scenario{Statement: o.Statement, Outline: true})
}

func (b *DocumentBuilder) addScenario(s *Scenario) {
	if b.doc.Feature == nil {
		return
	}
	b.doc.Feature.Scenarios = append(b.doc.Feature.Scenarios, s)
	b.steps = &s.Steps
}

func (b *DocumentBuilder) Examples(e model.Examples) {
	if s := b.lastScenario(); s != nil {
		s.Examples = append(s.Examples, e)
	}
}

func (b *DocumentBuilder) Step(s model.Step) {
	if b.steps != nil {
		*b.steps = append(*b.steps, s)
	}
}

func (b *DocumentBuilder) EOF() {
	b.steps = nil
}

func (b *DocumentBuilder) SyntaxError(state, event string, expected []string, uri string, line int) {
	b.doc.Errors = append(b.doc.Errors, &grammar.SyntaxError{
		State:    state,
		Event:    event,
		Expected: expected,
		URI:      uri,
		Line:     line,
	})
}

func (b *DocumentBuilder) lastScenario() *Scenario {
	if b.doc.Feature == nil || len(b.doc.Feature.Scenarios) == 0 {
		return nil
	}
	return b.doc.Feature.Scenarios[len(b.doc.Feature.Scenarios)-1]
}
