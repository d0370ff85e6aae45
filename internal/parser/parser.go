// Package parser runs Gherkin source through the lexer, the grammar engine
// and the statement builder, in that order, for every event.
package parser

import (
	"errors"
	"fmt"
	"os"

	"github.com/chriserin/gk/internal/grammar"
	"github.com/chriserin/gk/internal/i18n"
	"github.com/chriserin/gk/internal/lexer"
	"github.com/chriserin/gk/internal/listener"
	"github.com/chriserin/gk/internal/model"
)

// RootMachine is the grammar documents are validated against by default.
const RootMachine = "root"

var errHalted = errors.New("parse halted after reported syntax error")

type Option func(*Parser)

// WithReportedErrors makes Parse hand syntax errors to the formatter's
// SyntaxError method instead of returning them. Parsing still stops at the
// first one.
func WithReportedErrors() Option {
	return func(p *Parser) { p.raise = false }
}

// WithMachine validates documents against another root machine.
func WithMachine(name string) Option {
	return func(p *Parser) { p.machine = name }
}

// WithCatalog reads transition tables from c instead of the built-in grammar.
func WithCatalog(c *grammar.Catalog) Option {
	return func(p *Parser) { p.catalog = c }
}

// Parser validates documents and sends their statements to a formatter.
// A Parser may be reused for many documents but not concurrently.
type Parser struct {
	formatter model.Formatter
	raise     bool
	machine   string
	catalog   *grammar.Catalog
	engine    *grammar.Engine
	builder   *listener.Builder
}

// New returns a Parser that raises syntax errors. It fails if the grammar
// tables cannot be loaded.
func New(f model.Formatter, opts ...Option) (*Parser, error) {
	p := &Parser{
		formatter: f,
		raise:     true,
		machine:   RootMachine,
		catalog:   grammar.DefaultCatalog(),
	}
	for _, opt := range opts {
		opt(p)
	}

	engine, err := grammar.NewEngine(p.catalog, p.machine)
	if err != nil {
		return nil, fmt.Errorf("loading grammar: %w", err)
	}
	p.engine = engine
	p.builder = listener.New(f)
	return p, nil
}

// Parse reads one document. uri identifies it in errors; lineOffset is added
// to every reported line, for documents embedded in a larger file.
func (p *Parser) Parse(source, uri string, lineOffset int) error {
	p.formatter.URI(uri)
	p.engine.Reset()
	p.builder.Reset()

	lang, err := i18n.Resolve(source)
	if err != nil {
		return err
	}

	h := lexer.HandlerFunc(func(e lexer.Event) error {
		if e.Line > 0 {
			e.Line += lineOffset
		}
		if err := p.engine.Feed(e); err != nil {
			var syntaxErr *grammar.SyntaxError
			if !errors.As(err, &syntaxErr) {
				return err
			}
			syntaxErr.URI = uri
			if p.raise {
				return syntaxErr
			}
			p.builder.SyntaxError(syntaxErr.State, syntaxErr.Event, syntaxErr.Expected, uri, syntaxErr.Line)
			return errHalted
		}
		return p.builder.Handle(e)
	})

	err = lexer.New(lang).Scan(source, h)
	if errors.Is(err, errHalted) {
		return nil
	}
	var lexErr *lexer.LexError
	if errors.As(err, &lexErr) {
		lexErr.Line += lineOffset
	}
	return err
}

// ParseDocument parses source into a Document.
func ParseDocument(uri string, source []byte, opts ...Option) (*Document, error) {
	b := NewDocumentBuilder()
	p, err := New(b, opts...)
	if err != nil {
		return nil, err
	}
	if err := p.Parse(string(source), uri, 0); err != nil {
		return b.Document(), err
	}
	return b.Document(), nil
}

// ParseFile reads and parses the file at path.
func ParseFile(path string, opts ...Option) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseDocument(path, content, opts...)
}
