package parser

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/gk/internal/grammar"
	"github.com/chriserin/gk/internal/i18n"
	"github.com/chriserin/gk/internal/lexer"
	"github.com/chriserin/gk/internal/model"
)

func TestParse_SingleScenario(t *testing.T) {
	content := []byte(`Feature: Login
  Scenario: User logs in
    Given a user
    When  they log in
    Then  they see the dashboard
`)
	doc, err := ParseDocument("login.feature", content)
	require.NoError(t, err)
	assert.Equal(t, "login.feature", doc.URI)
	assert.Equal(t, "Login", doc.Feature.Name)
	require.Len(t, doc.Feature.Scenarios, 1)

	sc := doc.Feature.Scenarios[0]
	assert.Equal(t, "User logs in", sc.Name)
	assert.Equal(t, 2, sc.Line)
	require.Len(t, sc.Steps, 3)
	assert.Equal(t, "When ", sc.Steps[1].Keyword)
	assert.Equal(t, "they log in", sc.Steps[1].Name)
}

func TestParse_MultipleScenarios(t *testing.T) {
	content := []byte(`Feature: Login
  Scenario: User logs in
    Given a user

  Scenario: User fails login
    Given a user
`)
	doc, err := ParseDocument("login.feature", content)
	require.NoError(t, err)
	require.Len(t, doc.Feature.Scenarios, 2)
	assert.Equal(t, "User logs in", doc.Feature.Scenarios[0].Name)
	assert.Equal(t, "User fails login", doc.Feature.Scenarios[1].Name)
}

func TestParse_Background(t *testing.T) {
	content := []byte(`Feature: Login
  Background:
    Given a registered user

  Scenario: User logs in
    When  they log in
    Then  they see the dashboard
`)
	doc, err := ParseDocument("login.feature", content)
	require.NoError(t, err)
	require.NotNil(t, doc.Feature.Background)
	require.Len(t, doc.Feature.Background.Steps, 1)
	assert.Equal(t, "a registered user", doc.Feature.Background.Steps[0].Name)
	require.Len(t, doc.Feature.Scenarios, 1)
	assert.Len(t, doc.Feature.Scenarios[0].Steps, 2)
}

func TestParse_ScenarioOutline(t *testing.T) {
	content := []byte(`Feature: Login
  Scenario Outline: User logs in as <role>
    Given a <role>

    @admin
    Examples: admins
      | role  |
      | admin |
`)
	doc, err := ParseDocument("login.feature", content)
	require.NoError(t, err)
	require.Len(t, doc.Feature.Scenarios, 1)

	sc := doc.Feature.Scenarios[0]
	assert.True(t, sc.Outline)
	require.Len(t, sc.Examples, 1)
	assert.Equal(t, []string{"@admin"}, sc.Examples[0].TagNames())
	require.Len(t, sc.Examples[0].Rows, 2)
	assert.Equal(t, []string{"admin"}, sc.Examples[0].Rows[1].Cells)
}

func TestParse_Comments(t *testing.T) {
	content := []byte(`# This is a comment
Feature: Login
  # Another comment
  Scenario: User logs in
    Given a user
`)
	doc, err := ParseDocument("login.feature", content)
	require.NoError(t, err)
	assert.Equal(t, "Login", doc.Feature.Name)
	assert.Equal(t, []model.Comment{{Value: "# This is a comment", Line: 1}}, doc.Feature.Comments)
	require.Len(t, doc.Feature.Scenarios, 1)
	assert.Equal(t, []model.Comment{{Value: "# Another comment", Line: 3}}, doc.Feature.Scenarios[0].Comments)
}

func TestParse_MultipleTags(t *testing.T) {
	content := []byte(`Feature: Login
  @smoke @wip @regression
  Scenario: User logs in
    Given a user
`)
	doc, err := ParseDocument("login.feature", content)
	require.NoError(t, err)
	require.Len(t, doc.Feature.Scenarios, 1)
	assert.Equal(t, []string{"@smoke", "@wip", "@regression"}, doc.Feature.Scenarios[0].TagNames())
}

func TestParse_EmptyFile(t *testing.T) {
	doc, err := ParseDocument("empty.feature", []byte(""))
	require.NoError(t, err)
	assert.Nil(t, doc.Feature)
}

func TestParse_DocStringContentIsOpaque(t *testing.T) {
	content := []byte(`Feature: Parse Scenarios
  Scenario: Nested feature text
    Given the file features/login.feature contains:
      """
      Feature: Login
        @smoke
        Scenario: User logs in
          Given a user
      """
    When the user runs sync
`)
	doc, err := ParseDocument("test.feature", content)
	require.NoError(t, err)
	require.Len(t, doc.Feature.Scenarios, 1)

	steps := doc.Feature.Scenarios[0].Steps
	require.Len(t, steps, 2)
	require.NotNil(t, steps[0].DocString)
	assert.Equal(t, "Feature: Login\n  @smoke\n  Scenario: User logs in\n    Given a user", steps[0].DocString.Value)
}

func TestParse_SyntaxErrorIsReturned(t *testing.T) {
	_, err := ParseDocument("twice.feature", []byte("Feature: f\nFeature: f"))
	require.Error(t, err)

	var syntaxErr *grammar.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, "feature", syntaxErr.Event)
	assert.Equal(t, "feature", syntaxErr.State)
	assert.Equal(t, "twice.feature", syntaxErr.URI)
	assert.Equal(t, 2, syntaxErr.Line)
	assert.Equal(t, []string{"background", "comment", "scenario", "scenario_outline", "tag"}, syntaxErr.Expected)
}

func TestParse_ReportedSyntaxErrorHaltsParse(t *testing.T) {
	content := []byte("Feature: f\n  Scenario: a\n    Given x\n  Examples:\n  Scenario: b\n")
	doc, err := ParseDocument("bad.feature", content, WithReportedErrors())
	require.NoError(t, err)

	require.Len(t, doc.Errors, 1)
	assert.Equal(t, "examples", doc.Errors[0].Event)
	assert.Equal(t, 4, doc.Errors[0].Line)
	assert.Equal(t, "bad.feature", doc.Errors[0].URI)
	require.Len(t, doc.Feature.Scenarios, 1)
	assert.Equal(t, "a", doc.Feature.Scenarios[0].Name)
}

func TestParse_LexErrorIsReturned(t *testing.T) {
	_, err := ParseDocument("bad.feature", []byte("Feature: f\n  @@bad\n"))

	var lexErr *lexer.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 2, lexErr.Line)
}

func TestParse_UnsupportedLanguage(t *testing.T) {
	_, err := ParseDocument("x.feature", []byte("# language: xx\nFeature: f\n"))

	var unsupported *i18n.UnsupportedLanguageError
	require.ErrorAs(t, err, &unsupported)
}

func TestParse_LineOffset(t *testing.T) {
	b := NewDocumentBuilder()
	p, err := New(b)
	require.NoError(t, err)

	require.NoError(t, p.Parse("Feature: f\n  Scenario: s\n", "embedded", 10))
	assert.Equal(t, 11, b.Document().Feature.Line)
	assert.Equal(t, 12, b.Document().Feature.Scenarios[0].Line)

	err = p.Parse("Feature: f\n  Feature: g\n", "embedded", 10)
	var syntaxErr *grammar.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 12, syntaxErr.Line)

	err = p.Parse("Feature: f\n  nonsense\n  |a\n", "embedded", 10)
	var lexErr *lexer.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 13, lexErr.Line)
}

func TestParse_ParserIsReusable(t *testing.T) {
	b := NewDocumentBuilder()
	p, err := New(b)
	require.NoError(t, err)

	require.Error(t, p.Parse("Feature: a\n  Scenario: s\n    Given x\n  Background:\n", "a.feature", 0))
	require.NoError(t, p.Parse("Feature: b\n  Scenario: s\n    Given x\n", "b.feature", 0))
	assert.Equal(t, "b.feature", b.Document().URI)
	assert.Equal(t, "b", b.Document().Feature.Name)
}

func TestParse_French(t *testing.T) {
	content := []byte("# language: fr\nFonctionnalité: Connexion\n  Scénario: Un utilisateur\n    Soit un utilisateur\n    Lorsqu'il se connecte\n")
	doc, err := ParseDocument("fr.feature", content)
	require.NoError(t, err)
	require.Len(t, doc.Feature.Scenarios, 1)
	steps := doc.Feature.Scenarios[0].Steps
	require.Len(t, steps, 2)
	assert.Equal(t, "Lorsqu'", steps[1].Keyword)
	assert.Equal(t, "il se connecte", steps[1].Name)
}

func TestNew_UnknownMachine(t *testing.T) {
	_, err := New(NewDocumentBuilder(), WithMachine("nope"))

	var unknown *grammar.UnknownMachineError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Name)
}

func TestNew_WithCatalog(t *testing.T) {
	meta, err := os.ReadFile(filepath.Join("..", "grammar", "data", "meta.txt"))
	require.NoError(t, err)
	catalog := grammar.NewCatalog(fstest.MapFS{
		"meta.txt": {Data: meta},
		"root.txt": {Data: []byte(`# Feature headers only.
| | feature | background | scenario | scenario_outline | examples | step | row | doc_string | eof | comment | tag |
| root | feature | E | E | E | E | E | E | E | eof | root | E |
| feature | E | E | E | E | E | E | E | E | eof | feature | E |
| eof | E | E | E | E | E | E | E | E | E | E | E |
`)},
	})

	doc, err := ParseDocument("bare.feature", []byte("Feature: Bare\n"), WithCatalog(catalog))
	require.NoError(t, err)
	assert.Equal(t, "Bare", doc.Feature.Name)

	_, err = ParseDocument("full.feature", []byte("Feature: Full\n  Scenario: S\n"), WithCatalog(catalog))
	var syntaxErr *grammar.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, "feature", syntaxErr.State)
	assert.Equal(t, "scenario", syntaxErr.Event)
	assert.Equal(t, []string{"comment"}, syntaxErr.Expected)

	_, err = ParseDocument("full.feature", []byte("Feature: Full\n  Scenario: S\n"))
	assert.NoError(t, err)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login.feature")
	require.NoError(t, os.WriteFile(path, []byte("Feature: Login\n"), 0o644))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.URI)
	assert.Equal(t, "Login", doc.Feature.Name)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.feature"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
