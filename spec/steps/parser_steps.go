package steps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cucumber/godog"

	"github.com/chriserin/gk/internal/grammar"
	"github.com/chriserin/gk/internal/i18n"
	"github.com/chriserin/gk/internal/lexer"
	"github.com/chriserin/gk/internal/parser"
)

// InitializeParserSteps registers the steps that drive the parser directly.
func InitializeParserSteps(ctx *godog.ScenarioContext) {
	ctx.Before(setup)
	ctx.After(teardown)

	ctx.Step(`^a feature file "([^"]*)":$`, aFeatureFile)

	ctx.Step(`^I parse "([^"]*)"$`, iParse)
	ctx.Step(`^I parse "([^"]*)" reporting errors$`, iParseReportingErrors)
	ctx.Step(`^I lex "([^"]*)"$`, iLex)

	ctx.Step(`^parsing should succeed$`, parsingShouldSucceed)
	ctx.Step(`^the feature should be named "([^"]*)"$`, theFeatureShouldBeNamed)
	ctx.Step(`^the feature should have (\d+) scenarios?$`, theFeatureShouldHaveScenarios)
	ctx.Step(`^scenario (\d+) should have (\d+) steps?$`, scenarioShouldHaveSteps)
	ctx.Step(`^scenario (\d+) should have tags "([^"]*)"$`, scenarioShouldHaveTags)
	ctx.Step(`^step (\d+) of scenario (\d+) should have a doc string "([^"]*)"$`, stepShouldHaveDocString)
	ctx.Step(`^step (\d+) of scenario (\d+) should have (\d+) rows?$`, stepShouldHaveRows)
	ctx.Step(`^examples of scenario (\d+) should have (\d+) rows?$`, examplesShouldHaveRows)
	ctx.Step(`^the syntax error should be at line (\d+)$`, theSyntaxErrorShouldBeAtLine)
	ctx.Step(`^the syntax error should have found "([^"]*)"$`, theSyntaxErrorShouldHaveFound)
	ctx.Step(`^the syntax error should expect "([^"]*)"$`, theSyntaxErrorShouldExpect)
	ctx.Step(`^a lexing error should be reported at line (\d+)$`, aLexingErrorShouldBeReportedAtLine)
	ctx.Step(`^the language "([^"]*)" should be unsupported$`, theLanguageShouldBeUnsupported)
	ctx.Step(`^the events should be:$`, theEventsShouldBe)
}

func iParse(ctx context.Context, path string) error {
	w := getWorld(ctx)
	w.doc, w.err = parser.ParseFile(path)
	return nil
}

func iParseReportingErrors(ctx context.Context, path string) error {
	w := getWorld(ctx)
	w.doc, w.err = parser.ParseFile(path, parser.WithReportedErrors())
	return nil
}

func iLex(ctx context.Context, path string) error {
	w := getWorld(ctx)
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lang, err := i18n.Resolve(string(content))
	if err != nil {
		w.err = err
		return nil
	}
	w.events, w.err = lexer.New(lang).Events(string(content))
	return nil
}

func parsingShouldSucceed(ctx context.Context) error {
	w := getWorld(ctx)
	if w.err != nil {
		return fmt.Errorf("expected success, got: %w", w.err)
	}
	if w.doc != nil && len(w.doc.Errors) > 0 {
		return fmt.Errorf("expected no reported errors, got: %v", w.doc.Errors[0])
	}
	return nil
}

func feature(w *world) (*parser.Feature, error) {
	if w.err != nil {
		return nil, fmt.Errorf("parse failed: %w", w.err)
	}
	if w.doc == nil || w.doc.Feature == nil {
		return nil, fmt.Errorf("no feature was parsed")
	}
	return w.doc.Feature, nil
}

func scenario(w *world, n int) (*parser.Scenario, error) {
	f, err := feature(w)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(f.Scenarios) {
		return nil, fmt.Errorf("scenario %d does not exist, feature has %d", n, len(f.Scenarios))
	}
	return f.Scenarios[n-1], nil
}

func theFeatureShouldBeNamed(ctx context.Context, name string) error {
	f, err := feature(getWorld(ctx))
	if err != nil {
		return err
	}
	if f.Name != name {
		return fmt.Errorf("expected feature %q, got %q", name, f.Name)
	}
	return nil
}

func theFeatureShouldHaveScenarios(ctx context.Context, n int) error {
	f, err := feature(getWorld(ctx))
	if err != nil {
		return err
	}
	if len(f.Scenarios) != n {
		return fmt.Errorf("expected %d scenarios, got %d", n, len(f.Scenarios))
	}
	return nil
}

func scenarioShouldHaveSteps(ctx context.Context, n, count int) error {
	sc, err := scenario(getWorld(ctx), n)
	if err != nil {
		return err
	}
	if len(sc.Steps) != count {
		return fmt.Errorf("expected %d steps, got %d", count, len(sc.Steps))
	}
	return nil
}

func scenarioShouldHaveTags(ctx context.Context, n int, tags string) error {
	sc, err := scenario(getWorld(ctx), n)
	if err != nil {
		return err
	}
	got := strings.Join(sc.TagNames(), " ")
	if got != tags {
		return fmt.Errorf("expected tags %q, got %q", tags, got)
	}
	return nil
}

func stepShouldHaveDocString(ctx context.Context, step, n int, value string) error {
	sc, err := scenario(getWorld(ctx), n)
	if err != nil {
		return err
	}
	if step < 1 || step > len(sc.Steps) {
		return fmt.Errorf("step %d does not exist", step)
	}
	ds := sc.Steps[step-1].DocString
	if ds == nil {
		return fmt.Errorf("step %d has no doc string", step)
	}
	want := strings.ReplaceAll(value, `\n`, "\n")
	if ds.Value != want {
		return fmt.Errorf("expected doc string %q, got %q", want, ds.Value)
	}
	return nil
}

func stepShouldHaveRows(ctx context.Context, step, n, rows int) error {
	sc, err := scenario(getWorld(ctx), n)
	if err != nil {
		return err
	}
	if step < 1 || step > len(sc.Steps) {
		return fmt.Errorf("step %d does not exist", step)
	}
	if got := len(sc.Steps[step-1].Rows); got != rows {
		return fmt.Errorf("expected %d rows, got %d", rows, got)
	}
	return nil
}

func examplesShouldHaveRows(ctx context.Context, n, rows int) error {
	sc, err := scenario(getWorld(ctx), n)
	if err != nil {
		return err
	}
	if len(sc.Examples) == 0 {
		return fmt.Errorf("scenario %d has no examples", n)
	}
	if got := len(sc.Examples[0].Rows); got != rows {
		return fmt.Errorf("expected %d example rows, got %d", rows, got)
	}
	return nil
}

func syntaxError(w *world) (*grammar.SyntaxError, error) {
	var syntaxErr *grammar.SyntaxError
	if errors.As(w.err, &syntaxErr) {
		return syntaxErr, nil
	}
	if w.doc != nil && len(w.doc.Errors) > 0 {
		return w.doc.Errors[0], nil
	}
	return nil, fmt.Errorf("expected a syntax error, got: %v", w.err)
}

func theSyntaxErrorShouldBeAtLine(ctx context.Context, line int) error {
	se, err := syntaxError(getWorld(ctx))
	if err != nil {
		return err
	}
	if se.Line != line {
		return fmt.Errorf("expected line %d, got %d", line, se.Line)
	}
	return nil
}

func theSyntaxErrorShouldHaveFound(ctx context.Context, event string) error {
	se, err := syntaxError(getWorld(ctx))
	if err != nil {
		return err
	}
	if se.Event != event {
		return fmt.Errorf("expected event %q, got %q", event, se.Event)
	}
	return nil
}

func theSyntaxErrorShouldExpect(ctx context.Context, expected string) error {
	se, err := syntaxError(getWorld(ctx))
	if err != nil {
		return err
	}
	got := strings.Join(se.Expected, ", ")
	if got != expected {
		return fmt.Errorf("expected %q, got %q", expected, got)
	}
	return nil
}

func aLexingErrorShouldBeReportedAtLine(ctx context.Context, line int) error {
	var lexErr *lexer.LexError
	if !errors.As(getWorld(ctx).err, &lexErr) {
		return fmt.Errorf("expected a lexing error, got: %v", getWorld(ctx).err)
	}
	if lexErr.Line != line {
		return fmt.Errorf("expected line %d, got %d", line, lexErr.Line)
	}
	return nil
}

func theLanguageShouldBeUnsupported(ctx context.Context, code string) error {
	var langErr *i18n.UnsupportedLanguageError
	if !errors.As(getWorld(ctx).err, &langErr) {
		return fmt.Errorf("expected an unsupported language error, got: %v", getWorld(ctx).err)
	}
	if langErr.Code != code {
		return fmt.Errorf("expected code %q, got %q", code, langErr.Code)
	}
	return nil
}

func theEventsShouldBe(ctx context.Context, expected *godog.DocString) error {
	w := getWorld(ctx)
	if w.err != nil {
		return fmt.Errorf("lexing failed: %w", w.err)
	}
	var got []string
	for _, e := range w.events {
		got = append(got, e.String())
	}
	want := strings.Split(strings.TrimSpace(expected.Content), "\n")
	for i := range want {
		want[i] = strings.TrimSpace(want[i])
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		return fmt.Errorf("expected events:\n%s\ngot:\n%s", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}
	return nil
}
