// Package steps provides step definitions for the gk Gherkin specs.
package steps

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"

	"github.com/chriserin/gk/internal/lexer"
	"github.com/chriserin/gk/internal/parser"
	"github.com/chriserin/gk/internal/ui"
)

type contextKey string

const worldKey contextKey = "world"

// world is the state of one scenario. Scenarios run one at a time because
// each one changes the working directory.
type world struct {
	dir  string
	orig string

	doc    *parser.Document
	err    error
	events []lexer.Event
	out    bytes.Buffer
}

func getWorld(ctx context.Context) *world {
	if w, ok := ctx.Value(worldKey).(*world); ok {
		return w
	}
	return nil
}

func setup(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
	dir, err := os.MkdirTemp("", "gk-spec-*")
	if err != nil {
		return ctx, fmt.Errorf("failed to create temp dir: %w", err)
	}
	orig, err := os.Getwd()
	if err != nil {
		return ctx, err
	}
	if err := os.Chdir(dir); err != nil {
		return ctx, err
	}
	ui.SetColor("never", io.Discard)
	return context.WithValue(ctx, worldKey, &world{dir: dir, orig: orig}), nil
}

func teardown(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
	w := getWorld(ctx)
	if w == nil {
		return ctx, nil
	}
	if chdirErr := os.Chdir(w.orig); chdirErr != nil {
		return ctx, chdirErr
	}
	if rmErr := os.RemoveAll(w.dir); rmErr != nil {
		fmt.Printf("Warning: cleanup failed: %v\n", rmErr)
	}
	return ctx, nil
}

func aFeatureFile(ctx context.Context, name string, content *godog.DocString) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	return os.WriteFile(name, []byte(content.Content+"\n"), 0o644)
}
