package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/gk/internal/i18n"
	"github.com/chriserin/gk/internal/lexer"
)

func TestLex_PrintsEvents(t *testing.T) {
	plainOutput(t)
	inTempDir(t)
	path := writeFeature(t, "login.feature", "Feature: Login\n  Scenario: S\n    Given a user\n")

	var buf bytes.Buffer
	require.NoError(t, RunLex(&buf, path))

	out := buf.String()
	assert.Contains(t, out, lexer.Step("Given ", "a user", 3).String()+"\n")
	assert.Contains(t, out, lexer.EOF().String()+"\n")
}

func TestLex_LexError(t *testing.T) {
	inTempDir(t)
	path := writeFeature(t, "bad.feature", "Feature: Login\n  Scenario: S\n    Given a user\n    nonsense\n")

	var buf bytes.Buffer
	err := RunLex(&buf, path)
	var lexErr *lexer.LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, 4, lexErr.Line)
}

func TestLex_UnsupportedLanguage(t *testing.T) {
	inTempDir(t)
	path := writeFeature(t, "x.feature", "# language: xx\nFeature: X\n")

	var buf bytes.Buffer
	err := RunLex(&buf, path)
	var langErr *i18n.UnsupportedLanguageError
	require.True(t, errors.As(err, &langErr))
	assert.Equal(t, "xx", langErr.Code)
}

func TestLex_MissingFile(t *testing.T) {
	inTempDir(t)
	var buf bytes.Buffer
	assert.Error(t, RunLex(&buf, "missing.feature"))
}
