package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/gk/internal/i18n"
)

func TestI18n_ListsLanguages(t *testing.T) {
	plainOutput(t)
	var buf bytes.Buffer
	require.NoError(t, RunI18n(&buf, ""))
	assert.Contains(t, buf.String(), "French")
	assert.Contains(t, buf.String(), "zh-TW")
}

func TestI18n_LanguageKeywords(t *testing.T) {
	plainOutput(t)
	var buf bytes.Buffer
	require.NoError(t, RunI18n(&buf, "fr"))
	assert.Contains(t, buf.String(), "Fonctionnalité")
	assert.Contains(t, buf.String(), "given (code)")
}

func TestI18n_Unsupported(t *testing.T) {
	var buf bytes.Buffer
	err := RunI18n(&buf, "xx")
	var langErr *i18n.UnsupportedLanguageError
	assert.True(t, errors.As(err, &langErr))
}
