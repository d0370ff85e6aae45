package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/gk/internal/config"
)

func runTags(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunTags(&buf, config.Default()))
	return buf.String()
}

func TestTags_CountsMostUsedFirst(t *testing.T) {
	plainOutput(t)
	inTempDir(t)
	runInit(t)
	writeFeature(t, "login.feature", loginFeature)
	runSync(t)

	assert.Equal(t, "Scenarios: 2\n@auth   2\n@smoke  1\n", runTags(t))
}

func TestTags_NoScenarios(t *testing.T) {
	plainOutput(t)
	inTempDir(t)
	runInit(t)

	assert.Equal(t, "Scenarios: 0\n", runTags(t))
}

func TestTags_NoTags(t *testing.T) {
	plainOutput(t)
	inTempDir(t)
	runInit(t)
	writeFeature(t, "cart.feature", "Feature: Cart\n  Scenario: Add\n    Given an item\n")
	runSync(t)

	assert.Equal(t, "Scenarios: 1\nno tags\n", runTags(t))
}
