package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemedpro/telemed/backend/internal/analysis/intent"
)

func TestRunClassifyJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runClassify(intent.Clinic, []string{"hola doctor", "xyz"}, &out, true))

	dec := json.NewDecoder(&out)
	var first, second result
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, "greeting", first.Rule)
	assert.True(t, first.Matched)
	assert.Equal(t, intent.FallbackRule, second.Rule)
	assert.False(t, second.Matched)
}

func TestRunClassifyLinesSkipsBlank(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("me duele la cabeza\n\n   \ngracias\n")
	require.NoError(t, runClassifyLines(intent.Clinic, in, &out, false))

	text := out.String()
	assert.Contains(t, text, "headache")
	assert.Contains(t, text, "gratitude")
	assert.Equal(t, 4, strings.Count(text, "\n"))
}

func TestRunRules(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runRules(intent.Triage, &out))
	assert.True(t, strings.HasPrefix(out.String(), " 1. emergency"))

	assert.ErrorIs(t, runRules("nope", &out), intent.ErrUnknownRuleSet)
}
