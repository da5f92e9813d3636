package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	t.Run("fenced block", func(t *testing.T) {
		input := "Here is the plan:\n```json\n{\"topic\":\"ports\"}\n```\nDone."
		obj, ok := ExtractJSON(input)
		require.True(t, ok)
		assert.JSONEq(t, `{"topic":"ports"}`, string(obj))
	})

	t.Run("unterminated fence", func(t *testing.T) {
		input := "```json\n{\"a\":1}"
		obj, ok := ExtractJSON(input)
		require.True(t, ok)
		assert.JSONEq(t, `{"a":1}`, string(obj))
	})

	t.Run("bare object with surrounding prose", func(t *testing.T) {
		input := `Sure! {"a":{"b":[1,2]},"c":"x"} hope that helps`
		obj, ok := ExtractJSON(input)
		require.True(t, ok)
		assert.JSONEq(t, `{"a":{"b":[1,2]},"c":"x"}`, string(obj))
	})

	t.Run("braces inside strings do not confuse the scan", func(t *testing.T) {
		input := `{"note":"use {curly} braces \" carefully","n":1}`
		obj, ok := ExtractJSON(input)
		require.True(t, ok)
		assert.JSONEq(t, input, string(obj))
	})

	t.Run("no object", func(t *testing.T) {
		_, ok := ExtractJSON("just words, no structure")
		assert.False(t, ok)
	})

	t.Run("truncated object", func(t *testing.T) {
		_, ok := ExtractJSON(`{"a":1,"b":`)
		assert.False(t, ok)
	})
}

func TestParseInto(t *testing.T) {
	var plan Plan
	ok := ParseInto("```json\n{\"research_questions\":[\"q1\",\"q2\"]}\n```", &plan)
	require.True(t, ok)
	assert.Equal(t, []string{"q1", "q2"}, plan.ResearchQuestions)

	assert.False(t, ParseInto("nope", &plan))
}
