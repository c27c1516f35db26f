package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scoreResult struct {
	Overall float64 `json:"overall"`
	Comment string  `json:"comment"`
}

func TestExtractJSONPlain(t *testing.T) {
	var out scoreResult
	err := ExtractJSON(`{"overall": 82.5, "comment": "solid pacing"}`, &out)
	require.NoError(t, err)
	assert.Equal(t, 82.5, out.Overall)
	assert.Equal(t, "solid pacing", out.Comment)
}

func TestExtractJSONFenced(t *testing.T) {
	text := "Here is the evaluation you asked for:\n```json\n{\"overall\": 70, \"comment\": \"needs work\"}\n```\nLet me know if you need more."
	var out scoreResult
	err := ExtractJSON(text, &out)
	require.NoError(t, err)
	assert.Equal(t, 70.0, out.Overall)
}

func TestExtractJSONFencedWithoutLanguage(t *testing.T) {
	text := "```\n{\"overall\": 55, \"comment\": \"ok\"}\n```"
	var out scoreResult
	require.NoError(t, ExtractJSON(text, &out))
	assert.Equal(t, 55.0, out.Overall)
}

func TestExtractJSONBareObjectInProse(t *testing.T) {
	text := `Sure! The result is {"overall": 91, "comment": "great"} — hope that helps.`
	var out scoreResult
	require.NoError(t, ExtractJSON(text, &out))
	assert.Equal(t, 91.0, out.Overall)
}

func TestExtractJSONArray(t *testing.T) {
	text := "```json\n[{\"overall\": 1, \"comment\": \"a\"}, {\"overall\": 2, \"comment\": \"b\"}]\n```"
	var out []scoreResult
	require.NoError(t, ExtractJSON(text, &out))
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[1].Comment)
}

func TestExtractJSONNoJSON(t *testing.T) {
	var out scoreResult
	err := ExtractJSON("I cannot produce that content.", &out)
	assert.Error(t, err)
}
