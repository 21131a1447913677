package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "bare object", raw: `{"a":1}`, want: `{"a":1}`},
		{name: "whitespace", raw: "\n  {\"a\":1}  \n", want: `{"a":1}`},
		{name: "json fence", raw: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "plain fence", raw: "```\n[1,2]\n```", want: `[1,2]`},
		{name: "leading prose", raw: "Here is the plan:\n{\"a\":{\"b\":2}}\nHope it helps.", want: `{"a":{"b":2}}`},
		{name: "array in prose", raw: "Tasks: [1, 2] done", want: `[1, 2]`},
		{name: "trailing prose with braces", raw: "{\"a\":1}\nNote: use {placeholders} as needed.", want: `{"a":1}`},
		{name: "bracketed aside before json", raw: "[draft] Here it is: {\"a\":[1]}", want: `{"a":[1]}`},
		{name: "fenced json then prose", raw: "```json\n{\"a\":1}\n```\nAlso see {x}.", want: `{"a":1}`},
		{name: "truncated document", raw: `{"changes":{"title":"x"}`, want: `{"changes":{"title":"x"}`},
		{name: "broken document", raw: `{"changes":{"title":"x"}, oops}`, want: `{"changes":{"title":"x"}, oops}`},
		{name: "no json", raw: "sorry, I cannot help", want: "sorry, I cannot help"},
		{name: "empty", raw: "", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractJSON(tc.raw))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Title string `json:"title"`
	}
	require.NoError(t, DecodeJSON("```json\n{\"title\":\"x\"}\n```", &v))
	assert.Equal(t, "x", v.Title)

	require.NoError(t, DecodeJSON(`{"title":"y"} I changed {title} only.`, &v))
	assert.Equal(t, "y", v.Title)

	err := DecodeJSON("not json at all", &v)
	require.ErrorIs(t, err, agendaerrors.ErrMalformedResponse)

	err = DecodeJSON("   ", &v)
	require.ErrorIs(t, err, agendaerrors.ErrMalformedResponse)
}
