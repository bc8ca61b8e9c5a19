package jsonx

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize_Idempotent(t *testing.T) {
	t.Parallel()

	clean := `{"subject":"hello","paragraphs":["a","b"]}`
	assert.Equal(t, clean, Sanitize(clean))
	assert.Equal(t, clean, Sanitize(Sanitize(clean)))
}

func TestSanitize_RemovesFences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "json_tag", input: "```json\n{\"a\":1}\n```"},
		{name: "bare_fence", input: "```\n{\"a\":1}\n```"},
		{name: "no_trailing_newline", input: "```json{\"a\":1}```"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := Sanitize(tt.input)
			assert.NotContains(t, out, "`")
			var m map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &m))
			assert.EqualValues(t, 1, m["a"])
		})
	}
}

func TestSanitize_EscapesControlCharsInsideStrings(t *testing.T) {
	t.Parallel()

	// Fence-wrapped object with a literal newline inside a string value.
	raw := "```json\n{\"text\": \"line one\nline two\"}\n```"
	out := Sanitize(raw)

	var m map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	// The recovered value, once un-escaped by the JSON decoder, keeps the newline.
	assert.Equal(t, "line one\nline two", m["text"])
}

func TestSanitize_LeavesStructuralWhitespaceAlone(t *testing.T) {
	t.Parallel()

	raw := "{\n  \"a\": 1,\n  \"b\": \"x\ty\"\n}"
	out := Sanitize(raw)
	// Newlines between tokens survive; the tab inside the string is escaped.
	assert.Contains(t, out, "{\n")
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "x\ty", m["b"])
}

func TestSanitize_RespectsEscapeSequences(t *testing.T) {
	t.Parallel()

	// An escaped quote must not toggle the in-string state.
	raw := "{\"a\": \"she said \\\"hi\\\"\nbye\"}"
	out := Sanitize(raw)
	var m map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "she said \"hi\"\nbye", m["a"])
}

func TestParseObject_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseObject("this is not json at all")
	require.Error(t, err)
}

func TestCoerce_Totality(t *testing.T) {
	t.Parallel()

	sc := Schema{Fields: []Field{
		{Name: "growthRate", Default: 0.0},
		{Name: "demandLevel", Default: "MEDIUM"},
		{Name: "topSkills", Default: []string{}},
	}}

	tests := []struct {
		name string
		src  map[string]any
	}{
		{name: "all_missing", src: map[string]any{}},
		{name: "nil_source", src: nil},
		{name: "explicit_nulls", src: map[string]any{"growthRate": nil, "topSkills": nil}},
		{name: "partial", src: map[string]any{"demandLevel": "HIGH"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := Coerce(tt.src, sc)
			require.Len(t, out, 3)
			for _, f := range sc.Fields {
				v, ok := out[f.Name]
				assert.True(t, ok, "field %s must be present", f.Name)
				assert.NotNil(t, v, "field %s must not be nil", f.Name)
			}
		})
	}
}

func TestCoerce_KeepsSourceValues(t *testing.T) {
	t.Parallel()

	sc := Schema{Fields: []Field{
		{Name: "growthRate", Default: 0.0},
		{Name: "demandLevel", Default: "MEDIUM"},
	}}
	out := Coerce(map[string]any{"growthRate": 12.5, "demandLevel": "LOW"}, sc)
	assert.Equal(t, 12.5, out["growthRate"])
	assert.Equal(t, "LOW", out["demandLevel"])
}

func TestCoerce_VariantUnwrapping(t *testing.T) {
	t.Parallel()

	sc := Schema{
		VariantKey:   "trends",
		PrimaryField: "salaryRanges",
		Fields: []Field{
			{Name: "salaryRanges", Default: []any{}},
			{Name: "growthRate", Default: 0.0},
		},
	}

	// Provider wrapped everything under "trends" with no top-level salaryRanges.
	src := map[string]any{
		"trends": map[string]any{
			"salaryRanges": []any{map[string]any{"role": "Engineer"}},
			"growthRate":   7.0,
		},
	}
	out := Coerce(src, sc)
	ranges, ok := out["salaryRanges"].([]any)
	require.True(t, ok)
	require.Len(t, ranges, 1)
	assert.Equal(t, 7.0, out["growthRate"])
}

func TestCoerce_VariantIgnoredWhenPrimaryPresent(t *testing.T) {
	t.Parallel()

	sc := Schema{
		VariantKey:   "trends",
		PrimaryField: "salaryRanges",
		Fields:       []Field{{Name: "salaryRanges", Default: []any{}}},
	}
	src := map[string]any{
		"salaryRanges": []any{"top"},
		"trends":       map[string]any{"salaryRanges": []any{"nested"}},
	}
	out := Coerce(src, sc)
	assert.Equal(t, []any{"top"}, out["salaryRanges"])
}

func TestDecode(t *testing.T) {
	t.Parallel()

	type letter struct {
		Subject    string   `json:"subject"`
		Paragraphs []string `json:"paragraphs"`
	}
	m := map[string]any{"subject": "s", "paragraphs": []any{"a", "b"}}
	var out letter
	require.NoError(t, Decode(m, &out))
	assert.Equal(t, "s", out.Subject)
	assert.Equal(t, []string{"a", "b"}, out.Paragraphs)
}
