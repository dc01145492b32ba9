package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n[1,2]\n```", `[1,2]`},
		{"inline fence", "```{\"a\":1}```", `{"a":1}`},
		{"inline json fence", "```json {\"a\":1}```", `{"a":1}`},
		{"no fence", `  {"a":1}  `, `{"a":1}`},
		{"stray backticks", "`{\"a\":1}`", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}

func TestExtractObject(t *testing.T) {
	got, err := ExtractObject("Sure! Here is the analysis:\n```json\n{\"score\": {\"x\": 1}}\n```\nHope it helps.")
	require.NoError(t, err)
	assert.Equal(t, `{"score": {"x": 1}}`, got)

	_, err = ExtractObject("no json here")
	var unp *ErrUnparsable
	require.True(t, errors.As(err, &unp))
	assert.Equal(t, "no json here", unp.Raw)

	_, err = ExtractObject("} backwards {")
	assert.Error(t, err)
}

func TestExtractArray(t *testing.T) {
	got, err := ExtractArray(`Questions: [{"question":"Why?"}] done`)
	require.NoError(t, err)
	assert.Equal(t, `[{"question":"Why?"}]`, got)
}

func TestDecodeObject(t *testing.T) {
	schema := &Schema{
		Name: "parse-test-required",
		Definition: map[string]any{
			"type":     "object",
			"required": []any{"overallScore", "strengths"},
		},
	}

	var out map[string]any
	err := DecodeObject("```json\n{\"overallScore\": 140, \"strengths\": \"clear\"}\n```", schema, &out)
	require.NoError(t, err)
	assert.Equal(t, 100, CoerceInt(out["overallScore"], 0, 100, 70))
	assert.Equal(t, []string{"clear"}, CoerceStrings(out["strengths"]))

	err = DecodeObject(`{"overallScore": 80}`, schema, &out)
	var unp *ErrUnparsable
	assert.True(t, errors.As(err, &unp), "missing required field should be unparsable, got %v", err)

	err = DecodeObject(`{"overallScore": 80,`, schema, &out)
	assert.True(t, errors.As(err, &unp), "truncated JSON should be unparsable, got %v", err)
}

func TestDecodeArray(t *testing.T) {
	var out []map[string]any
	require.NoError(t, DecodeArray(`[{"q":"a"},{"q":"b"}]`, nil, &out))
	assert.Len(t, out, 2)
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"float", 72.6, 73},
		{"above range", 250.0, 100},
		{"below range", -5.0, 0},
		{"numeric string", "88", 88},
		{"percent string", "91%", 91},
		{"garbage string", "high", 70},
		{"nil", nil, 70},
		{"bool", true, 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceInt(tt.in, 0, 100, 70))
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   int
		wantOK bool
	}{
		{"float", 72.6, 73, true},
		{"clamped", 140.0, 100, true},
		{"percent string", "91%", 91, true},
		{"word", "excellent", 0, false},
		{"empty string", "", 0, false},
		{"nil", nil, 0, false},
		{"array", []any{80.0}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseInt(tt.in, 0, 100)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceStrings(t *testing.T) {
	assert.Equal(t, []string{}, CoerceStrings(nil))
	assert.Equal(t, []string{}, CoerceStrings(map[string]any{"a": 1}))
	assert.Equal(t, []string{}, CoerceStrings("   "))
	assert.Equal(t, []string{"a", "3", "b"}, CoerceStrings([]any{"a", 3.0, nil, " b "}))
}

func TestCoerceString(t *testing.T) {
	assert.Equal(t, "x", CoerceString(" x ", "def"))
	assert.Equal(t, "def", CoerceString(42.0, "def"))
	assert.Equal(t, "def", CoerceString("", "def"))
}
