package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"uppercase json fence", "```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```  \n", `{"a":1}`},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"prose", "Great candidate overall.", "Great candidate overall."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripCodeFence(tt.input))
		})
	}
}

func TestParseAnalysis_FencedJSON(t *testing.T) {
	content, ok := ParseAnalysis("```json\n{\"summary\": \"x\"}\n```")

	assert.True(t, ok)
	assert.Equal(t, map[string]any{"summary": "x"}, content)
}

func TestParseAnalysis_NestedValues(t *testing.T) {
	content, ok := ParseAnalysis(`{"strengths": ["Go", "SQL"], "roadmap": {"short_term": ["learn k8s"]}}`)

	assert.True(t, ok)
	assert.Equal(t, []any{"Go", "SQL"}, content["strengths"])
	assert.Equal(t, map[string]any{"short_term": []any{"learn k8s"}}, content["roadmap"])
}

func TestParseAnalysis_FallsBackToRaw(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"prose", "Great candidate overall."},
		{"array", `["a", "b"]`},
		{"null", "null"},
		{"truncated", "```json\n{\"summary\": \"x\""},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, ok := ParseAnalysis(tt.input)

			assert.False(t, ok)
			assert.Equal(t, map[string]any{RawAnalysisKey: tt.input}, content)
		})
	}
}
