package llm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSummaryTextValidJSON(t *testing.T) {
	parsed, err := ParseSummaryText(`{"overview": "A site.", "content_type": "website", "sections": {"highlights": ["fast"]}}`)
	require.NoError(t, err)
	assert.Equal(t, "A site.", parsed["overview"])
	assert.Equal(t, "website", parsed["content_type"])

	sections, ok := parsed["sections"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"fast"}, sections["highlights"])
}

func TestParseSummaryTextFencedJSON(t *testing.T) {
	text := "```json\n{\"overview\": \"Fenced.\", \"content_type\": \"article\", \"sections\": {}}\n```"
	parsed, err := ParseSummaryText(text)
	require.NoError(t, err)
	assert.Equal(t, "Fenced.", parsed["overview"])
}

func TestParseSummaryTextTruncatedObject(t *testing.T) {
	// Cut off mid-array, the way a model hits its output-token budget.
	text := `{"overview": "hi", "content_type": "x", "sections": {"a": ["b"`
	parsed, err := ParseSummaryText(text)
	require.NoError(t, err)
	assert.Equal(t, "hi", parsed["overview"])
	assert.Equal(t, "x", parsed["content_type"])
}

func TestParseSummaryTextTruncatedMidKey(t *testing.T) {
	text := `{"overview": "partial result", "content_type": "article", "secti`
	parsed, err := ParseSummaryText(text)
	require.NoError(t, err)
	assert.Equal(t, "partial result", parsed["overview"])
	assert.Equal(t, "article", parsed["content_type"])
}

func TestParseSummaryTextOverviewScrape(t *testing.T) {
	// The prefix is broken beyond truncation repair, but the overview
	// field itself is intact.
	text := `{bad json here "overview": "scraped \"quoted\" text" more garbage`
	parsed, err := ParseSummaryText(text)
	require.NoError(t, err)
	assert.Equal(t, `scraped "quoted" text`, parsed["overview"])
	assert.Equal(t, "document", parsed["content_type"])

	sections, ok := parsed["sections"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, sections, "note")
}

func TestParseSummaryTextNoJSON(t *testing.T) {
	_, err := ParseSummaryText("I cannot summarize this content.")
	require.Error(t, err)

	var contentErr *ContentError
	require.True(t, errors.As(err, &contentErr))
	assert.Contains(t, contentErr.Message, "I cannot summarize this content.")
}

func TestParseSummaryTextPreviewTruncation(t *testing.T) {
	long := strings.Repeat("word ", 200)
	_, err := ParseSummaryText(long)
	require.Error(t, err)

	var contentErr *ContentError
	require.True(t, errors.As(err, &contentErr))
	assert.Contains(t, contentErr.Message, "...")

	preview := strings.TrimPrefix(contentErr.Message, "model returned invalid JSON: ")
	assert.LessOrEqual(t, len(preview), 240)
}

func TestStripCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"language fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"unclosed fence", "```json\n{\"a\": 1}", `{"a": 1}`},
		{"empty fence", "```\n```", "```\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeBlock(tt.input))
		})
	}
}
