package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLLMPayloadDynamicSections(t *testing.T) {
	summary := FromLLMPayload(map[string]interface{}{
		"overview":     "A meeting recap.",
		"content_type": "meeting",
		"sections": map[string]interface{}{
			"participants": []interface{}{"alice", "bob"},
			"action_items": []interface{}{"ship it"},
		},
	})

	assert.Equal(t, "A meeting recap.", summary.Overview)
	assert.Equal(t, "meeting", summary.ContentType)
	assert.Equal(t, []string{"alice", "bob"}, summary.Sections["participants"])
	assert.Equal(t, []string{"ship it"}, summary.Sections["action_items"])
}

func TestFromLLMPayloadUnknownKeysPassThrough(t *testing.T) {
	summary := FromLLMPayload(map[string]interface{}{
		"overview":     "x",
		"content_type": "document",
		"sections": map[string]interface{}{
			"totally_novel_key": []interface{}{"kept"},
		},
	})

	assert.Equal(t, []string{"kept"}, summary.Sections["totally_novel_key"])
}

func TestFromLLMPayloadLegacyShape(t *testing.T) {
	summary := FromLLMPayload(map[string]interface{}{
		"overview":        "A legacy site summary.",
		"sections":        []interface{}{"Home: landing", "Docs: manuals"},
		"highlights":      []interface{}{"fast"},
		"recommendations": []interface{}{"add pricing"},
	})

	assert.Equal(t, "website", summary.ContentType)
	assert.Equal(t, []string{"Home: landing", "Docs: manuals"}, summary.Sections["key_sections"])
	assert.Equal(t, []string{"fast"}, summary.Sections["highlights"])
	assert.Equal(t, []string{"add pricing"}, summary.Sections["recommendations"])
	assert.Equal(t, []string{"fast"}, summary.Highlights)
	assert.Equal(t, []string{"add pricing"}, summary.Recommendations)
}

func TestFromLLMPayloadDefaults(t *testing.T) {
	summary := FromLLMPayload(map[string]interface{}{})

	assert.NotEmpty(t, summary.Overview)
	assert.NotEmpty(t, summary.ContentType)
	require.NotNil(t, summary.Sections)
	assert.Empty(t, summary.Sections)
}

func TestFromLLMPayloadIgnoresNonStringItems(t *testing.T) {
	summary := FromLLMPayload(map[string]interface{}{
		"overview":     "x",
		"content_type": "document",
		"sections": map[string]interface{}{
			"mixed": []interface{}{"kept", 42, nil, "also kept"},
		},
	})

	assert.Equal(t, []string{"kept", "also kept"}, summary.Sections["mixed"])
}
