package report

import (
	"time"

	"github.com/pep299/webcrawl-agent/internal/crawler"
)

// SiteSummary is the normalized output of the summarization stage. The
// section keys are chosen by the model at runtime and passed through
// untouched. Highlights and Recommendations survive for consumers of the
// older flat shape.
type SiteSummary struct {
	Overview        string              `json:"overview"`
	ContentType     string              `json:"content_type"`
	Sections        map[string][]string `json:"sections"`
	Highlights      []string            `json:"highlights,omitempty"`
	Recommendations []string            `json:"recommendations,omitempty"`
}

// Payload is handed to the report builder once per run and never mutated
// afterward.
type Payload struct {
	URL         string
	Summary     *SiteSummary
	Metrics     crawler.AnalysisSummary
	GeneratedAt time.Time
	PDFPath     string
}

// FromLLMPayload normalizes a decoded model response into a SiteSummary.
// Overview and content type are always non-empty afterward; sections is
// always non-nil. Legacy responses that carry flat section/highlight
// lists are folded into the sections map.
func FromLLMPayload(payload map[string]interface{}) *SiteSummary {
	summary := &SiteSummary{
		Overview:    stringField(payload, "overview"),
		ContentType: stringField(payload, "content_type"),
		Sections:    map[string][]string{},
	}

	if sections, ok := payload["sections"].(map[string]interface{}); ok {
		for name, value := range sections {
			summary.Sections[name] = stringList(value)
		}
	} else {
		// Legacy flat shape: sections/highlights/recommendations as lists.
		for _, name := range []string{"sections", "highlights", "recommendations"} {
			if items := stringList(payload[name]); len(items) > 0 {
				key := name
				if name == "sections" {
					key = "key_sections"
				}
				summary.Sections[key] = items
			}
		}
		if summary.ContentType == "" {
			summary.ContentType = "website"
		}
	}

	summary.Highlights = stringList(payload["highlights"])
	summary.Recommendations = stringList(payload["recommendations"])

	if summary.Overview == "" {
		summary.Overview = "No overview was provided."
	}
	if summary.ContentType == "" {
		summary.ContentType = "document"
	}
	return summary
}

func stringField(payload map[string]interface{}, key string) string {
	value, _ := payload[key].(string)
	return value
}

func stringList(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}
	var result []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}
