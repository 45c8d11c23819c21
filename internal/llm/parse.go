package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

const previewLimit = 240

var overviewPattern = regexp.MustCompile(`"overview"\s*:\s*"([^"\\]*(?:\\.[^"\\]*)*)"`)

// ParseSummaryText turns raw model output into a decoded JSON object.
// Models routinely wrap JSON in Markdown fences or truncate it at the
// output-token budget, so decoding degrades in stages: strict parse,
// truncation repair, then a scrape of just the overview field. Only when
// all three fail does it return a ContentError.
func ParseSummaryText(text string) (map[string]interface{}, error) {
	cleaned := stripCodeBlock(text)

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil {
		return parsed, nil
	}

	if recovered := recoverPartialJSON(cleaned); recovered != nil {
		return recovered, nil
	}

	preview := strings.Join(strings.Fields(cleaned), " ")
	if len(preview) > previewLimit {
		preview = preview[:previewLimit-3] + "..."
	}
	return nil, &ContentError{Message: "model returned invalid JSON: " + preview}
}

// stripCodeBlock removes one surrounding fenced code block; everything
// outside the fences is discarded.
func stripCodeBlock(text string) string {
	stripped := strings.TrimSpace(text)
	if !strings.HasPrefix(stripped, "```") {
		return stripped
	}

	var body []string
	started := false
	for _, line := range strings.Split(stripped, "\n") {
		fence := strings.HasPrefix(strings.TrimSpace(line), "```")
		if !started {
			if fence {
				started = true
			}
			continue
		}
		if fence {
			break
		}
		body = append(body, line)
	}
	if len(body) == 0 {
		return stripped
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}

// recoverPartialJSON attempts to repair output that was cut off
// mid-object. It tries every tail truncation in increasing order of
// characters removed, closing unbalanced braces and brackets, and accepts
// the first candidate that decodes to a non-empty object. Failing that it
// scrapes the overview field and synthesizes a minimal result.
func recoverPartialJSON(text string) map[string]interface{} {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	if start == -1 {
		return nil
	}

	for cut := 0; cut < len(text)-start; cut++ {
		candidate := text[start : len(text)-cut]
		// Close arrays before objects: a dangling array is always nested
		// inside the object that opened before it.
		if openBrackets := strings.Count(candidate, "[") - strings.Count(candidate, "]"); openBrackets > 0 {
			candidate += strings.Repeat("]", openBrackets)
		}
		if openBraces := strings.Count(candidate, "{") - strings.Count(candidate, "}"); openBraces > 0 {
			candidate += strings.Repeat("}", openBraces)
		}

		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(candidate), &parsed); err == nil && len(parsed) > 0 {
			return parsed
		}
	}

	match := overviewPattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	overview := strings.ReplaceAll(match[1], `\"`, `"`)
	overview = strings.ReplaceAll(overview, `\n`, "\n")
	return map[string]interface{}{
		"overview":     overview,
		"content_type": "document",
		"sections": map[string]interface{}{
			"note": []interface{}{"JSON response was incomplete. Only partial data extracted."},
		},
	}
}
