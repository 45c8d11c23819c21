package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pep299/webcrawl-agent/internal/crawler"
)

// buildSitePrompt embeds the crawl metadata and a token-bounded slice of
// the raw page text into one briefing request.
func buildSitePrompt(crawl *crawler.Result, analysis crawler.AnalysisSummary, maxTokens int) string {
	metadata, _ := json.Marshal(struct {
		RootURL  string                `json:"root_url"`
		Pages    []crawler.PageSummary `json:"pages"`
		Keywords []string              `json:"keywords"`
		CTALinks []string              `json:"cta_links"`
	}{
		RootURL:  analysis.RootURL,
		Pages:    analysis.PageSummaries,
		Keywords: analysis.Keywords,
		CTALinks: analysis.CTAs,
	})

	var prompt strings.Builder
	prompt.WriteString("You are an analyst generating a concise website briefing. ")
	prompt.WriteString("Blend the structured metadata with the raw text to produce actionable insight.\n\n")
	prompt.WriteString("Return **only** JSON with this structure:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"overview\": <2-4 sentence comprehensive synopsis>,\n")
	prompt.WriteString("  \"content_type\": \"website\",\n")
	prompt.WriteString("  \"sections\": {\n")
	prompt.WriteString("    \"key_sections\": [list of key sections and their purpose],\n")
	prompt.WriteString("    \"highlights\": [bullet-level product/features/metrics insights],\n")
	prompt.WriteString("    \"recommendations\": [next actions or opportunities]\n")
	prompt.WriteString("  }\n")
	prompt.WriteString("}\n\n")
	prompt.WriteString(fmt.Sprintf("Metadata: %s\n", metadata))
	prompt.WriteString("Content:\n")
	prompt.WriteString(strings.Join(crawl.AggregateText(maxTokens), "\n\n"))
	return prompt.String()
}

// buildTextPrompt asks the model to detect the content type itself and
// pick section names that fit it.
func buildTextPrompt(text, documentType string) string {
	var prompt strings.Builder
	prompt.WriteString("You are an intelligent analyst that adapts summaries based on content type. ")
	prompt.WriteString("First, analyze the content to determine its type (conversation, article, meeting notes, ")
	prompt.WriteString("document, email thread, etc.), then generate an appropriate summary structure.\n\n")
	prompt.WriteString("For conversations/dialogues: Identify speakers, main topics discussed, key points made by each speaker, ")
	prompt.WriteString("decisions reached, and action items.\n\n")
	prompt.WriteString("For articles/documents: Identify main themes, key arguments, important facts, and conclusions.\n\n")
	prompt.WriteString("For meeting notes: Identify participants, agenda items, decisions made, and action items.\n\n")
	prompt.WriteString("Return **only** JSON with this structure:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"overview\": <2-4 sentence comprehensive synopsis that captures the essence>,\n")
	prompt.WriteString("  \"content_type\": <detected type: \"conversation\", \"article\", \"meeting\", \"document\", etc.>,\n")
	prompt.WriteString("  \"sections\": {\n")
	prompt.WriteString("    \"<section_name>\": [<relevant items>],\n")
	prompt.WriteString("    ...\n")
	prompt.WriteString("  }\n")
	prompt.WriteString("}\n\n")
	prompt.WriteString("Use appropriate section names based on content type:\n")
	prompt.WriteString("- Conversations: 'speakers', 'topics_discussed', 'key_points', 'decisions', 'action_items'\n")
	prompt.WriteString("- Articles: 'main_themes', 'key_arguments', 'important_facts', 'conclusions'\n")
	prompt.WriteString("- Meetings: 'participants', 'agenda_items', 'decisions_made', 'action_items', 'next_steps'\n")
	prompt.WriteString("- Documents: 'main_sections', 'key_findings', 'important_details', 'summary_points'\n")
	prompt.WriteString("- General: 'main_points', 'key_insights', 'important_information', 'takeaways'\n\n")
	prompt.WriteString("Be intelligent and create sections that make sense for the content. Include 3-6 relevant sections.\n\n")
	prompt.WriteString(fmt.Sprintf("The caller labeled this content as %q.\n\n", documentType))
	prompt.WriteString("Content to analyze:\n")
	prompt.WriteString(text)
	return prompt.String()
}
