package llm

import (
	"fmt"
	"log"
	"strings"

	"github.com/pep299/webcrawl-agent/internal/crawler"
	"github.com/pep299/webcrawl-agent/internal/report"
)

// BuildFallbackSummary constructs a deterministic summary from crawl data
// alone, used whenever the provider fails in a recoverable way. It works
// only on already-validated in-memory data and never fails; the reason is
// embedded verbatim in the overview so operators can tell a blocked
// response from a setup problem.
func BuildFallbackSummary(crawl *crawler.Result, analysis crawler.AnalysisSummary, reason string) *report.SiteSummary {
	var keySections []string
	for i, page := range analysis.PageSummaries {
		if i == 3 {
			break
		}
		snippet := page.Description
		if snippet == "" {
			snippet = strings.Join(page.Headings, " / ")
		}
		if snippet == "" {
			snippet = fmt.Sprintf("%d words (status %d)", page.WordCount, page.Status)
		}
		keySections = append(keySections, fmt.Sprintf("%s: %s", page.Title, snippet))
	}
	if len(keySections) == 0 && crawl != nil && len(crawl.Pages) > 0 {
		first := crawl.Pages[0]
		title := first.Title
		if title == "" {
			title = first.URL
		}
		keySections = append(keySections, fmt.Sprintf("%s: %s", title, first.Description))
	}
	if len(keySections) == 0 {
		keySections = []string{analysis.RootURL}
	}

	var highlights []string
	if len(analysis.Keywords) > 0 {
		keywords := analysis.Keywords
		if len(keywords) > 6 {
			keywords = keywords[:6]
		}
		highlights = append(highlights, "Top keywords: "+strings.Join(keywords, ", "))
	}
	highlights = append(highlights, fmt.Sprintf(
		"Internal links: %d / External links: %d",
		analysis.InternalLinks, analysis.ExternalLinks))
	if len(analysis.CTAs) > 0 {
		ctas := analysis.CTAs
		if len(ctas) > 5 {
			ctas = ctas[:5]
		}
		highlights = append(highlights, "Detected CTAs: "+strings.Join(ctas, ", "))
	}

	recommendations := []string{
		"Review the crawler output manually because the LLM output was unavailable.",
		"Retry with sanitized text or a different site if you need an AI-authored summary.",
	}

	overview := fmt.Sprintf(
		"Crawled %d page(s) from %s. LLM output unavailable (%s); showing crawler-derived summary.",
		analysis.TotalPages, analysis.RootURL, reason)

	log.Printf("Using fallback summary reason=%q", reason)
	return &report.SiteSummary{
		Overview:    overview,
		ContentType: "website",
		Sections: map[string][]string{
			"key_sections":    keySections,
			"highlights":      highlights,
			"recommendations": recommendations,
		},
		Highlights:      highlights,
		Recommendations: recommendations,
	}
}
