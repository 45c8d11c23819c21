package crawler

import (
	"regexp"
	"sort"
	"strings"
)

const (
	maxKeywords    = 10
	maxTopHeadings = 10
	maxCTAs        = 10
)

// AnalysisSummary is the aggregated view of one crawl. Immutable.
type AnalysisSummary struct {
	RootURL       string        `json:"root_url"`
	TotalPages    int           `json:"total_pages"`
	InternalLinks int           `json:"internal_links"`
	ExternalLinks int           `json:"external_links"`
	TopHeadings   []string      `json:"top_headings"`
	Keywords      []string      `json:"keywords"`
	CTAs          []string      `json:"ctas"`
	PageSummaries []PageSummary `json:"page_summaries"`
}

// PageSummary is the per-page slice of the analysis.
type PageSummary struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      int      `json:"status"`
	WordCount   int      `json:"word_count"`
	Headings    []string `json:"headings"`
}

var wordPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z'-]{3,}`)

var stopwords = map[string]bool{
	"about": true, "after": true, "also": true, "back": true, "been": true,
	"before": true, "being": true, "best": true, "both": true, "click": true,
	"could": true, "does": true, "each": true, "even": true, "every": true,
	"from": true, "have": true, "here": true, "home": true, "into": true,
	"just": true, "like": true, "make": true, "many": true, "more": true,
	"most": true, "much": true, "need": true, "only": true, "other": true,
	"over": true, "page": true, "part": true, "some": true, "such": true,
	"than": true, "that": true, "their": true, "them": true, "then": true,
	"there": true, "these": true, "they": true, "this": true, "through": true,
	"very": true, "website": true, "well": true, "were": true, "what": true,
	"when": true, "where": true, "which": true, "while": true, "will": true,
	"with": true, "would": true, "your": true,
}

// Analyze reduces a crawl result to its summary metrics. Pure; it never
// fails given a valid result.
func Analyze(result *Result) AnalysisSummary {
	analysis := AnalysisSummary{RootURL: result.RootURL}

	frequencies := map[string]int{}
	seenHeading := map[string]bool{}
	seenCTA := map[string]bool{}

	for _, page := range result.Pages {
		analysis.TotalPages++
		analysis.InternalLinks += page.InternalLinks
		analysis.ExternalLinks += page.ExternalLinks

		for _, heading := range page.Headings {
			if !seenHeading[heading] && len(analysis.TopHeadings) < maxTopHeadings {
				seenHeading[heading] = true
				analysis.TopHeadings = append(analysis.TopHeadings, heading)
			}
		}

		for _, cta := range page.CTAs {
			key := strings.ToLower(cta)
			if !seenCTA[key] && len(analysis.CTAs) < maxCTAs {
				seenCTA[key] = true
				analysis.CTAs = append(analysis.CTAs, cta)
			}
		}

		countWords(frequencies, page.Title)
		countWords(frequencies, page.Description)
		countWords(frequencies, strings.Join(page.Headings, " "))
		countWords(frequencies, page.Text)

		analysis.PageSummaries = append(analysis.PageSummaries, PageSummary{
			URL:         page.URL,
			Title:       page.Title,
			Description: page.Description,
			Status:      page.Status,
			WordCount:   page.WordCount,
			Headings:    page.Headings,
		})
	}

	analysis.Keywords = topKeywords(frequencies, maxKeywords)
	return analysis
}

func countWords(frequencies map[string]int, text string) {
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if !stopwords[word] {
			frequencies[word]++
		}
	}
}

// topKeywords returns the n most frequent words, ties broken
// alphabetically so the output is deterministic.
func topKeywords(frequencies map[string]int, n int) []string {
	words := make([]string, 0, len(frequencies))
	for word := range frequencies {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if frequencies[words[i]] != frequencies[words[j]] {
			return frequencies[words[i]] > frequencies[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > n {
		words = words[:n]
	}
	return words
}
