package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pep299/webcrawl-agent/internal/crawler"
	"github.com/pep299/webcrawl-agent/internal/llm"
	"github.com/pep299/webcrawl-agent/internal/mocks"
	"github.com/pep299/webcrawl-agent/internal/report"
)

func testCrawlResult() *crawler.Result {
	return &crawler.Result{
		RootURL: "https://example.com",
		Pages: []crawler.Page{
			{
				URL:         "https://example.com/",
				Title:       "Example",
				Description: "An example",
				Status:      200,
				WordCount:   50,
				Text:        "example body",
			},
		},
	}
}

func modelSummary() *report.SiteSummary {
	return &report.SiteSummary{
		Overview:    "The model's own words.",
		ContentType: "website",
		Sections:    map[string][]string{"highlights": {"from the model"}},
	}
}

func TestRunSuccess(t *testing.T) {
	llmMock := &mocks.LLMClient{SiteSummary: modelSummary()}
	crawlerMock := &mocks.Crawler{Result: testCrawlResult(), Progress: []string{"Crawled https://example.com/ (1/8)"}}
	rendererMock := &mocks.Renderer{Path: "reports/report-x.pdf"}

	agent := NewAgent(llmMock, crawlerMock, rendererMock, nil)

	var progress []string
	result, err := agent.Run(context.Background(), "https://example.com", func(m string) {
		progress = append(progress, m)
	})
	require.NoError(t, err)

	assert.Equal(t, "The model's own words.", result.Summary.Overview)
	assert.Equal(t, "reports/report-x.pdf", result.PDFPath)
	assert.Equal(t, 1, result.Analysis.TotalPages)
	assert.Equal(t, 1, rendererMock.Builds)

	// One status message per stage boundary, crawl progress included.
	assert.Equal(t, []string{
		"Starting crawl of https://example.com",
		"Crawled https://example.com/ (1/8)",
		"Crawl complete; building site metadata",
		"Requesting LLM summary",
		"Generating PDF report",
		"Report saved",
	}, progress)
}

func TestRunFallsBackOnContentError(t *testing.T) {
	llmMock := &mocks.LLMClient{
		SiteErr: &llm.ContentError{Message: "Gemini API error: Resource has been exhausted", Status: 429},
	}
	crawlerMock := &mocks.Crawler{Result: testCrawlResult()}
	rendererMock := &mocks.Renderer{Path: "reports/report-y.pdf"}

	agent := NewAgent(llmMock, crawlerMock, rendererMock, nil)

	result, err := agent.Run(context.Background(), "https://example.com", nil)
	require.NoError(t, err)

	assert.Contains(t, result.Summary.Overview, "LLM output unavailable")
	assert.Contains(t, result.Summary.Overview, "Resource has been exhausted")
	require.NotEmpty(t, result.Summary.Sections["recommendations"])
	assert.Contains(t, result.Summary.Sections["recommendations"][0], "Review the crawler output manually")
}

func TestRunFallsBackOnConfigurationError(t *testing.T) {
	llmMock := &mocks.LLMClient{
		SiteErr: &llm.ConfigurationError{Provider: "Gemini", Message: "set GEMINI_API_KEY in your environment or .env file"},
	}
	crawlerMock := &mocks.Crawler{Result: testCrawlResult()}
	rendererMock := &mocks.Renderer{Path: "reports/report-z.pdf"}

	agent := NewAgent(llmMock, crawlerMock, rendererMock, nil)

	result, err := agent.Run(context.Background(), "https://example.com", nil)
	require.NoError(t, err)

	// The reason distinguishes setup problems from content blocking.
	assert.Contains(t, result.Summary.Overview, "LLM provider setup issue")
	assert.Contains(t, result.Summary.Overview, "GEMINI_API_KEY")
}

func TestRunPropagatesTransportError(t *testing.T) {
	llmMock := &mocks.LLMClient{SiteErr: errors.New("dial tcp: connection refused")}
	crawlerMock := &mocks.Crawler{Result: testCrawlResult()}
	rendererMock := &mocks.Renderer{Path: "x.pdf"}

	agent := NewAgent(llmMock, crawlerMock, rendererMock, nil)

	_, err := agent.Run(context.Background(), "https://example.com", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summarizing site")
	assert.Equal(t, 0, rendererMock.Builds)
}

func TestRunPropagatesCrawlError(t *testing.T) {
	crawlerMock := &mocks.Crawler{Err: errors.New("navigation failed")}
	agent := NewAgent(&mocks.LLMClient{}, crawlerMock, &mocks.Renderer{}, nil)

	_, err := agent.Run(context.Background(), "https://example.com", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "navigation failed")
}

func TestRunPropagatesRenderError(t *testing.T) {
	llmMock := &mocks.LLMClient{SiteSummary: modelSummary()}
	crawlerMock := &mocks.Crawler{Result: testCrawlResult()}
	rendererMock := &mocks.Renderer{Err: errors.New("disk full")}

	agent := NewAgent(llmMock, crawlerMock, rendererMock, nil)

	_, err := agent.Run(context.Background(), "https://example.com", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rendering report")
}

func TestRunArchivesReport(t *testing.T) {
	llmMock := &mocks.LLMClient{SiteSummary: modelSummary()}
	archiverMock := &mocks.Archiver{}
	agent := NewAgent(llmMock, &mocks.Crawler{Result: testCrawlResult()}, &mocks.Renderer{Path: "reports/r.pdf"}, archiverMock)

	_, err := agent.Run(context.Background(), "https://example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"reports/r.pdf"}, archiverMock.Stored)
}

func TestRunArchiveFailureIsNotFatal(t *testing.T) {
	llmMock := &mocks.LLMClient{SiteSummary: modelSummary()}
	archiverMock := &mocks.Archiver{Err: errors.New("bucket unavailable")}
	agent := NewAgent(llmMock, &mocks.Crawler{Result: testCrawlResult()}, &mocks.Renderer{Path: "reports/r.pdf"}, archiverMock)

	result, err := agent.Run(context.Background(), "https://example.com", nil)
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestRunFromTextSuccess(t *testing.T) {
	llmMock := &mocks.LLMClient{
		TextSummary: &report.SiteSummary{
			Overview:    "A conversation between two people.",
			ContentType: "conversation",
			Sections:    map[string][]string{"speakers": {"alice", "bob"}},
		},
	}
	rendererMock := &mocks.Renderer{Path: "reports/report-t.pdf"}
	agent := NewAgent(llmMock, &mocks.Crawler{}, rendererMock, nil)

	var progress []string
	result, err := agent.RunFromText(context.Background(), "alice: hi", "conversation", func(m string) {
		progress = append(progress, m)
	})
	require.NoError(t, err)

	assert.Equal(t, "text-input", result.URL)
	assert.Equal(t, "conversation", result.Summary.ContentType)
	assert.Equal(t, 1, result.Analysis.TotalPages)
	assert.Nil(t, result.Crawl)
	assert.Equal(t, []string{"Analyzing text content", "Generating PDF report", "Report saved"}, progress)
}

func TestRunFromTextFallback(t *testing.T) {
	llmMock := &mocks.LLMClient{TextErr: &llm.ContentError{Message: "blocked by safety filter"}}
	agent := NewAgent(llmMock, &mocks.Crawler{}, &mocks.Renderer{Path: "r.pdf"}, nil)

	result, err := agent.RunFromText(context.Background(), "some text here", "document", nil)
	require.NoError(t, err)

	assert.Contains(t, result.Summary.Overview, "Text analysis unavailable")
	assert.Contains(t, result.Summary.Overview, "blocked by safety filter")
	assert.Contains(t, result.Summary.Overview, "14 characters")
	assert.NotEmpty(t, result.Summary.Sections["suggestions"])
}

func TestRunFromTextConfigurationFallbackSuggestsSetup(t *testing.T) {
	llmMock := &mocks.LLMClient{
		TextErr: &llm.ConfigurationError{Provider: "Grok", Message: "set GROK_API_KEY in your environment or .env file"},
	}
	agent := NewAgent(llmMock, &mocks.Crawler{}, &mocks.Renderer{Path: "r.pdf"}, nil)

	result, err := agent.RunFromText(context.Background(), "text", "document", nil)
	require.NoError(t, err)

	require.NotEmpty(t, result.Summary.Sections["suggestions"])
	assert.Contains(t, result.Summary.Sections["suggestions"][0], "credential")
}
