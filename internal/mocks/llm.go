package mocks

import (
	"context"

	"github.com/pep299/webcrawl-agent/internal/crawler"
	"github.com/pep299/webcrawl-agent/internal/report"
)

// LLMClient is a canned llm.Client for tests.
type LLMClient struct {
	SiteSummary *report.SiteSummary
	SiteErr     error
	TextSummary *report.SiteSummary
	TextErr     error

	SiteCalls int
	TextCalls int
	Closed    bool
}

func (m *LLMClient) SummarizeSite(ctx context.Context, crawl *crawler.Result, analysis crawler.AnalysisSummary) (*report.SiteSummary, error) {
	m.SiteCalls++
	if m.SiteErr != nil {
		return nil, m.SiteErr
	}
	return m.SiteSummary, nil
}

func (m *LLMClient) SummarizeText(ctx context.Context, text, documentType string) (*report.SiteSummary, error) {
	m.TextCalls++
	if m.TextErr != nil {
		return nil, m.TextErr
	}
	return m.TextSummary, nil
}

func (m *LLMClient) Close() error {
	m.Closed = true
	return nil
}
