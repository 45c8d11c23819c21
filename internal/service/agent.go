// Package service runs the crawl → analyze → summarize → report pipeline.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pep299/webcrawl-agent/internal/crawler"
	"github.com/pep299/webcrawl-agent/internal/llm"
	"github.com/pep299/webcrawl-agent/internal/report"
)

// Crawler walks a site and returns its page records.
type Crawler interface {
	Crawl(ctx context.Context, url string, progress func(string)) (*crawler.Result, error)
}

// Renderer turns a finished payload into a report file.
type Renderer interface {
	Build(payload *report.Payload) (string, error)
}

// Archiver mirrors a rendered report to durable storage.
type Archiver interface {
	Store(ctx context.Context, localPath string) error
}

// ProgressFunc receives one human-readable message per pipeline stage.
type ProgressFunc func(message string)

// Result is the outcome of one pipeline run.
type Result struct {
	URL      string
	Crawl    *crawler.Result
	Analysis crawler.AnalysisSummary
	Summary  *report.SiteSummary
	PDFPath  string
}

// Agent owns one run at a time per invocation; runs share no state.
type Agent struct {
	llm      llm.Client
	crawler  Crawler
	renderer Renderer
	archive  Archiver // optional
}

// NewAgent wires the pipeline collaborators. archive may be nil.
func NewAgent(llmClient llm.Client, crawl Crawler, renderer Renderer, archive Archiver) *Agent {
	return &Agent{
		llm:      llmClient,
		crawler:  crawl,
		renderer: renderer,
		archive:  archive,
	}
}

// Run executes the full pipeline for a URL. Summarization failures that
// are recoverable (missing credential, blocked or unusable output) are
// absorbed into a fallback summary; crawl and render failures propagate.
func (a *Agent) Run(ctx context.Context, url string, progress ProgressFunc) (*Result, error) {
	emit := func(message string) {
		if progress != nil {
			progress(message)
		}
	}
	startTime := time.Now()

	emit("Starting crawl of " + url)
	crawlStart := time.Now()
	crawl, err := a.crawler.Crawl(ctx, url, emit)
	if err != nil {
		return nil, fmt.Errorf("crawling %s: %w", url, err)
	}
	crawlDuration := time.Since(crawlStart)

	emit("Crawl complete; building site metadata")
	analysis := crawler.Analyze(crawl)

	emit("Requesting LLM summary")
	summaryStart := time.Now()
	summary, err := a.llm.SummarizeSite(ctx, crawl, analysis)
	usedFallback := false
	if err != nil {
		reason, recoverable := fallbackReason(err)
		if !recoverable {
			return nil, fmt.Errorf("summarizing site: %w", err)
		}
		emit("LLM unavailable; using crawler-only summary")
		summary = llm.BuildFallbackSummary(crawl, analysis, reason)
		usedFallback = true
	}
	summaryDuration := time.Since(summaryStart)

	emit("Generating PDF report")
	pdfPath, err := a.render(ctx, url, summary, analysis)
	if err != nil {
		return nil, err
	}
	emit("Report saved")

	log.Printf("Site analysis completed url=%s pages=%d fallback=%t total_ms=%d crawl_ms=%d summary_ms=%d",
		url, analysis.TotalPages, usedFallback,
		time.Since(startTime).Milliseconds(),
		crawlDuration.Milliseconds(),
		summaryDuration.Milliseconds())

	return &Result{
		URL:      url,
		Crawl:    crawl,
		Analysis: analysis,
		Summary:  summary,
		PDFPath:  pdfPath,
	}, nil
}

// RunFromText is the same pipeline minus the crawl and analyze stages; a
// synthetic single-entry analysis keeps the downstream stages unaware
// that no crawl occurred.
func (a *Agent) RunFromText(ctx context.Context, text, documentType string, progress ProgressFunc) (*Result, error) {
	emit := func(message string) {
		if progress != nil {
			progress(message)
		}
	}
	startTime := time.Now()

	emit("Analyzing text content")
	summary, err := a.llm.SummarizeText(ctx, text, documentType)
	usedFallback := false
	if err != nil {
		reason, recoverable := fallbackReason(err)
		if !recoverable {
			return nil, fmt.Errorf("summarizing text: %w", err)
		}
		emit("LLM unavailable; generating basic summary")
		summary = textFallbackSummary(text, reason, err)
		usedFallback = true
	}

	analysis := crawler.AnalysisSummary{
		RootURL:    "text-input",
		TotalPages: 1,
	}

	emit("Generating PDF report")
	pdfPath, err := a.render(ctx, "text-input", summary, analysis)
	if err != nil {
		return nil, err
	}
	emit("Report saved")

	log.Printf("Text analysis completed document_type=%s chars=%d fallback=%t total_ms=%d",
		documentType, len(text), usedFallback, time.Since(startTime).Milliseconds())

	return &Result{
		URL:      "text-input",
		Analysis: analysis,
		Summary:  summary,
		PDFPath:  pdfPath,
	}, nil
}

func (a *Agent) render(ctx context.Context, url string, summary *report.SiteSummary, analysis crawler.AnalysisSummary) (string, error) {
	payload := &report.Payload{
		URL:         url,
		Summary:     summary,
		Metrics:     analysis,
		GeneratedAt: time.Now().UTC(),
	}
	pdfPath, err := a.renderer.Build(payload)
	if err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}

	if a.archive != nil {
		if err := a.archive.Store(ctx, pdfPath); err != nil {
			log.Printf("Report archive upload failed path=%s: %v", pdfPath, err)
		}
	}
	return pdfPath, nil
}

// fallbackReason classifies a summarization failure. Configuration
// errors get a setup-flavored reason so the user-facing text points at
// credentials rather than the content.
func fallbackReason(err error) (string, bool) {
	var configErr *llm.ConfigurationError
	if errors.As(err, &configErr) {
		return "LLM provider setup issue: " + configErr.Error(), true
	}
	var contentErr *llm.ContentError
	if errors.As(err, &contentErr) {
		return contentErr.Message, true
	}
	return "", false
}

func textFallbackSummary(text, reason string, err error) *report.SiteSummary {
	suggestion := "Try with different content or another site."
	var configErr *llm.ConfigurationError
	if errors.As(err, &configErr) {
		suggestion = "Configure the LLM provider credential and retry."
	}

	return &report.SiteSummary{
		Overview: fmt.Sprintf(
			"Text analysis unavailable (%s). Content length: %d characters.",
			reason, len(text)),
		ContentType: "document",
		Sections: map[string][]string{
			"error_info":    {"Content could not be analyzed by the LLM"},
			"content_stats": {fmt.Sprintf("Text length: %d characters", len(text))},
			"suggestions":   {suggestion},
		},
	}
}
