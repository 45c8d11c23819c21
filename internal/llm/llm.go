// Package llm talks to the remote summarization providers and recovers
// structured results from their frequently imperfect output.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/pep299/webcrawl-agent/internal/crawler"
	"github.com/pep299/webcrawl-agent/internal/report"
)

// Client is the provider-agnostic summarization capability. The provider
// is chosen once at construction; call sites never branch on identity.
type Client interface {
	SummarizeSite(ctx context.Context, crawl *crawler.Result, analysis crawler.AnalysisSummary) (*report.SiteSummary, error)
	SummarizeText(ctx context.Context, text, documentType string) (*report.SiteSummary, error)
	Close() error
}

// Options selects and configures a provider.
type Options struct {
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	GrokAPIKey   string
	GrokModel    string

	// MaxContentTokens bounds the crawled text embedded in site prompts.
	MaxContentTokens int
}

// New creates the configured provider client. An unknown provider is an
// error here; a missing credential is not — clients surface that as a
// ConfigurationError at call time so the pipeline can fall back with
// setup guidance instead of refusing to start.
func New(opts Options) (Client, error) {
	switch strings.ToLower(opts.Provider) {
	case "gemini":
		return newGeminiClient(opts.GeminiAPIKey, opts.GeminiModel, opts.MaxContentTokens), nil
	case "grok":
		return newGrokClient(opts.GrokAPIKey, opts.GrokModel, opts.MaxContentTokens), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", opts.Provider)
	}
}
