package application

import (
	"context"
	"fmt"
	"log"

	"github.com/pep299/webcrawl-agent/internal/crawler"
	"github.com/pep299/webcrawl-agent/internal/llm"
	"github.com/pep299/webcrawl-agent/internal/report"
	"github.com/pep299/webcrawl-agent/internal/service"
	"github.com/pep299/webcrawl-agent/internal/transport/handler"
)

// Application represents the application with all business logic components
type Application struct {
	Config *Config
	Agent  *service.Agent

	AnalyzeHandler         *handler.Analyze
	AnalyzeTextHandler     *handler.AnalyzeText
	AnalyzeDocumentHandler *handler.AnalyzeDocument
	StreamHandler          *handler.Stream
	ReportsHandler         *handler.Reports

	cleanup func() error
}

// New creates a new application instance with all dependencies
func New() (*Application, error) {
	// Load configuration
	cfg, err := Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	llmClient, err := llm.New(llm.Options{
		Provider:         cfg.LLMProvider,
		GeminiAPIKey:     cfg.GeminiAPIKey,
		GeminiModel:      cfg.GeminiModel,
		GrokAPIKey:       cfg.GrokAPIKey,
		GrokModel:        cfg.GrokModel,
		MaxContentTokens: cfg.CrawlMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}

	renderer, err := report.NewPDFBuilder(cfg.ReportDir)
	if err != nil {
		return nil, fmt.Errorf("creating report builder: %w", err)
	}

	// Optional report archive: only wired when a bucket is configured.
	var archive service.Archiver
	var archiveCloser func() error
	if cfg.ReportBucket != "" {
		gcsArchive, err := report.NewArchive(context.Background(), cfg.ReportBucket)
		if err != nil {
			return nil, fmt.Errorf("creating report archive: %w", err)
		}
		archive = gcsArchive
		archiveCloser = gcsArchive.Close
		log.Printf("Report archive enabled bucket=%s", cfg.ReportBucket)
	}

	agent := service.NewAgent(llmClient, crawler.New(cfg.CrawlMaxPages), renderer, archive)

	cleanup := func() error {
		if archiveCloser != nil {
			if err := archiveCloser(); err != nil {
				return err
			}
		}
		return llmClient.Close()
	}

	return &Application{
		Config:                 cfg,
		Agent:                  agent,
		AnalyzeHandler:         handler.NewAnalyze(agent),
		AnalyzeTextHandler:     handler.NewAnalyzeText(agent),
		AnalyzeDocumentHandler: handler.NewAnalyzeDocument(agent),
		StreamHandler:          handler.NewStream(agent),
		ReportsHandler:         handler.NewReports(cfg.ReportDir),
		cleanup:                cleanup,
	}, nil
}

// Close cleans up application resources
func (a *Application) Close() error {
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
