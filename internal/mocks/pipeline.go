package mocks

import (
	"context"

	"github.com/pep299/webcrawl-agent/internal/crawler"
	"github.com/pep299/webcrawl-agent/internal/report"
)

// Crawler is a canned service.Crawler. Progress receives the configured
// messages in order before the result is returned.
type Crawler struct {
	Result   *crawler.Result
	Err      error
	Progress []string

	// Block, when set, makes Crawl wait for ctx cancellation so tests
	// can exercise cooperative teardown.
	Block bool
}

func (m *Crawler) Crawl(ctx context.Context, url string, progress func(string)) (*crawler.Result, error) {
	for _, message := range m.Progress {
		if progress != nil {
			progress(message)
		}
	}
	if m.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// Renderer is a canned service.Renderer.
type Renderer struct {
	Path   string
	Err    error
	Builds int
}

func (m *Renderer) Build(payload *report.Payload) (string, error) {
	m.Builds++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Path, nil
}

// Archiver records Store calls.
type Archiver struct {
	Stored []string
	Err    error
}

func (m *Archiver) Store(ctx context.Context, localPath string) error {
	m.Stored = append(m.Stored, localPath)
	return m.Err
}
