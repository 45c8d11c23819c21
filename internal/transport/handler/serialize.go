package handler

import (
	"path/filepath"

	"github.com/pep299/webcrawl-agent/internal/crawler"
	"github.com/pep299/webcrawl-agent/internal/service"
)

// analyzeResponse is the wire shape shared by the synchronous endpoints
// and the terminal streaming event.
type analyzeResponse struct {
	URL     string                  `json:"url"`
	Summary summaryBody             `json:"summary"`
	Metrics crawler.AnalysisSummary `json:"metrics"`
	PDFPath string                  `json:"pdf_path"`
}

// summaryBody always carries all five fields, empty or not, so older
// consumers of the flat highlight shape keep working.
type summaryBody struct {
	Overview        string              `json:"overview"`
	ContentType     string              `json:"content_type"`
	Sections        map[string][]string `json:"sections"`
	Highlights      []string            `json:"highlights"`
	Recommendations []string            `json:"recommendations"`
}

func newAnalyzeResponse(result *service.Result) analyzeResponse {
	return analyzeResponse{
		URL: result.URL,
		Summary: summaryBody{
			Overview:        result.Summary.Overview,
			ContentType:     result.Summary.ContentType,
			Sections:        result.Summary.Sections,
			Highlights:      result.Summary.Highlights,
			Recommendations: result.Summary.Recommendations,
		},
		Metrics: result.Analysis,
		PDFPath: "/api/reports/" + filepath.Base(result.PDFPath),
	}
}
