package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pep299/webcrawl-agent/internal/document"
	"github.com/pep299/webcrawl-agent/internal/service"
	"github.com/pep299/webcrawl-agent/internal/transport/response"
)

const maxUploadBytes = 32 << 20

// AnalyzeText handles POST /api/analyze-text: summarize raw text with an
// optional document-type hint.
type AnalyzeText struct {
	agent *service.Agent
}

func NewAnalyzeText(agent *service.Agent) *AnalyzeText {
	return &AnalyzeText{agent: agent}
}

type analyzeTextRequest struct {
	Text         string `json:"text"`
	DocumentType string `json:"document_type"`
}

func (h *AnalyzeText) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req analyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		response.WriteBadRequest(w, "Text is required")
		return
	}
	if req.DocumentType == "" {
		req.DocumentType = "document"
	}

	result, err := h.agent.RunFromText(r.Context(), req.Text, req.DocumentType, nil)
	if err != nil {
		response.WriteInternalError(w, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, newAnalyzeResponse(result))
}

// AnalyzeDocument handles POST /api/analyze-document: extract text from
// an uploaded file, then run the text pipeline.
type AnalyzeDocument struct {
	agent *service.Agent
}

func NewAnalyzeDocument(agent *service.Agent) *AnalyzeDocument {
	return &AnalyzeDocument{agent: agent}
}

func (h *AnalyzeDocument) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.WriteBadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.WriteBadRequest(w, "A file upload named 'file' is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		response.WriteBadRequest(w, "Reading upload failed")
		return
	}

	text, err := document.ExtractText(header.Filename, content)
	if err != nil {
		response.WriteBadRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(text) == "" {
		response.WriteBadRequest(w, "File appears to be empty or could not be extracted")
		return
	}

	documentType := r.FormValue("document_type")
	if documentType == "" {
		documentType = "document"
	}

	result, err := h.agent.RunFromText(r.Context(), text, documentType, nil)
	if err != nil {
		response.WriteInternalError(w, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, newAnalyzeResponse(result))
}
