package handler

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pep299/webcrawl-agent/internal/service"
	"github.com/pep299/webcrawl-agent/internal/transport/response"
)

// Analyze handles POST /api/analyze: crawl a site and return its summary.
type Analyze struct {
	agent *service.Agent
}

func NewAnalyze(agent *service.Agent) *Analyze {
	return &Analyze{agent: agent}
}

type analyzeRequest struct {
	URL string `json:"url"`
}

func (h *Analyze) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if !validHTTPURL(req.URL) {
		response.WriteBadRequest(w, "A valid http(s) URL is required")
		return
	}

	result, err := h.agent.Run(r.Context(), req.URL, nil)
	if err != nil {
		response.WriteInternalError(w, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, newAnalyzeResponse(result))
}

func validHTTPURL(raw string) bool {
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
