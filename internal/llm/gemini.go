package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pep299/webcrawl-agent/internal/crawler"
	"github.com/pep299/webcrawl-agent/internal/report"
)

const requestTimeout = 50 * time.Second

// geminiClient wraps the Gemini generateContent REST API.
type geminiClient struct {
	apiKey           string
	model            string
	baseURL          string
	maxContentTokens int
	httpClient       *http.Client
}

func newGeminiClient(apiKey, model string, maxContentTokens int) *geminiClient {
	return &geminiClient{
		apiKey:           apiKey,
		model:            model,
		baseURL:          "https://generativelanguage.googleapis.com/v1beta/models",
		maxContentTokens: maxContentTokens,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature      float64                `json:"temperature"`
	TopP             float64                `json:"topP"`
	MaxOutputTokens  int                    `json:"maxOutputTokens"`
	ResponseMimeType string                 `json:"responseMimeType"`
	ResponseSchema   map[string]interface{} `json:"responseSchema,omitempty"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// summarySchema constrains site summaries. Text summaries skip it because
// the schema language cannot express model-chosen section keys.
var summarySchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"overview":     map[string]interface{}{"type": "string"},
		"content_type": map[string]interface{}{"type": "string"},
		"sections": map[string]interface{}{
			"type": "object",
			"additionalProperties": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
		},
	},
	"required": []string{"overview", "content_type", "sections"},
}

func (c *geminiClient) SummarizeSite(ctx context.Context, crawl *crawler.Result, analysis crawler.AnalysisSummary) (*report.SiteSummary, error) {
	if err := c.checkCredential(); err != nil {
		return nil, err
	}
	text, err := c.generate(ctx, buildSitePrompt(crawl, analysis, c.maxContentTokens), geminiGenerationConfig{
		Temperature:      0.3,
		TopP:             0.95,
		MaxOutputTokens:  1024,
		ResponseMimeType: "application/json",
		ResponseSchema:   summarySchema,
	})
	if err != nil {
		return nil, err
	}
	parsed, err := ParseSummaryText(text)
	if err != nil {
		return nil, err
	}
	return report.FromLLMPayload(parsed), nil
}

func (c *geminiClient) SummarizeText(ctx context.Context, text, documentType string) (*report.SiteSummary, error) {
	if err := c.checkCredential(); err != nil {
		return nil, err
	}
	output, err := c.generate(ctx, buildTextPrompt(text, documentType), geminiGenerationConfig{
		Temperature:      0.3,
		TopP:             0.95,
		MaxOutputTokens:  4096,
		ResponseMimeType: "application/json",
	})
	if err != nil {
		return nil, err
	}
	parsed, err := ParseSummaryText(output)
	if err != nil {
		return nil, err
	}
	return report.FromLLMPayload(parsed), nil
}

func (c *geminiClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *geminiClient) checkCredential() error {
	if strings.TrimSpace(c.apiKey) == "" {
		return &ConfigurationError{
			Provider: "Gemini",
			Message:  "set GEMINI_API_KEY in your environment or .env file",
		}
	}
	return nil
}

// generate sends one request and returns the first non-empty text part.
func (c *geminiClient) generate(ctx context.Context, prompt string, config geminiGenerationConfig) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: config,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ContentError{
			Message: "Gemini API error: " + readErrorDetail(resp),
			Status:  resp.StatusCode,
		}
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return extractGeminiText(geminiResp)
}

// readErrorDetail mines the most specific message out of an error body.
func readErrorDetail(resp *http.Response) string {
	bodyBytes, _ := io.ReadAll(resp.Body)

	var errBody geminiErrorBody
	if err := json.Unmarshal(bodyBytes, &errBody); err == nil && errBody.Error.Message != "" {
		return errBody.Error.Message
	}
	if detail := strings.TrimSpace(string(bodyBytes)); detail != "" {
		return detail
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}

// extractGeminiText returns the first non-empty part across candidates.
// Safety filtering leaves candidates without text; that is a content
// rejection, not a transport failure.
func extractGeminiText(resp geminiResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &ContentError{Message: "Gemini returned no candidates"}
	}

	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}

	var details []string
	if reason := resp.Candidates[0].FinishReason; reason != "" {
		details = append(details, "finishReason="+reason)
	}
	if reason := resp.PromptFeedback.BlockReason; reason != "" {
		details = append(details, "blockReason="+reason)
	}
	message := "Gemini response had no text part"
	if len(details) > 0 {
		message = fmt.Sprintf("%s (%s)", message, strings.Join(details, ", "))
	}
	return "", &ContentError{Message: message}
}
