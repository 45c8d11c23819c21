package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pep299/webcrawl-agent/internal/crawler"
	"github.com/pep299/webcrawl-agent/internal/report"
)

// grokClient wraps the x.ai chat completions API, which speaks the
// OpenAI wire format.
type grokClient struct {
	apiKey           string
	model            string
	baseURL          string
	maxContentTokens int
	httpClient       *http.Client
}

func newGrokClient(apiKey, model string, maxContentTokens int) *grokClient {
	return &grokClient{
		apiKey:           apiKey,
		model:            model,
		baseURL:          "https://api.x.ai/v1",
		maxContentTokens: maxContentTokens,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type grokRequest struct {
	Model          string           `json:"model"`
	Messages       []grokMessage    `json:"messages"`
	Temperature    float64          `json:"temperature"`
	MaxTokens      int              `json:"max_tokens"`
	ResponseFormat grokResponseType `json:"response_format"`
}

type grokMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type grokResponseType struct {
	Type string `json:"type"`
}

type grokResponse struct {
	Choices []struct {
		Message      grokMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

type grokErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *grokClient) SummarizeSite(ctx context.Context, crawl *crawler.Result, analysis crawler.AnalysisSummary) (*report.SiteSummary, error) {
	if err := c.checkCredential(); err != nil {
		return nil, err
	}
	text, err := c.complete(ctx, buildSitePrompt(crawl, analysis, c.maxContentTokens), 1024)
	if err != nil {
		return nil, err
	}
	parsed, err := ParseSummaryText(text)
	if err != nil {
		return nil, err
	}
	return report.FromLLMPayload(parsed), nil
}

func (c *grokClient) SummarizeText(ctx context.Context, text, documentType string) (*report.SiteSummary, error) {
	if err := c.checkCredential(); err != nil {
		return nil, err
	}
	output, err := c.complete(ctx, buildTextPrompt(text, documentType), 4096)
	if err != nil {
		return nil, err
	}
	parsed, err := ParseSummaryText(output)
	if err != nil {
		return nil, err
	}
	return report.FromLLMPayload(parsed), nil
}

func (c *grokClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *grokClient) checkCredential() error {
	if strings.TrimSpace(c.apiKey) == "" {
		return &ConfigurationError{
			Provider: "Grok",
			Message:  "set GROK_API_KEY in your environment or .env file",
		}
	}
	return nil
}

func (c *grokClient) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(grokRequest{
		Model: c.model,
		Messages: []grokMessage{
			{Role: "user", Content: prompt},
		},
		Temperature:    0.3,
		MaxTokens:      maxTokens,
		ResponseFormat: grokResponseType{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ContentError{
			Message: "Grok API error: " + readGrokErrorDetail(resp),
			Status:  resp.StatusCode,
		}
	}

	var grokResp grokResponse
	if err := json.NewDecoder(resp.Body).Decode(&grokResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	for _, choice := range grokResp.Choices {
		if choice.Message.Content != "" {
			return choice.Message.Content, nil
		}
	}

	message := "Grok response had no message content"
	if len(grokResp.Choices) > 0 && grokResp.Choices[0].FinishReason != "" {
		message = fmt.Sprintf("%s (finish_reason=%s)", message, grokResp.Choices[0].FinishReason)
	}
	return "", &ContentError{Message: message}
}

func readGrokErrorDetail(resp *http.Response) string {
	bodyBytes, _ := io.ReadAll(resp.Body)

	var errBody grokErrorBody
	if err := json.Unmarshal(bodyBytes, &errBody); err == nil && errBody.Error.Message != "" {
		return errBody.Error.Message
	}
	if detail := strings.TrimSpace(string(bodyBytes)); detail != "" {
		return detail
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}
