package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pep299/webcrawl-agent/internal/crawler"
)

func testCrawlData() (*crawler.Result, crawler.AnalysisSummary) {
	result := &crawler.Result{
		RootURL: "https://example.com",
		Pages: []crawler.Page{
			{URL: "https://example.com", Title: "Example", Text: "Example body text", WordCount: 3, Status: 200},
		},
	}
	return result, crawler.Analyze(result)
}

func newTestGeminiClient(t *testing.T, handler http.HandlerFunc) *geminiClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := newGeminiClient("test-key", "test-model", 1000)
	client.baseURL = server.URL
	return client
}

func TestGeminiSummarizeSiteSuccess(t *testing.T) {
	var gotPath string
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text":
				"{\"overview\": \"An example site.\", \"content_type\": \"website\", \"sections\": {\"highlights\": [\"simple\"]}}"
			}]}}]
		}`))
	})

	crawl, analysis := testCrawlData()
	summary, err := client.SummarizeSite(context.Background(), crawl, analysis)
	require.NoError(t, err)
	assert.Equal(t, "/test-model:generateContent", gotPath)
	assert.Equal(t, "An example site.", summary.Overview)
	assert.Equal(t, "website", summary.ContentType)
	assert.Equal(t, []string{"simple"}, summary.Sections["highlights"])
}

func TestGeminiMissingCredential(t *testing.T) {
	client := newGeminiClient("", "test-model", 1000)

	crawl, analysis := testCrawlData()
	_, err := client.SummarizeSite(context.Background(), crawl, analysis)
	require.Error(t, err)

	var configErr *ConfigurationError
	require.True(t, errors.As(err, &configErr))
	assert.Contains(t, configErr.Error(), "GEMINI_API_KEY")
}

func TestGeminiRateLimited(t *testing.T) {
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "Resource has been exhausted"}}`))
	})

	crawl, analysis := testCrawlData()
	_, err := client.SummarizeSite(context.Background(), crawl, analysis)
	require.Error(t, err)

	var contentErr *ContentError
	require.True(t, errors.As(err, &contentErr))
	assert.Equal(t, http.StatusTooManyRequests, contentErr.Status)
	assert.Contains(t, contentErr.Message, "Resource has been exhausted")
}

func TestGeminiNoCandidates(t *testing.T) {
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	})

	crawl, analysis := testCrawlData()
	_, err := client.SummarizeSite(context.Background(), crawl, analysis)
	require.Error(t, err)

	var contentErr *ContentError
	require.True(t, errors.As(err, &contentErr))
	assert.Contains(t, contentErr.Message, "no candidates")
}

func TestGeminiSafetyFiltered(t *testing.T) {
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"candidates": [{"content": {"parts": []}, "finishReason": "SAFETY"}],
			"promptFeedback": {"blockReason": "OTHER"}
		}`))
	})

	_, err := client.SummarizeText(context.Background(), "some text", "document")
	require.Error(t, err)

	var contentErr *ContentError
	require.True(t, errors.As(err, &contentErr))
	assert.Contains(t, contentErr.Message, "finishReason=SAFETY")
	assert.Contains(t, contentErr.Message, "blockReason=OTHER")
}

func TestGeminiTransportFailureIsNotRecoverable(t *testing.T) {
	client := newGeminiClient("test-key", "test-model", 1000)
	client.baseURL = "http://127.0.0.1:1"

	crawl, analysis := testCrawlData()
	_, err := client.SummarizeSite(context.Background(), crawl, analysis)
	require.Error(t, err)
	assert.False(t, IsRecoverable(err))
}

func TestGeminiTruncatedResponseRecovered(t *testing.T) {
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text":
				"{\"overview\": \"Cut off mid\", \"content_type\": \"article\", \"sections\": {\"points\": [\"one\""
			}]}, "finishReason": "MAX_TOKENS"}]
		}`))
	})

	summary, err := client.SummarizeText(context.Background(), "long text", "article")
	require.NoError(t, err)
	assert.Equal(t, "Cut off mid", summary.Overview)
	assert.Equal(t, "article", summary.ContentType)
	assert.Equal(t, []string{"one"}, summary.Sections["points"])
}
