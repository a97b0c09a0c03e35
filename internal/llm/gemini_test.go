package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// rewriteTransport sends every request to target, keeping path and query.
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	req.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestGeminiSDKClient(t *testing.T, handler http.HandlerFunc) GeminiSDKClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	client, err := NewGeminiClient(context.Background(), "test-key", "",
		option.WithHTTPClient(&http.Client{Transport: rewriteTransport{target: target}}))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestGeminiSDKClientGenerateContent(t *testing.T) {
	var got geminiRequest
	client := newTestGeminiSDKClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/"+DefaultGeminiModel+":generateContent"), r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "{\"lunch\":{}}"}], "role": "model"}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 5, "candidatesTokenCount": 7, "totalTokenCount": 12}
		}`))
	})

	resp, err := client.GenerateContent(context.Background(), "plan my day")
	require.NoError(t, err)

	require.Len(t, got.Contents, 1)
	require.Len(t, got.Contents[0].Parts, 1)
	assert.Equal(t, "plan my day", got.Contents[0].Parts[0].Text)

	assert.Equal(t, `{"lunch":{}}`, resp.Content)
	assert.Equal(t, 5, resp.Usage.PromptTokens)
	assert.Equal(t, 7, resp.Usage.CompletionTokens)
	assert.Equal(t, 12, resp.Usage.TotalTokens)
	assert.Equal(t, DefaultGeminiModel, resp.Usage.Model)
}

func TestGeminiSDKClientNoCandidates(t *testing.T) {
	client := newTestGeminiSDKClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"usageMetadata": {"promptTokenCount": 3, "totalTokenCount": 3}}`))
	})

	resp, err := client.GenerateContent(context.Background(), "p")
	require.NoError(t, err)
	assert.Empty(t, resp.Content)
	assert.Equal(t, 3, resp.Usage.TotalTokens)
}

func TestGeminiSDKClientError(t *testing.T) {
	var calls atomic.Int32
	client := newTestGeminiSDKClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`))
	})

	_, err := client.GenerateContent(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate content")
	assert.Equal(t, int32(1), calls.Load(), "client errors are not retried")
}
