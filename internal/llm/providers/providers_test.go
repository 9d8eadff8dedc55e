package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser/internal/config"
)

func testConfig(provider, baseURL string) *config.Config {
	cfg := config.Default()
	cfg.LLM.Provider = provider
	cfg.LLM.Model = config.DefaultModel(provider)
	cfg.LLM.APIKey = "test-key"
	cfg.LLM.BaseURL = baseURL
	return cfg
}

func TestClaudeProvider_Generate(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_01", "type": "message", "role": "assistant", "model": "claude-3-7-sonnet-latest",
			"content": [{"type": "text", "text": "{\"summary\": \"x\"}"}],
			"stop_reason": "end_turn", "stop_sequence": null,
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`)
	}))
	defer server.Close()

	p := NewClaudeProvider(testConfig("claude", server.URL))
	text, err := p.Generate(context.Background(), "parse this resume")
	require.NoError(t, err)

	assert.Equal(t, `{"summary": "x"}`, text)
	assert.Equal(t, "claude-3-7-sonnet-latest", captured["model"])
	assert.EqualValues(t, 8192, captured["max_tokens"])
	messages := captured["messages"].([]interface{})
	require.Len(t, messages, 1)
	assert.Contains(t, mustJSON(t, messages[0]), "parse this resume")
	assert.Equal(t, "claude", p.GetProviderName())
}

func TestClaudeProvider_SingleAttemptOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`)
	}))
	defer server.Close()

	_, err := NewClaudeProvider(testConfig("claude", server.URL)).Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to call Claude API")
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestClaudeProvider_MissingKey(t *testing.T) {
	cfg := testConfig("claude", "http://127.0.0.1:1")
	cfg.LLM.APIKey = ""
	p := NewClaudeProvider(cfg)

	_, err := p.Generate(context.Background(), "prompt")
	assert.ErrorContains(t, err, "API key not configured")
	assert.ErrorContains(t, p.IsHealthy(context.Background()), "API key not configured")
}

func TestGeminiProvider_Generate(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.5-flash:generateContent"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "`+"```json\\n{\\\"summary\\\": \\\"x\\\"}\\n```"+`"}]}, "finishReason": "STOP"}]
		}`)
	}))
	defer server.Close()

	p := NewGeminiProvider(testConfig("gemini", server.URL))
	text, err := p.Generate(context.Background(), "parse this resume")
	require.NoError(t, err)

	assert.Equal(t, "```json\n{\"summary\": \"x\"}\n```", text)
	assert.Contains(t, mustJSON(t, captured["contents"]), "parse this resume")
	assert.Equal(t, "gemini", p.GetProviderName())
}

func TestGeminiProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error": {"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"}}`)
	}))
	defer server.Close()

	_, err := NewGeminiProvider(testConfig("gemini", server.URL)).Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to call Gemini API")
}

func TestGeminiProvider_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates": []}`)
	}))
	defer server.Close()

	_, err := NewGeminiProvider(testConfig("gemini", server.URL)).Generate(context.Background(), "prompt")
	assert.ErrorContains(t, err, "no text content in Gemini response")
}

func TestGeminiProvider_MissingKey(t *testing.T) {
	cfg := testConfig("gemini", "")
	cfg.LLM.APIKey = ""

	_, err := NewGeminiProvider(cfg).Generate(context.Background(), "prompt")
	assert.ErrorContains(t, err, "Gemini API key not configured")
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
