package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wukongmap/wukong-api/internal/config"
	"github.com/wukongmap/wukong-api/internal/domain"
	"github.com/wukongmap/wukong-api/internal/generation"
)

func testConfig(baseURL string) config.LLMConfig {
	return config.LLMConfig{
		APIKey:                "test-key",
		BaseURL:               baseURL,
		TextModel:             "google/gemini-3-pro-preview",
		ImageModel:            "google/gemini-3-pro-image-preview",
		ImageProvider:         "openrouter",
		RequestTimeoutSeconds: 5,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(testConfig(srv.URL), nil)
	require.NoError(t, err)
	return client, srv
}

func completionBody(t *testing.T, message map[string]any) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"id":     "gen-1",
		"object": "chat.completion",
		"choices": []map[string]any{
			{"index": 0, "message": message, "finish_reason": "stop"},
		},
	})
	require.NoError(t, err)
	return body
}

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.LLMConfig)
	}{
		{name: "missing api key", mutate: func(c *config.LLMConfig) { c.APIKey = "" }},
		{name: "missing base url", mutate: func(c *config.LLMConfig) { c.BaseURL = "" }},
		{name: "missing text model", mutate: func(c *config.LLMConfig) { c.TextModel = "" }},
		{name: "missing image model", mutate: func(c *config.LLMConfig) { c.ImageModel = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig("https://openrouter.example")
			tt.mutate(&cfg)

			_, err := NewClient(cfg, nil)
			assert.Error(t, err)
		})
	}
}

func TestGenerateContent_Success(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(completionBody(t, map[string]any{
			"role":    "assistant",
			"content": `{"title":"t","content":"c","imagePrompt":"p","tags":[]}`,
		}))
	})

	raw, err := client.GenerateContent(context.Background(), generation.TopicRequest{
		Topic:   "光合作用",
		Grade:   domain.GradeJunior2,
		Subject: domain.SubjectBiology,
	})
	require.NoError(t, err)
	assert.Contains(t, raw, `"title"`)

	// The request carries the fixed two-part prompt and tuning parameters.
	assert.Equal(t, "google/gemini-3-pro-preview", captured["model"])
	assert.InDelta(t, 0.7, captured["temperature"], 0.001)
	assert.EqualValues(t, 4000, captured["max_tokens"])

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	system := messages[0].(map[string]any)
	user := messages[1].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Contains(t, system["content"], "中学教育专家")
	assert.Equal(t, "user", user["role"])
	assert.Contains(t, user["content"], "主题：光合作用")
}

func TestGenerateContent_EmptyResponse(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(completionBody(t, map[string]any{
			"role":    "assistant",
			"content": "",
		}))
	})

	_, err := client.GenerateContent(context.Background(), generation.TopicRequest{Topic: "t"})
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrEmptyResponse)
}

func TestGenerateContent_UpstreamError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model overloaded"}}`, http.StatusInternalServerError)
	})

	_, err := client.GenerateContent(context.Background(), generation.TopicRequest{Topic: "t"})
	assert.Error(t, err)
}

func TestGenerateImage_Success(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(completionBody(t, map[string]any{
			"role":    "assistant",
			"content": "",
			"images": []map[string]any{
				{
					"type":      "image_url",
					"image_url": map[string]any{"url": "data:image/png;base64,iVBORw0KGgo="},
				},
			},
		}))
	})

	url, err := client.GenerateImage(context.Background(), "一株绿色植物在阳光下")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", url)

	// The prompt is wrapped with the style qualifier, and the image
	// modalities flag rides along in the request body.
	messages := captured["messages"].([]any)
	require.Len(t, messages, 1)
	content := messages[0].(map[string]any)["content"].(string)
	assert.Contains(t, content, "Educational illustration")
	assert.Contains(t, content, "一株绿色植物在阳光下")
	assert.Equal(t, []any{"image", "text"}, captured["modalities"])
}

func TestGenerateImage_NoImagePayload(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(completionBody(t, map[string]any{
			"role":    "assistant",
			"content": "I cannot generate images.",
		}))
	})

	_, err := client.GenerateImage(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrEmptyResponse)
}

func TestGenerateImage_UpstreamError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"no capacity"}}`, http.StatusServiceUnavailable)
	})

	// The client surfaces the failure; placeholder substitution is the
	// orchestrator's job.
	_, err := client.GenerateImage(context.Background(), "prompt")
	assert.Error(t, err)
}
