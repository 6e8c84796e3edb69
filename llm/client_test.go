package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortform-studio/config"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanJSON(tt.in))
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("LLM_API_KEY", "test-key")

	return New(config.LLMConfig{
		BaseURL:     srv.URL,
		Model:       "test-model",
		Temperature: 0.5,
		MaxTokens:   256,
	})
}

func TestCompleteSendsMessagesAndReturnsReply(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "  hello there  "}},
			},
		})
	})

	got, err := client.Complete(context.Background(), "be brief", "say hello")
	require.NoError(t, err)
	assert.Equal(t, "hello there", got)
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limit exceeded"},
		})
	})

	_, err := client.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestCompleteJSONToleratesFences(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "```json\n{\"scenes\":[\"a\",\"b\"]}\n```"}},
			},
		})
	})

	var out struct {
		Scenes []string `json:"scenes"`
	}
	require.NoError(t, client.CompleteJSON(context.Background(), "s", "u", &out))
	assert.Equal(t, []string{"a", "b"}, out.Scenes)
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")
	client := New(config.LLMConfig{BaseURL: "http://localhost:1"})

	_, err := client.Complete(context.Background(), "s", "u")
	assert.ErrorContains(t, err, "LLM_API_KEY")
}
