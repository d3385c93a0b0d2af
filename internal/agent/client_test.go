package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/muralink/designchat/internal/config"
	"github.com/muralink/designchat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.AgentConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}, "test-token", zap.NewNop())
}

func jsonHandler(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

func TestClient_Chat(t *testing.T) {
	t.Run("extracts assistant reply by role", func(t *testing.T) {
		srv := httptest.NewServer(jsonHandler(http.StatusOK, map[string]any{
			"conversation": []map[string]any{
				{"role": "user", "content": "red sofa"},
				{"role": "assistant", "content": "A red sofa would look great."},
			},
		}))
		defer srv.Close()

		result, err := newTestClient(srv.URL).Chat(context.Background(), nil, "red sofa", "")
		require.NoError(t, err)
		assert.Equal(t, "A red sofa would look great.", result.AssistantText)
		assert.Empty(t, result.Products)
	})

	t.Run("extracts assistant reply by type discriminator", func(t *testing.T) {
		srv := httptest.NewServer(jsonHandler(http.StatusOK, map[string]any{
			"conversation": []map[string]any{
				{"type": "assistant", "content": "Here is an idea."},
			},
		}))
		defer srv.Close()

		result, err := newTestClient(srv.URL).Chat(context.Background(), nil, "hi", "")
		require.NoError(t, err)
		assert.Equal(t, "Here is an idea.", result.AssistantText)
	})

	t.Run("falls back to first entry", func(t *testing.T) {
		srv := httptest.NewServer(jsonHandler(http.StatusOK, map[string]any{
			"conversation": []map[string]any{
				{"role": "system", "content": "something unexpected"},
			},
		}))
		defer srv.Close()

		result, err := newTestClient(srv.URL).Chat(context.Background(), nil, "hi", "")
		require.NoError(t, err)
		assert.Equal(t, "something unexpected", result.AssistantText)
	})

	t.Run("falls back to apology on empty conversation", func(t *testing.T) {
		srv := httptest.NewServer(jsonHandler(http.StatusOK, map[string]any{}))
		defer srv.Close()

		result, err := newTestClient(srv.URL).Chat(context.Background(), nil, "hi", "")
		require.NoError(t, err)
		assert.Equal(t, apologyText, result.AssistantText)
	})

	t.Run("reads nested data shape", func(t *testing.T) {
		srv := httptest.NewServer(jsonHandler(http.StatusOK, map[string]any{
			"data": map[string]any{
				"conversation": []map[string]any{
					{"role": "assistant", "content": "nested reply"},
				},
			},
		}))
		defer srv.Close()

		result, err := newTestClient(srv.URL).Chat(context.Background(), nil, "hi", "")
		require.NoError(t, err)
		assert.Equal(t, "nested reply", result.AssistantText)
	})

	t.Run("keeps products when at least one has shopping results", func(t *testing.T) {
		srv := httptest.NewServer(jsonHandler(http.StatusOK, map[string]any{
			"conversation": []map[string]any{{"role": "assistant", "content": "ok"}},
			"products": []map[string]any{
				{"name": "lamp", "shopping_search": map[string]any{
					"results_count": 0, "search_query": "lamp", "shopping_results": []any{},
				}},
				{"name": "sofa", "shopping_search": map[string]any{
					"results_count": 1, "search_query": "red sofa",
					"shopping_results": []map[string]any{
						{"name": "Velvet Sofa", "price": "$499", "thumbnail": "t", "link": "l"},
					},
				}},
			},
		}))
		defer srv.Close()

		result, err := newTestClient(srv.URL).Chat(context.Background(), nil, "hi", "")
		require.NoError(t, err)
		require.Len(t, result.Products, 2)
		assert.Equal(t, "sofa", result.Products[1].Name)
	})

	t.Run("drops products when all shopping results are empty", func(t *testing.T) {
		srv := httptest.NewServer(jsonHandler(http.StatusOK, map[string]any{
			"conversation": []map[string]any{{"role": "assistant", "content": "ok"}},
			"products": []map[string]any{
				{"name": "lamp", "shopping_search": map[string]any{
					"results_count": 0, "search_query": "lamp", "shopping_results": []any{},
				}},
			},
		}))
		defer srv.Close()

		result, err := newTestClient(srv.URL).Chat(context.Background(), nil, "hi", "")
		require.NoError(t, err)
		assert.Empty(t, result.Products)
	})

	t.Run("401 surfaces as auth required", func(t *testing.T) {
		srv := httptest.NewServer(jsonHandler(http.StatusUnauthorized, map[string]any{}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).Chat(context.Background(), nil, "hi", "")
		assert.ErrorIs(t, err, domain.ErrAuthRequired)
	})

	t.Run("sends bearer token and request body", func(t *testing.T) {
		var gotAuth string
		var gotBody chatRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			json.NewDecoder(r.Body).Decode(&gotBody)
			jsonHandler(http.StatusOK, map[string]any{})(w, r)
		}))
		defer srv.Close()

		conversation := []domain.ChatContextEntry{
			{Role: domain.RoleUser, Content: domain.TextContent("earlier turn")},
		}
		_, err := newTestClient(srv.URL).Chat(context.Background(), conversation, "red sofa", "imgdata")
		require.NoError(t, err)
		assert.Equal(t, "Bearer test-token", gotAuth)
		assert.Equal(t, "red sofa", gotBody.UserPrompt)
		assert.Equal(t, "imgdata", gotBody.UserImage)
		require.Len(t, gotBody.Context, 1)
		assert.Equal(t, "earlier turn", gotBody.Context[0].Content.Text)
	})
}

func TestClient_BackupRetry(t *testing.T) {
	t.Run("retries against backup when enabled", func(t *testing.T) {
		backup := httptest.NewServer(jsonHandler(http.StatusOK, map[string]any{
			"conversation": []map[string]any{{"role": "assistant", "content": "from backup"}},
		}))
		defer backup.Close()

		client := NewClient(config.AgentConfig{
			BaseURL:   "http://127.0.0.1:1", // unreachable
			BackupURL: backup.URL,
			UseBackup: true,
			Timeout:   5 * time.Second,
		}, "", zap.NewNop())

		result, err := client.Chat(context.Background(), nil, "hi", "")
		require.NoError(t, err)
		assert.Equal(t, "from backup", result.AssistantText)
	})

	t.Run("does not retry when disabled", func(t *testing.T) {
		client := NewClient(config.AgentConfig{
			BaseURL:   "http://127.0.0.1:1",
			BackupURL: "http://127.0.0.1:2",
			UseBackup: false,
			Timeout:   time.Second,
		}, "", zap.NewNop())

		_, err := client.Chat(context.Background(), nil, "hi", "")
		assert.ErrorIs(t, err, domain.ErrAgentUnavailable)
	})

	t.Run("does not retry a 401", func(t *testing.T) {
		calls := 0
		primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer primary.Close()

		client := NewClient(config.AgentConfig{
			BaseURL:   primary.URL,
			BackupURL: primary.URL,
			UseBackup: true,
			Timeout:   time.Second,
		}, "", zap.NewNop())

		_, err := client.Chat(context.Background(), nil, "hi", "")
		assert.ErrorIs(t, err, domain.ErrAuthRequired)
		assert.Equal(t, 1, calls)
	})
}

func TestClient_GenerateImage(t *testing.T) {
	t.Run("returns image payload", func(t *testing.T) {
		var gotBody imageRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&gotBody)
			jsonHandler(http.StatusOK, map[string]any{"data": "base64image"})(w, r)
		}))
		defer srv.Close()

		data, err := newTestClient(srv.URL).GenerateImage(context.Background(), nil,
			"userphoto", []string{"https://example.com/thumb.jpg"})
		require.NoError(t, err)
		assert.Equal(t, "base64image", data)
		assert.Equal(t, "userphoto", gotBody.UserImage)
		assert.Equal(t, []string{"https://example.com/thumb.jpg"}, gotBody.ProductImageURLs)
	})

	t.Run("empty payload is an error", func(t *testing.T) {
		srv := httptest.NewServer(jsonHandler(http.StatusOK, map[string]any{}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).GenerateImage(context.Background(), nil, "p", nil)
		assert.Error(t, err)
	})
}
