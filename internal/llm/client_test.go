package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)

func newTestClient(serverURL string) *Client {
	c := NewClient("test-key", "")
	c.apiURL = serverURL
	return c
}

func chatReply(content string) string {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestExtractEvent(t *testing.T) {
	var captured struct {
		auth string
		body chatRequest
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatReply(`{"title":"Созвон с Петром","start_datetime":"2026-02-13T15:30:00+02:00","end_datetime":null,"duration_minutes":45,"notes":null}`)))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	candidate, err := client.ExtractEvent(context.Background(), "Созвон с Петром завтра в 15:30 на 45 минут", testNow)
	require.NoError(t, err)

	assert.Equal(t, "Созвон с Петром", candidate.Title)
	assert.Equal(t, "2026-02-13T15:30:00+02:00", candidate.StartDatetime)
	assert.Empty(t, candidate.EndDatetime)
	assert.Equal(t, 45, candidate.DurationMinutes)

	assert.Equal(t, "Bearer test-key", captured.auth)
	assert.Equal(t, defaultModel, captured.body.Model)
	require.Len(t, captured.body.Messages, 2)
	assert.Equal(t, "system", captured.body.Messages[0].Role)
	assert.Contains(t, captured.body.Messages[1].Content, "Созвон с Петром")
	assert.Contains(t, captured.body.Messages[1].Content, "2026-02-12")
	assert.Zero(t, captured.body.Temperature)
}

func TestExtractEventToleratesWrappedOutput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "markdown fenced",
			content: "```json\n{\"title\":\"Обед\",\"duration_minutes\":30}\n```",
		},
		{
			name:    "surrounding prose",
			content: "Вот результат: {\"title\":\"Обед\",\"duration_minutes\":30} — готово.",
		},
		{
			name:    "trailing comma repaired",
			content: "{\"title\":\"Обед\",\"duration_minutes\":30,}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(chatReply(tt.content)))
			}))
			defer server.Close()

			candidate, err := newTestClient(server.URL).ExtractEvent(context.Background(), "обед", testNow)
			require.NoError(t, err)

			assert.Equal(t, "Обед", candidate.Title)
			assert.Equal(t, 30, candidate.DurationMinutes)
		})
	}
}

func TestExtractEventErrors(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"type":"rate_limit_exceeded","message":"slow down"}}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).ExtractEvent(context.Background(), "обед", testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("api error payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad model"}}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).ExtractEvent(context.Background(), "обед", testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid_request_error")
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).ExtractEvent(context.Background(), "обед", testNow)
		require.Error(t, err)
	})

	t.Run("unusable content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(chatReply("не могу распарсить это сообщение")))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).ExtractEvent(context.Background(), "обед", testNow)
		require.Error(t, err)
	})
}

func TestIsConfigured(t *testing.T) {
	assert.True(t, NewClient("key", "").IsConfigured())
	assert.False(t, NewClient("", "").IsConfigured())
}
