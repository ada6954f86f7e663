package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLLMEncourager(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "  \"Keep going, Ravi! Every smoke-free hour counts.\"  ")
	enc := NewLLMEncourager("test-key", srv.URL, "test-model", time.Second)

	text, err := enc.Encouragement(context.Background(), "Asha", "Ravi", true)
	require.NoError(t, err)
	assert.Equal(t, "Keep going, Ravi! Every smoke-free hour counts.", text)
}

func TestLLMEncouragerUpstreamError(t *testing.T) {
	srv := chatServer(t, http.StatusInternalServerError, "")
	enc := NewLLMEncourager("test-key", srv.URL, "test-model", time.Second)

	_, err := enc.Encouragement(context.Background(), "Asha", "Ravi", false)
	assert.Error(t, err)
}

func TestLLMEncouragerEmptyReply(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "\"\"")
	enc := NewLLMEncourager("test-key", srv.URL, "test-model", time.Second)

	_, err := enc.Encouragement(context.Background(), "Asha", "Ravi", false)
	assert.Error(t, err)
}

func TestCleanEncouragementTruncates(t *testing.T) {
	long := strings.Repeat("🌱", maxEncouragementRunes+10)
	assert.Len(t, []rune(cleanEncouragement(long)), maxEncouragementRunes)
	assert.Equal(t, "hi", cleanEncouragement("'hi'"))
}
