package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model"})
}

func replyWith(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}
}

func TestCompleteSendsWholeTranscript(t *testing.T) {
	var got chatRequest
	var auth string
	c := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		replyWith("ok")(w, r)
	})

	transcript := []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
	}
	reply, err := c.Complete(context.Background(), transcript)
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, transcript, got.Messages)
	assert.False(t, got.Stream)
}

func TestCompleteQuotaError(t *testing.T) {
	c := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Complete(context.Background(), []Message{{Role: RoleSystem, Content: "s"}})
	var ce *CompletionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, KindQuota, ce.Kind)
}

func TestCompleteServiceError(t *testing.T) {
	c := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Complete(context.Background(), []Message{{Role: RoleSystem, Content: "s"}})
	var ce *CompletionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, KindNetwork, ce.Kind)
}

func TestCompleteMalformedBody(t *testing.T) {
	c := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := c.Complete(context.Background(), []Message{{Role: RoleSystem, Content: "s"}})
	var ce *CompletionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, KindMalformed, ce.Kind)
}

func TestCompleteEmptyChoices(t *testing.T) {
	c := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := c.Complete(context.Background(), []Message{{Role: RoleSystem, Content: "s"}})
	var ce *CompletionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, KindMalformed, ce.Kind)
}

func TestCompleteWithoutAPIKey(t *testing.T) {
	c := NewClient(Config{APIKey: ""})

	_, err := c.Complete(context.Background(), []Message{{Role: RoleSystem, Content: "s"}})
	var ce *CompletionError
	require.True(t, errors.As(err, &ce))
}
