package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petshop-crm/internal/ports/textgen"
)

func TestChat_Complete(t *testing.T) {
	var got chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, map[string]any{"choices": []any{
			map[string]any{"message": map[string]any{"role": "assistant", "content": `{"ok":true}`}},
		}})
	}))
	defer ts.Close()

	c, err := NewChatClient(Config{BaseURL: ts.URL + "/v1", APIKey: "sk-test", Model: "gpt-test", Timeout: time.Second})
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), textgen.Request{System: "sys", Prompt: "hola", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)

	assert.Equal(t, "gpt-test", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "hola", got.Messages[1].Content)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestChat_Complete_Errors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	c, err := NewChatClient(Config{BaseURL: ts.URL, APIKey: "sk-test", Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), textgen.Request{Prompt: "x"})
	assert.ErrorIs(t, err, textgen.ErrRemoteService)

	_, err = NewChatClient(Config{})
	assert.ErrorIs(t, err, textgen.ErrNotConfigured)
}

func TestChat_Complete_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"choices": []any{}})
	}))
	defer ts.Close()

	c, err := NewChatClient(Config{BaseURL: ts.URL, APIKey: "sk-test", Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), textgen.Request{Prompt: "x"})
	assert.ErrorIs(t, err, textgen.ErrRemoteFailure)
}
