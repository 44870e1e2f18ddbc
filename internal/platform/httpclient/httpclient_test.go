package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON_SendsHeadersAndDecodes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "assistants=v2", r.Header.Get("OpenAI-Beta"))
		assert.Equal(t, "/v1/threads", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"thread_1"}`))
	}))
	defer ts.Close()

	c, err := NewWithBaseURL(ts.URL+"/v1/", time.Second)
	require.NoError(t, err)
	c.WithBearer("sk-test")
	c.Headers["OpenAI-Beta"] = "assistants=v2"

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, c.DoJSON(context.Background(), http.MethodPost, "threads", map[string]any{}, &out))
	assert.Equal(t, "thread_1", out.ID)
}

func TestDoJSON_Non2xx_ReturnsHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := New(time.Second)
	err := c.DoJSON(context.Background(), http.MethodGet, ts.URL, nil, nil)
	require.Error(t, err)

	he, ok := IsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, he.StatusCode)
	assert.True(t, he.Retryable())
	assert.Contains(t, he.Body, "slow down")
}

func TestDoJSON_RelativeWithoutBaseURL(t *testing.T) {
	c := New(0)
	err := c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil)
	require.Error(t, err)
}
