package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"petshop-crm/internal/ports/textgen"
)

// fakeAssistants simula threads/messages/runs. statuses se devuelve en orden
// en cada GET del run; el último se repite.
type fakeAssistants struct {
	statuses []string
	polls    atomic.Int32
	gotRun   createRunRequest
}

func (f *fakeAssistants) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/threads", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "assistants=v2", r.Header.Get("OpenAI-Beta"))
		writeJSON(w, map[string]any{"id": "thread_1"})
	})
	mux.HandleFunc("POST /v1/threads/thread_1/messages", func(w http.ResponseWriter, r *http.Request) {
		var m createMessageRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		assert.Equal(t, "user", m.Role)
		writeJSON(w, map[string]any{"id": "msg_1"})
	})
	mux.HandleFunc("POST /v1/threads/thread_1/runs", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.gotRun))
		writeJSON(w, map[string]any{"id": "run_1", "status": "queued"})
	})
	mux.HandleFunc("GET /v1/threads/thread_1/runs/run_1", func(w http.ResponseWriter, r *http.Request) {
		n := int(f.polls.Add(1)) - 1
		if n >= len(f.statuses) {
			n = len(f.statuses) - 1
		}
		writeJSON(w, map[string]any{"id": "run_1", "status": f.statuses[n]})
	})
	mux.HandleFunc("GET /v1/threads/thread_1/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "run_1", r.URL.Query().Get("run_id"))
		writeJSON(w, map[string]any{"data": []any{
			map[string]any{
				"role": "assistant",
				"content": []any{
					map[string]any{"type": "text", "text": map[string]any{"value": `{"sku":"RAC-1"}`}},
				},
			},
		}})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestAssistant(t *testing.T, url string, timeout time.Duration) *AssistantClient {
	t.Helper()
	c, err := NewAssistantClient(Config{
		BaseURL:         url + "/v1",
		APIKey:          "sk-test",
		AssistantID:     "asst_1",
		Timeout:         timeout,
		PollInterval:    5 * time.Millisecond,
		PollMaxInterval: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	return c
}

func TestAssistant_Complete_PollsUntilCompleted(t *testing.T) {
	defer goleak.VerifyNone(t)

	fake := &fakeAssistants{statuses: []string{"in_progress", "in_progress", "completed"}}
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	c := newTestAssistant(t, ts.URL, 2*time.Second)
	out, err := c.Complete(context.Background(), textgen.Request{System: "responda em JSON", Prompt: "Ração", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"sku":"RAC-1"}`, out)
	assert.Equal(t, int32(3), fake.polls.Load())
	assert.Equal(t, "asst_1", fake.gotRun.AssistantID)
	assert.Equal(t, "responda em JSON", fake.gotRun.AdditionalInstructions)
	require.NotNil(t, fake.gotRun.ResponseFormat)
}

func TestAssistant_Complete_FailedRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	for _, status := range []string{"failed", "cancelled", "expired"} {
		fake := &fakeAssistants{statuses: []string{status}}
		ts := httptest.NewServer(fake.handler(t))

		c := newTestAssistant(t, ts.URL, time.Second)
		_, err := c.Complete(context.Background(), textgen.Request{Prompt: "x"})
		assert.ErrorIs(t, err, textgen.ErrRemoteFailure, status)
		ts.Close()
	}
}

func TestAssistant_Complete_TimesOut(t *testing.T) {
	defer goleak.VerifyNone(t)

	fake := &fakeAssistants{statuses: []string{"in_progress"}}
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	c := newTestAssistant(t, ts.URL, 80*time.Millisecond)
	start := time.Now()
	_, err := c.Complete(context.Background(), textgen.Request{Prompt: "x"})
	assert.ErrorIs(t, err, textgen.ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
	assert.Greater(t, fake.polls.Load(), int32(1))
}

func TestAssistant_Complete_CallerCancelStopsPolling(t *testing.T) {
	defer goleak.VerifyNone(t)

	fake := &fakeAssistants{statuses: []string{"queued"}}
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	c := newTestAssistant(t, ts.URL, 10*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Complete(ctx, textgen.Request{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	assert.False(t, errors.Is(err, textgen.ErrTimeout))
	assert.Less(t, time.Since(start), time.Second)

	polls := fake.polls.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, polls, fake.polls.Load(), "polling continued after cancel")
}

func TestAssistant_Complete_RateLimited(t *testing.T) {
	defer goleak.VerifyNone(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limit"}}`, http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := newTestAssistant(t, ts.URL, time.Second)
	_, err := c.Complete(context.Background(), textgen.Request{Prompt: "x"})
	assert.ErrorIs(t, err, textgen.ErrRemoteService)
}

func TestNewAssistantClient_RequiresKeyAndAssistant(t *testing.T) {
	_, err := NewAssistantClient(Config{APIKey: "sk"})
	assert.ErrorIs(t, err, textgen.ErrNotConfigured)
	_, err = NewAssistantClient(Config{AssistantID: "asst"})
	assert.ErrorIs(t, err, textgen.ErrNotConfigured)
}
