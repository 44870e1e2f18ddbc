package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"petshop-crm/internal/platform/httpclient"
	"petshop-crm/internal/ports/textgen"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultPollInterval    = 500 * time.Millisecond
	defaultPollMaxInterval = 2 * time.Second
)

// AssistantClient usa la API de Assistants: thread -> message -> run -> polling -> messages.
type AssistantClient struct {
	http        *httpclient.Client
	assistantID string

	timeout     time.Duration
	pollEvery   time.Duration
	pollMaxWait time.Duration
}

func NewAssistantClient(cfg Config) (*AssistantClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.AssistantID) == "" {
		return nil, textgen.ErrNotConfigured
	}
	hc, err := newHTTP(cfg)
	if err != nil {
		return nil, err
	}
	hc.Headers["OpenAI-Beta"] = "assistants=v2"

	c := &AssistantClient{
		http:        hc,
		assistantID: strings.TrimSpace(cfg.AssistantID),
		timeout:     cfg.Timeout,
		pollEvery:   cfg.PollInterval,
		pollMaxWait: cfg.PollMaxInterval,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.pollEvery <= 0 {
		c.pollEvery = defaultPollInterval
	}
	if c.pollMaxWait < c.pollEvery {
		c.pollMaxWait = max(defaultPollMaxInterval, c.pollEvery)
	}
	return c, nil
}

type idResponse struct {
	ID string `json:"id"`
}

type createMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type createRunRequest struct {
	AssistantID            string          `json:"assistant_id"`
	AdditionalInstructions string          `json:"additional_instructions,omitempty"`
	ResponseFormat         *responseFormat `json:"response_format,omitempty"`
}

type runResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	LastError *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"last_error"`
}

type messagesResponse struct {
	Data []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
}

func (c *AssistantClient) Complete(ctx context.Context, req textgen.Request) (string, error) {
	budget, cancel := withBudget(ctx, c.timeout)
	defer cancel()

	var thread idResponse
	if err := c.http.DoJSON(budget, http.MethodPost, "threads", map[string]any{}, &thread); err != nil {
		return "", remoteErr(ctx, budget, "create thread", err)
	}
	threadPath := "threads/" + url.PathEscape(thread.ID)

	msg := createMessageRequest{Role: "user", Content: req.Prompt}
	if err := c.http.DoJSON(budget, http.MethodPost, threadPath+"/messages", msg, nil); err != nil {
		return "", remoteErr(ctx, budget, "add message", err)
	}

	runReq := createRunRequest{
		AssistantID:            c.assistantID,
		AdditionalInstructions: strings.TrimSpace(req.System),
	}
	if req.JSON {
		runReq.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	var run runResponse
	if err := c.http.DoJSON(budget, http.MethodPost, threadPath+"/runs", runReq, &run); err != nil {
		return "", remoteErr(ctx, budget, "create run", err)
	}

	if err := c.waitRun(ctx, budget, threadPath, run); err != nil {
		return "", err
	}

	var msgs messagesResponse
	q := url.Values{"order": {"desc"}, "limit": {"1"}, "run_id": {run.ID}}
	if err := c.http.DoJSON(budget, http.MethodGet, threadPath+"/messages?"+q.Encode(), nil, &msgs); err != nil {
		return "", remoteErr(ctx, budget, "list messages", err)
	}
	for _, m := range msgs.Data {
		if m.Role != "assistant" {
			continue
		}
		var b strings.Builder
		for _, part := range m.Content {
			if part.Type == "text" {
				b.WriteString(part.Text.Value)
			}
		}
		if b.Len() > 0 {
			return b.String(), nil
		}
	}
	return "", fmt.Errorf("%w: run %s produced no text", textgen.ErrRemoteFailure, run.ID)
}

// waitRun hace polling con backoff x1.5 hasta pollMaxWait. Corta en cuanto
// el caller cancela o vence el presupuesto; no deja goroutines.
func (c *AssistantClient) waitRun(ctx, budget context.Context, threadPath string, run runResponse) error {
	interval := c.pollEvery
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		done, err := runOutcome(run)
		if done || err != nil {
			return err
		}

		select {
		case <-budget.Done():
			return remoteErr(ctx, budget, "poll run", budget.Err())
		case <-timer.C:
		}

		if err := c.http.DoJSON(budget, http.MethodGet, threadPath+"/runs/"+url.PathEscape(run.ID), nil, &run); err != nil {
			return remoteErr(ctx, budget, "get run", err)
		}

		interval = min(interval*3/2, c.pollMaxWait)
		timer.Reset(interval)
	}
}

// runOutcome: (true, nil) completed; (false, nil) sigue en curso.
func runOutcome(run runResponse) (bool, error) {
	switch run.Status {
	case "completed":
		return true, nil
	case "failed", "cancelled", "expired", "incomplete":
		reason := run.Status
		if run.LastError != nil && run.LastError.Message != "" {
			reason += ": " + run.LastError.Message
		}
		return false, fmt.Errorf("%w: run %s %s", textgen.ErrRemoteFailure, run.ID, reason)
	case "requires_action":
		// El asistente no tiene tools registradas.
		return false, fmt.Errorf("%w: run %s requires action", textgen.ErrRemoteFailure, run.ID)
	default:
		return false, nil
	}
}

func withBudget(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(ctx, d)
}
