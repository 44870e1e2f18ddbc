package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"petshop-crm/internal/platform/httpclient"
	"petshop-crm/internal/ports/textgen"
)

// ChatClient usa /chat/completions (síncrono).
type ChatClient struct {
	http  *httpclient.Client
	model string
	cfg   Config
}

func NewChatClient(cfg Config) (*ChatClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, textgen.ErrNotConfigured
	}
	hc, err := newHTTP(cfg)
	if err != nil {
		return nil, err
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	return &ChatClient{http: hc, model: model, cfg: cfg}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

func (c *ChatClient) Complete(ctx context.Context, req textgen.Request) (string, error) {
	budget, cancel := withBudget(ctx, c.cfg.Timeout)
	defer cancel()

	body := chatRequest{Model: c.model, Temperature: 0.7}
	if s := strings.TrimSpace(req.System); s != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: s})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.Prompt})
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var out chatResponse
	if err := c.http.DoJSON(budget, http.MethodPost, "chat/completions", body, &out); err != nil {
		return "", remoteErr(ctx, budget, "chat completion", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: empty completion", textgen.ErrRemoteFailure)
	}
	return out.Choices[0].Message.Content, nil
}
