// Package gemini implementa textgen.Completer con google.golang.org/genai.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"petshop-crm/internal/ports/textgen"
)

const (
	DefaultModel   = "gemini-2.5-flash"
	defaultTimeout = 30 * time.Second
)

type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// generator es el subconjunto de genai.Models que usamos.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models  generator
	model   string
	timeout time.Duration
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, textgen.ErrNotConfigured
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newWithGenerator(gc.Models, cfg), nil
}

func newWithGenerator(g generator, cfg Config) *Client {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{models: g, model: model, timeout: timeout}
}

func (c *Client) Complete(ctx context.Context, req textgen.Request) (string, error) {
	budget, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	temperature := float32(0.7)
	cfg := &genai.GenerateContentConfig{Temperature: &temperature}
	if s := strings.TrimSpace(req.System); s != "" {
		cfg.SystemInstruction = genai.NewContentFromText(s, genai.RoleUser)
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := c.models.GenerateContent(budget, c.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return "", ctx.Err()
		case errors.Is(budget.Err(), context.DeadlineExceeded):
			return "", fmt.Errorf("%w: generate content", textgen.ErrTimeout)
		default:
			return "", fmt.Errorf("%w: generate content: %v", textgen.ErrRemoteService, err)
		}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty response", textgen.ErrRemoteFailure)
	}
	return text, nil
}
