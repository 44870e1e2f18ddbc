// Package openai implementa textgen.Completer sobre la API HTTP de OpenAI.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"petshop-crm/internal/platform/httpclient"
	"petshop-crm/internal/ports/textgen"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string // solo ChatClient
	AssistantID string // solo AssistantClient

	// Timeout es el presupuesto total de una llamada, polling incluido.
	Timeout         time.Duration
	PollInterval    time.Duration
	PollMaxInterval time.Duration

	// HTTPClient opcional (tests).
	HTTPClient *http.Client
}

func newHTTP(cfg Config) (*httpclient.Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	c, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	if cfg.HTTPClient != nil {
		c.HTTP = cfg.HTTPClient
	}
	c.WithBearer(cfg.APIKey)
	return c, nil
}

// remoteErr clasifica errores de transporte. Si el presupuesto propio venció
// devuelve ErrTimeout; si el caller canceló, su error tal cual.
func remoteErr(caller, budget context.Context, op string, err error) error {
	if caller.Err() != nil {
		return caller.Err()
	}
	if budget != nil && errors.Is(budget.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", textgen.ErrTimeout, op)
	}
	if he, ok := httpclient.IsHTTPError(err); ok {
		return fmt.Errorf("%w: %s: status=%d retryable=%t", textgen.ErrRemoteService, op, he.StatusCode, he.Retryable())
	}
	return fmt.Errorf("%w: %s: %v", textgen.ErrRemoteService, op, err)
}
