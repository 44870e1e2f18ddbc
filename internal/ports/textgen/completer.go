// Package textgen define el puerto hacia el backend de generación de texto.
package textgen

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured: no hay backend configurado (AI_PROVIDER=none o falta la API key).
	ErrNotConfigured = errors.New("text generation not configured")
	// ErrRemoteService: backend inalcanzable, rate limit o status no-2xx.
	ErrRemoteService = errors.New("text generation service error")
	// ErrRemoteFailure: el job remoto terminó en failed, cancelled o expired.
	ErrRemoteFailure = errors.New("text generation job failed")
	// ErrTimeout: se agotó el presupuesto de polling.
	ErrTimeout = errors.New("text generation timed out")
)

type Request struct {
	System string
	Prompt string
	// JSON pide al backend una respuesta en formato objeto JSON cuando lo soporta.
	JSON bool
}

type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Disabled es el Completer de AI_PROVIDER=none.
type Disabled struct{}

func (Disabled) Complete(context.Context, Request) (string, error) {
	return "", ErrNotConfigured
}
