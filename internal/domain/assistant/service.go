// Package assistant envuelve el backend de texto para fichas de producto y mensajes de marketing.
// Nunca devuelve error al caller: ante cualquier falla usa un resultado de respaldo.
package assistant

import (
	"context"

	"petshop-crm/internal/platform/logger"
	"petshop-crm/internal/ports/textgen"
)

type Service struct {
	completer textgen.Completer
	log       logger.Logger
	suffix    func() string
}

func NewService(c textgen.Completer, log logger.Logger) *Service {
	if c == nil {
		c = textgen.Disabled{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		completer: c,
		log:       log.With(map[string]any{"module": "assistant"}),
		suffix:    randomSuffix,
	}
}

func (s *Service) GenerateProductInfo(ctx context.Context, req ProductRequest) ProductInfo {
	text, err := s.completer.Complete(ctx, textgen.Request{
		System: productSystemPrompt,
		Prompt: productPrompt(req),
		JSON:   true,
	})
	if err != nil {
		s.log.Warn("product info fallback", map[string]any{"product": req.Name, "error": err})
		return fallbackProductInfo(req, s.suffix())
	}

	obj, err := parseObject(text)
	if err != nil {
		s.log.Warn("product info fallback", map[string]any{"product": req.Name, "error": err})
		return fallbackProductInfo(req, s.suffix())
	}
	return validateProductInfo(obj, req, s.suffix())
}

func (s *Service) GenerateMarketingMessage(ctx context.Context, req MessageRequest) Message {
	text, err := s.completer.Complete(ctx, textgen.Request{
		System: marketingSystemPrompt,
		Prompt: marketingPrompt(req),
	})
	if err != nil {
		s.log.Warn("marketing message fallback", map[string]any{"pet": req.PetName, "error": err})
		return Message{Text: fallbackMessage(req)}
	}

	msg := sanitizeMessage(text)
	if msg == "" {
		s.log.Warn("marketing message fallback", map[string]any{"pet": req.PetName, "reason": "empty output"})
		return Message{Text: fallbackMessage(req)}
	}
	return Message{Text: msg, AIGenerated: true}
}
