package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"petshop-crm/internal/adapters/auth/mock"
	"petshop-crm/internal/adapters/auth/session"
	"petshop-crm/internal/adapters/textgen/gemini"
	"petshop-crm/internal/adapters/textgen/openai"
	"petshop-crm/internal/config"
	"petshop-crm/internal/platform/logger"
	"petshop-crm/internal/ports/auth"
	"petshop-crm/internal/ports/textgen"
	"petshop-crm/internal/router"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Arranca el servidor HTTP",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer syncLogger(log)

	if err := config.LogMasked(log, &cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	resolver, revoker, err := newResolver(cfg)
	if err != nil {
		return err
	}
	completer, err := newCompleter(ctx, cfg, log)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	h, err := router.NewRouter(router.Options{
		DB:                  db,
		Resolver:            resolver,
		Revoker:             revoker,
		SessionCookie:       cfg.Auth.SessionCookie,
		Completer:           completer,
		Location:            loc,
		PublicBaseURL:       cfg.PublicBaseURL,
		OwnerOpenID:         cfg.Auth.OwnerOpenID,
		LoginMethod:         cfg.Auth.Mode,
		WhatsAppCountryCode: cfg.Marketing.WhatsAppCountryCode,
		Logger:              log,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      h,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "db_driver": cfg.DB.Driver, "auth_mode": cfg.Auth.Mode, "ai_provider": cfg.AI.Provider})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newResolver(cfg config.Config) (auth.IdentityResolver, auth.Revoker, error) {
	switch cfg.Auth.Mode {
	case "session":
		r, err := session.NewResolver(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)
		if err != nil {
			return nil, nil, fmt.Errorf("session resolver: %w", err)
		}
		return r, r, nil
	default:
		return mock.NewResolver(), nil, nil
	}
}

// newCompleter elige el backend de generación según AI_PROVIDER.
// Sin credenciales arranca igual: el asistente cae al fallback.
func newCompleter(ctx context.Context, cfg config.Config, log logger.Logger) (textgen.Completer, error) {
	var (
		c   textgen.Completer
		err error
	)
	switch cfg.AI.Provider {
	case "openai_assistant":
		c, err = openai.NewAssistantClient(openAIConfig(cfg))
	case "openai_chat":
		c, err = openai.NewChatClient(openAIConfig(cfg))
	case "gemini":
		c, err = gemini.New(ctx, gemini.Config{
			APIKey:  cfg.AI.GeminiAPIKey,
			Model:   cfg.AI.GeminiModel,
			Timeout: cfg.AI.Timeout,
		})
	default:
		return textgen.Disabled{}, nil
	}

	if errors.Is(err, textgen.ErrNotConfigured) {
		log.Warn("ai provider without credentials, using fallback", map[string]any{"provider": cfg.AI.Provider})
		return textgen.Disabled{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ai provider %s: %w", cfg.AI.Provider, err)
	}
	return c, nil
}

func openAIConfig(cfg config.Config) openai.Config {
	return openai.Config{
		BaseURL:         cfg.AI.OpenAIBaseURL,
		APIKey:          cfg.AI.OpenAIAPIKey,
		Model:           cfg.AI.OpenAIModel,
		AssistantID:     cfg.AI.OpenAIAssistantID,
		Timeout:         cfg.AI.Timeout,
		PollInterval:    cfg.AI.PollInterval,
		PollMaxInterval: cfg.AI.PollMaxInterval,
	}
}
