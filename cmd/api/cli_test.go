package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petshop-crm/internal/adapters/auth/session"
	"petshop-crm/internal/config"
	"petshop-crm/internal/platform/logger"
	"petshop-crm/internal/ports/auth"
	"petshop-crm/internal/ports/textgen"
)

func TestTokenCmd_IssuesVerifiableSession(t *testing.T) {
	t.Setenv("AUTH_MODE", "session")
	t.Setenv("SESSION_SECRET", "cli-secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("AI_PROVIDER", "none")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"token", "--env-file", "", "--open-id", "owner-1", "--name", "Dono", "--admin"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		tokenFlags.admin = false
	})

	require.NoError(t, rootCmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "role=admin")

	res, err := session.NewResolver("cli-secret", 0)
	require.NoError(t, err)
	claims, err := res.Resolve(context.Background(), lines[0])
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims.UserID)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestMigrateCmd_CreatesSQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crm.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", path)
	t.Setenv("AUTH_MODE", "mock")
	t.Setenv("AI_PROVIDER", "none")

	rootCmd.SetArgs([]string{"migrate", "--env-file", ""})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	_, err := os.Stat(path)
	require.NoError(t, err)

	// Idempotente.
	rootCmd.SetArgs([]string{"migrate", "--env-file", ""})
	require.NoError(t, rootCmd.Execute())
}

func TestNewCompleter_MissingCredentialsFallsBack(t *testing.T) {
	for _, provider := range []string{"openai_chat", "openai_assistant", "gemini", "none"} {
		cfg := config.Config{AI: config.AIConfig{Provider: provider}}
		c, err := newCompleter(context.Background(), cfg, logger.Nop())
		require.NoError(t, err, provider)
		assert.Equal(t, textgen.Disabled{}, c, provider)
	}
}

func TestNewCompleter_OpenAIChatConfigured(t *testing.T) {
	cfg := config.Config{AI: config.AIConfig{
		Provider:      "openai_chat",
		OpenAIAPIKey:  "sk-test",
		OpenAIBaseURL: "https://api.openai.com/v1",
	}}
	c, err := newCompleter(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	assert.NotEqual(t, textgen.Disabled{}, c)
}

func TestNewResolver(t *testing.T) {
	r, rev, err := newResolver(config.Config{Auth: config.AuthConfig{Mode: "mock"}})
	require.NoError(t, err)
	assert.Nil(t, rev)
	claims, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())

	_, _, err = newResolver(config.Config{Auth: config.AuthConfig{Mode: "session"}})
	require.Error(t, err)
}
