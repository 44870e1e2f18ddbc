package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petshop-crm/internal/ports/auth"
)

func TestIssueAndResolve(t *testing.T) {
	r, err := NewResolver("s3cret", time.Hour)
	require.NoError(t, err)

	token, issued, err := r.Issue(auth.Claims{UserID: "owner-1", Name: "Ana", Role: auth.RoleAdmin})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, issued.TokenID)

	got, err := r.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", got.UserID)
	assert.Equal(t, "Ana", got.Name)
	assert.True(t, got.IsAdmin())
	assert.Equal(t, issued.TokenID, got.TokenID)
}

func TestResolve_RejectsForeignSignature(t *testing.T) {
	a, _ := NewResolver("secret-a", time.Hour)
	b, _ := NewResolver("secret-b", time.Hour)

	token, _, err := a.Issue(auth.Claims{UserID: "u1"})
	require.NoError(t, err)

	_, err = b.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestResolve_Expired(t *testing.T) {
	r, _ := NewResolver("s3cret", time.Minute)
	base := time.Now()
	r.now = func() time.Time { return base }

	token, _, err := r.Issue(auth.Claims{UserID: "u1"})
	require.NoError(t, err)

	r.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = r.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRevoke(t *testing.T) {
	r, _ := NewResolver("s3cret", time.Hour)
	token, _, err := r.Issue(auth.Claims{UserID: "u1"})
	require.NoError(t, err)

	claims, err := r.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.NoError(t, r.Revoke(context.Background(), claims))

	_, err = r.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestNewResolver_RequiresSecret(t *testing.T) {
	_, err := NewResolver(" ", time.Hour)
	assert.ErrorIs(t, err, ErrSecretEmpty)
}
