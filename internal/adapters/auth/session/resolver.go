package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"petshop-crm/internal/ports/auth"
)

const issuer = "petshop-crm"

var (
	ErrSecretEmpty  = errors.New("session secret is empty")
	ErrTokenEmpty   = errors.New("token is empty")
	ErrTokenRevoked = errors.New("token revoked")
)

type tokenClaims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Resolver firma y verifica sesiones HS256.
// Los jti revocados quedan en memoria hasta que el token expira.
type Resolver struct {
	secret  []byte
	ttl     time.Duration
	revoked *gocache.Cache
	now     func() time.Time
}

func NewResolver(secret string, ttl time.Duration) (*Resolver, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretEmpty
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Resolver{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: gocache.New(ttl, 10*time.Minute),
		now:     time.Now,
	}, nil
}

// Issue emite un token firmado para la identidad.
func (r *Resolver) Issue(identity auth.Claims) (string, auth.Claims, error) {
	if strings.TrimSpace(identity.UserID) == "" {
		return "", auth.Claims{}, errors.New("identity without user id")
	}
	if identity.Role == "" {
		identity.Role = auth.RoleUser
	}

	now := r.now()
	identity.TokenID = uuid.NewString()
	identity.ExpiresAt = now.Add(r.ttl).Truncate(time.Second)

	claims := tokenClaims{
		Name:  identity.Name,
		Email: identity.Email,
		Role:  string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        identity.TokenID,
			Subject:   identity.UserID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(identity.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return "", auth.Claims{}, fmt.Errorf("sign session: %w", err)
	}
	return token, identity, nil
}

func (r *Resolver) Resolve(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(r.now),
	)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	if _, found := r.revoked.Get(claims.ID); found && claims.ID != "" {
		return auth.Claims{}, ErrTokenRevoked
	}

	out := auth.Claims{
		UserID:  claims.Subject,
		Name:    claims.Name,
		Email:   claims.Email,
		Role:    auth.Role(claims.Role),
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// Revoke invalida el token hasta su expiración.
func (r *Resolver) Revoke(_ context.Context, c auth.Claims) error {
	if c.TokenID == "" {
		return nil
	}
	ttl := c.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	r.revoked.Set(c.TokenID, struct{}{}, ttl)
	return nil
}
