package auth

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid token")

// IdentityResolver resuelve la identidad a partir del token del request.
// El token puede venir vacío (modo mock).
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (Claims, error)
}

// Revoker lo implementan los resolvers con sesiones revocables.
type Revoker interface {
	Revoke(ctx context.Context, claims Claims) error
}
