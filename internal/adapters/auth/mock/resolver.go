package mock

import (
	"context"

	"petshop-crm/internal/ports/auth"
)

// DefaultIdentity es la identidad fija del modo AUTH_MODE=mock.
var DefaultIdentity = auth.Claims{
	UserID: "temp-openid",
	Name:   "Usuário Temporário",
	Email:  "temp@example.com",
	Role:   auth.RoleAdmin,
}

// Resolver implementa auth.IdentityResolver devolviendo siempre la misma identidad.
// Solo para desarrollo: ignora el token.
type Resolver struct {
	Identity auth.Claims
}

func NewResolver() *Resolver {
	return &Resolver{Identity: DefaultIdentity}
}

func (r *Resolver) Resolve(context.Context, string) (auth.Claims, error) {
	return r.Identity, nil
}
